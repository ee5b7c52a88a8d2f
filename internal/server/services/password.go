package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/dmitrijs2005/talentbridge/internal/cryptox"
	"github.com/dmitrijs2005/talentbridge/internal/server/notify"
	"github.com/dmitrijs2005/talentbridge/internal/server/secrets"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// ForgotPassword issues a single-use reset token for a registered email and
// queues the reset link.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if err := validationErr(validation.Errors{
		"email": validation.Validate(email, validation.Required, is.Email),
	}.Filter()); err != nil {
		return err
	}

	user, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "find user failed", "email", email, "error", err)
		return common.ErrorInternal
	}

	token, err := s.newResetToken()
	if err != nil {
		return fmt.Errorf("%w: generate token: %v", common.ErrorInternal, err)
	}

	if err := s.secrets.Put(ctx, secrets.ResetKey(token), user.Email, s.resetTTL); err != nil {
		return err
	}

	msg, err := notify.PasswordResetMessage(user.Email, s.resetURLBase+token, s.resetTTL)
	if err != nil {
		return fmt.Errorf("%w: render: %v", common.ErrorInternal, err)
	}

	if err := s.dispatcher.Enqueue(ctx, msg); err != nil {
		return err
	}

	s.logger.Info(ctx, "password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword consumes token and stores a new hash for its owner.
// Unknown, expired or already used tokens return common.ErrOTP. The token
// is taken atomically, so only one of several concurrent resets wins.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	if err := validationErr(validation.Errors{
		"token":    validation.Validate(token, validation.Required),
		"password": validation.Validate(password, validation.Required, validation.Length(1, cryptox.MaxPasswordBytes)),
	}.Filter()); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return common.NewValidationError("password", err.Error())
	}

	email, ok, err := s.secrets.Take(ctx, secrets.ResetKey(token))
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrOTP
	}

	user, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrOTP
		}
		s.logger.Error(ctx, "find user failed", "email", email, "error", err)
		return common.ErrorInternal
	}

	if err := s.identities.SetPassword(ctx, user.ID, hash); err != nil {
		s.logger.Error(ctx, "update password failed", "user_id", user.ID, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}
