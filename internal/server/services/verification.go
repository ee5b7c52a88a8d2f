package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/dmitrijs2005/talentbridge/internal/server/secrets"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// VerifyOTP consumes the code issued to email and marks the user verified.
//
// A missing, expired or wrong code returns common.ErrOTP and changes
// nothing, so mistyped codes may be retried. A matching code is consumed
// atomically before the flag is set, so concurrent submissions of one code
// succeed at most once.
func (s *UserService) VerifyOTP(ctx context.Context, email, code string) error {
	email = NormalizeEmail(email)
	if err := validationErr(validation.Errors{
		"email": validation.Validate(email, validation.Required, is.Email),
		"otp":   validation.Validate(code, validation.Required),
	}.Filter()); err != nil {
		return err
	}

	key := secrets.OTPKey(email)

	ok, err := s.secrets.ConsumeIfEqual(ctx, key, code)
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

	if err := s.identities.SetVerified(ctx, user.ID); err != nil {
		s.logger.Error(ctx, "set verified failed", "user_id", user.ID, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "email verified", "user_id", user.ID)
	return nil
}
