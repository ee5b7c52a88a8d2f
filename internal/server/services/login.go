package services

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/dmitrijs2005/talentbridge/internal/cryptox"
	"github.com/dmitrijs2005/talentbridge/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
)

// Session is the result of a successful login.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Login checks credentials and mints a session token. Unknown emails and
// wrong passwords both yield common.ErrorUnauthorized; unverified accounts
// yield common.ErrNotVerified.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if err := validationErr(validation.Errors{
		"email":    validation.Validate(email, validation.Required),
		"password": validation.Validate(password, validation.Required),
	}.Filter()); err != nil {
		return nil, err
	}

	user, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = s.hasher.Compare(s.dummyHash, password)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "find user failed", "email", email, "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			s.logger.Error(ctx, "stored hash unusable", "user_id", user.ID, "error", err)
		}
		return nil, common.ErrorUnauthorized
	}

	if !user.IsVerified {
		return nil, common.ErrNotVerified
	}

	token, expiresAt, err := s.issuer.Mint(user)
	if err != nil {
		s.logger.Error(ctx, "mint token failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate verifies token and re-reads its user from the store. The
// returned user carries the current role, not the one in the token, so
// deleted or demoted users are caught even with a valid signature.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.identities.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "find user failed", "user_id", claims.UserID, "error", err)
		return nil, common.ErrorInternal
	}

	if user.Role != claims.Role {
		s.logger.Debug(ctx, "role changed since token was issued", "user_id", user.ID, "token_role", claims.Role, "role", user.Role)
	}

	return user, nil
}

// Authorize returns common.ErrForbidden unless role is in allowed.
func Authorize(role models.Role, allowed ...models.Role) error {
	if slices.Contains(allowed, role) {
		return nil
	}
	return common.ErrForbidden
}
