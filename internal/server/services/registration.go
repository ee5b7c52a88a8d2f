package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/dmitrijs2005/talentbridge/internal/cryptox"
	"github.com/dmitrijs2005/talentbridge/internal/server/models"
	"github.com/dmitrijs2005/talentbridge/internal/server/notify"
	"github.com/dmitrijs2005/talentbridge/internal/server/secrets"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Avatar is an optional picture uploaded with the registration form.
type Avatar struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// RegisterInput is the registration request. Role is the raw role name and
// is parsed case-insensitively. Self-registered users never carry a manager.
type RegisterInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`

	Profile models.ProfileFields `json:"-"`
	Avatar  *Avatar              `json:"-"`
}

func (in *RegisterInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = NormalizeEmail(in.Email)
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
	in.Profile.Headline = strings.TrimSpace(in.Profile.Headline)
	in.Profile.CompanyName = strings.TrimSpace(in.Profile.CompanyName)
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(1, cryptox.MaxPasswordBytes)),
		validation.Field(&in.Role, validation.Required, validation.By(validRole)),
	)
}

func validRole(value interface{}) error {
	s, _ := value.(string)
	if _, err := models.ParseRole(s); err != nil {
		return errors.New("must be one of ADMIN, MANAGER, HR, TALENT")
	}
	return nil
}

// Register creates an unverified user together with the profile its role
// requires, then issues a verification code and queues the email carrying
// it. Once the user row is committed the call succeeds: a lost code or
// email is recovered through ResendOTP.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.normalize()
	if err := validationErr(in.Validate()); err != nil {
		return nil, err
	}
	role, _ := models.ParseRole(in.Role)

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, common.NewValidationError("password", err.Error())
	}

	nu := &models.NewUser{
		FullName:          in.FullName,
		Email:             in.Email,
		PasswordHash:      hash,
		Role:              role,
		ProfilePictureRef: s.uploadAvatar(ctx, in.Avatar),
	}

	user, _, err := s.identities.CreateUserWithProfile(ctx, nu, in.Profile)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("%w: email is already registered", common.ErrConflict)
		}
		s.logger.Error(ctx, "create user failed", "email", in.Email, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "role", user.Role)

	if err := s.issueOTP(ctx, user.Email); err != nil {
		s.logger.Warn(ctx, "verification code not sent", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// ResendOTP replaces the pending verification code of an unverified user
// and queues a new email.
func (s *UserService) ResendOTP(ctx context.Context, email string) error {
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
	if user.IsVerified {
		return fmt.Errorf("%w: email is already verified", common.ErrConflict)
	}

	return s.issueOTP(ctx, user.Email)
}

// issueOTP stores a fresh code under otp:<email> and queues the email.
func (s *UserService) issueOTP(ctx context.Context, email string) error {
	code, err := s.newOTP()
	if err != nil {
		return fmt.Errorf("%w: generate code: %v", common.ErrorInternal, err)
	}

	if err := s.secrets.Put(ctx, secrets.OTPKey(email), code, s.otpTTL); err != nil {
		return err
	}

	msg, err := notify.VerificationMessage(email, code, s.otpTTL)
	if err != nil {
		return fmt.Errorf("%w: render: %v", common.ErrorInternal, err)
	}

	return s.dispatcher.Enqueue(ctx, msg)
}

func (s *UserService) uploadAvatar(ctx context.Context, a *Avatar) *string {
	if a == nil || a.Body == nil || s.uploader == nil {
		return nil
	}
	url, err := s.uploader.Upload(ctx, a.Filename, a.ContentType, a.Body, a.Size)
	if err != nil {
		s.logger.Warn(ctx, "avatar upload failed, continuing without picture", "error", err)
		return nil
	}
	return &url
}
