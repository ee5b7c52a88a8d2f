// Package services contains server-side business logic. UserService handles
// registration, email verification, password reset, login and the
// per-request identity resolution used by the HTTP and gRPC gates.
package services

import (
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/dmitrijs2005/talentbridge/internal/cryptox"
	"github.com/dmitrijs2005/talentbridge/internal/logging"
	"github.com/dmitrijs2005/talentbridge/internal/server/auth"
	"github.com/dmitrijs2005/talentbridge/internal/server/config"
	"github.com/dmitrijs2005/talentbridge/internal/server/notify"
	"github.com/dmitrijs2005/talentbridge/internal/server/secrets"
	"github.com/dmitrijs2005/talentbridge/internal/server/storage"
	validation "github.com/go-ozzo/ozzo-validation"
)

// UserService wires the identity store, the ephemeral secret store, the
// notification queue and the session issuer together.
type UserService struct {
	identities Identities
	secrets    secrets.Store
	dispatcher notify.Dispatcher
	uploader   storage.Uploader
	hasher     cryptox.PasswordHasher
	issuer     *auth.Issuer
	logger     logging.Logger

	otpTTL       time.Duration
	resetTTL     time.Duration
	resetURLBase string

	// dummyHash is compared against on unknown emails so that login timing
	// does not reveal which addresses are registered.
	dummyHash string

	newOTP        func() (string, error)
	newResetToken func() (string, error)
}

// NewUserService constructs a UserService. uploader may be storage.Disabled.
func NewUserService(
	identities Identities,
	store secrets.Store,
	dispatcher notify.Dispatcher,
	uploader storage.Uploader,
	issuer *auth.Issuer,
	cfg *config.Config,
	logger logging.Logger,
) *UserService {
	hasher := cryptox.NewPasswordHasher(cfg.BcryptCost)
	dummy, _ := hasher.Hash(hex.EncodeToString(common.GenerateRandByteArray(16)))

	return &UserService{
		identities:    identities,
		secrets:       store,
		dispatcher:    dispatcher,
		uploader:      uploader,
		hasher:        hasher,
		issuer:        issuer,
		logger:        logger.With("module", "users"),
		otpTTL:        cfg.OTPValidityDuration,
		resetTTL:      cfg.ResetTokenValidityDuration,
		resetURLBase:  cfg.ResetURLBase,
		dummyHash:     dummy,
		newOTP:        func() (string, error) { return common.NewNumericCode(common.OTPLength) },
		newResetToken: func() (string, error) { return common.MakeRandHexString(32) },
	}
}

// NormalizeEmail is the canonical form used for storage and secret keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validationErr converts ozzo-validation errors into common.ValidationError.
func validationErr(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for k, e := range verrs {
			if e != nil {
				fields[k] = e.Error()
			}
		}
		return &common.ValidationError{Fields: fields}
	}
	return err
}
