package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/dmitrijs2005/talentbridge/internal/dbx"
	"github.com/dmitrijs2005/talentbridge/internal/server/models"
	"github.com/dmitrijs2005/talentbridge/internal/server/repositories/repomanager"
)

// Identities is the durable user store used by UserService.
type Identities interface {
	CreateUserWithProfile(ctx context.Context, nu *models.NewUser, fields models.ProfileFields) (*models.User, models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	SetVerified(ctx context.Context, id string) error
	SetPassword(ctx context.Context, id, hash string) error
}

// IdentityStore implements Identities over the repository manager.
type IdentityStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewIdentityStore(db *sql.DB, m repomanager.RepositoryManager) *IdentityStore {
	return &IdentityStore{db: db, repomanager: m}
}

// CreateUserWithProfile inserts the user and the profile its role requires
// in one transaction. Readers see both rows or neither. A duplicate email
// yields common.ErrConflict; the unique index is the only arbiter.
func (s *IdentityStore) CreateUserWithProfile(ctx context.Context, nu *models.NewUser, fields models.ProfileFields) (*models.User, models.Profile, error) {
	var (
		user    *models.User
		profile models.Profile
	)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).Create(ctx, nu)
		if err != nil {
			return err
		}

		profiles := s.repomanager.Profiles(tx)
		switch nu.Role.ProfileKind() {
		case models.ProfileKindTalent:
			profile, err = profiles.CreateTalent(ctx, &models.TalentProfile{UserID: user.ID, Headline: fields.Headline})
		case models.ProfileKindRecruiter:
			profile, err = profiles.CreateRecruiter(ctx, &models.RecruiterProfile{UserID: user.ID, CompanyName: fields.CompanyName})
		}
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, nil, common.ErrConflict
		}
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, profile, nil
}

func (s *IdentityStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByEmail(ctx, email)
}

func (s *IdentityStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *IdentityStore) SetVerified(ctx context.Context, id string) error {
	return s.repomanager.Users(s.db).SetVerified(ctx, id)
}

func (s *IdentityStore) SetPassword(ctx context.Context, id, hash string) error {
	return s.repomanager.Users(s.db).UpdatePasswordHash(ctx, id, hash)
}
