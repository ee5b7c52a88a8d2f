package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/dmitrijs2005/talentbridge/internal/dbx"
	"github.com/dmitrijs2005/talentbridge/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateTalent(ctx context.Context, p *models.TalentProfile) (*models.TalentProfile, error) {
	query :=
		`INSERT INTO talent_profiles (user_id, headline)
		 VALUES ($1, $2)
		 RETURNING created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, p.UserID, p.Headline).Scan(&p.CreatedAt); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// CreateRecruiter inserts a recruiter profile, defaulting an empty company name.
func (r *PostgresRepository) CreateRecruiter(ctx context.Context, p *models.RecruiterProfile) (*models.RecruiterProfile, error) {
	if p.CompanyName == "" {
		p.CompanyName = models.DefaultCompanyName
	}

	query :=
		`INSERT INTO recruiter_profiles (user_id, company_name)
		 VALUES ($1, $2)
		 RETURNING created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, p.UserID, p.CompanyName).Scan(&p.CreatedAt); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Get loads the profile of the given kind. ProfileKindNone yields common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, userID string, kind models.ProfileKind) (models.Profile, error) {
	var (
		row *sql.Row
		p   models.Profile
	)

	switch kind {
	case models.ProfileKindTalent:
		tp := &models.TalentProfile{}
		row = r.db.QueryRowContext(ctx, `SELECT user_id, headline, created_at FROM talent_profiles WHERE user_id = $1`, userID)
		if err := row.Scan(&tp.UserID, &tp.Headline, &tp.CreatedAt); err != nil {
			return nil, wrapGetErr(err)
		}
		p = tp
	case models.ProfileKindRecruiter:
		rp := &models.RecruiterProfile{}
		row = r.db.QueryRowContext(ctx, `SELECT user_id, company_name, created_at FROM recruiter_profiles WHERE user_id = $1`, userID)
		if err := row.Scan(&rp.UserID, &rp.CompanyName, &rp.CreatedAt); err != nil {
			return nil, wrapGetErr(err)
		}
		p = rp
	default:
		return nil, common.ErrorNotFound
	}

	return p, nil
}

func wrapGetErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}
