package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/dmitrijs2005/talentbridge/internal/dbx"
	"github.com/dmitrijs2005/talentbridge/internal/server/models"
)

const userColumns = `id, full_name, email, password_hash, role, profile_picture_ref, is_verified, manager_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new unverified user. A duplicate email yields common.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, nu *models.NewUser) (*models.User, error) {
	query :=
		`INSERT INTO users (full_name, email, password_hash, role, profile_picture_ref, manager_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, is_verified, created_at, updated_at
		 `

	user := &models.User{
		FullName:          nu.FullName,
		Email:             nu.Email,
		PasswordHash:      nu.PasswordHash,
		Role:              nu.Role,
		ProfilePictureRef: nu.ProfilePictureRef,
		ManagerID:         nu.ManagerID,
	}

	err := r.db.QueryRowContext(ctx, query,
		nu.FullName, nu.Email, nu.PasswordHash, string(nu.Role), nu.ProfilePictureRef, nu.ManagerID).
		Scan(&user.ID, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var role string

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &role,
		&user.ProfilePictureRef, &user.IsVerified, &user.ManagerID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Role = models.Role(role)
	return user, nil
}

// SetVerified flips is_verified to true. It never writes false, so calling
// it twice is a no-op success.
func (r *PostgresRepository) SetVerified(ctx context.Context, id string) error {
	query :=
		`UPDATE users SET is_verified = TRUE, updated_at = now()
		 WHERE id = $1
		 `
	return r.execOne(ctx, query, id)
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	query :=
		`UPDATE users SET password_hash = $2, updated_at = now()
		 WHERE id = $1
		 `
	return r.execOne(ctx, query, id, hash)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
