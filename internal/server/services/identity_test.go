package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/dmitrijs2005/talentbridge/internal/dbx"
	"github.com/dmitrijs2005/talentbridge/internal/server/models"
	profilesrepo "github.com/dmitrijs2005/talentbridge/internal/server/repositories/profiles"
	usersrepo "github.com/dmitrijs2005/talentbridge/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	createErr error
	created   []*models.NewUser

	getOut *models.User
	getErr error

	setVerifiedErr error
	updateErr      error
}

func (f *fakeUsersRepo) Create(_ context.Context, nu *models.NewUser) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, nu)
	return &models.User{ID: "u-1", Email: nu.Email, Role: nu.Role, FullName: nu.FullName}, nil
}

func (f *fakeUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return f.getOut, f.getErr
}

func (f *fakeUsersRepo) GetByID(context.Context, string) (*models.User, error) {
	return f.getOut, f.getErr
}

func (f *fakeUsersRepo) SetVerified(context.Context, string) error { return f.setVerifiedErr }

func (f *fakeUsersRepo) UpdatePasswordHash(context.Context, string, string) error { return f.updateErr }

type fakeProfilesRepo struct {
	err        error
	talents    []*models.TalentProfile
	recruiters []*models.RecruiterProfile
}

func (f *fakeProfilesRepo) CreateTalent(_ context.Context, p *models.TalentProfile) (*models.TalentProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.talents = append(f.talents, p)
	return p, nil
}

func (f *fakeProfilesRepo) CreateRecruiter(_ context.Context, p *models.RecruiterProfile) (*models.RecruiterProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p.CompanyName == "" {
		p.CompanyName = models.DefaultCompanyName
	}
	f.recruiters = append(f.recruiters, p)
	return p, nil
}

func (f *fakeProfilesRepo) Get(context.Context, string, models.ProfileKind) (models.Profile, error) {
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakeProfilesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.u }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profilesrepo.Repository    { return m.p }

func TestCreateUserWithProfile_Talent(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}, p: &fakeProfilesRepo{}}
	s := NewIdentityStore(db, rm)

	u, p, err := s.CreateUserWithProfile(context.Background(),
		&models.NewUser{Email: "a@x.com", Role: models.RoleTalent},
		models.ProfileFields{Headline: "Gopher"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)

	tp, ok := p.(*models.TalentProfile)
	require.True(t, ok)
	assert.Equal(t, "u-1", tp.UserID)
	assert.Equal(t, "Gopher", tp.Headline)
	assert.Empty(t, rm.p.recruiters)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserWithProfile_Recruiter(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}, p: &fakeProfilesRepo{}}
	s := NewIdentityStore(db, rm)

	_, p, err := s.CreateUserWithProfile(context.Background(),
		&models.NewUser{Email: "hr@x.com", Role: models.RoleHR}, models.ProfileFields{})
	require.NoError(t, err)

	rp, ok := p.(*models.RecruiterProfile)
	require.True(t, ok)
	assert.Equal(t, models.DefaultCompanyName, rp.CompanyName)
}

func TestCreateUserWithProfile_ProfileLessRole(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}, p: &fakeProfilesRepo{}}
	s := NewIdentityStore(db, rm)

	_, p, err := s.CreateUserWithProfile(context.Background(),
		&models.NewUser{Email: "boss@x.com", Role: models.RoleManager}, models.ProfileFields{})
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Empty(t, rm.p.talents)
	assert.Empty(t, rm.p.recruiters)
}

func TestCreateUserWithProfile_ProfileFailureRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}, p: &fakeProfilesRepo{err: errBoom{}}}
	s := NewIdentityStore(db, rm)

	_, _, err := s.CreateUserWithProfile(context.Background(),
		&models.NewUser{Email: "a@x.com", Role: models.RoleTalent}, models.ProfileFields{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserWithProfile_Conflict(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrConflict}, p: &fakeProfilesRepo{}}
	s := NewIdentityStore(db, rm)

	_, _, err := s.CreateUserWithProfile(context.Background(),
		&models.NewUser{Email: "a@x.com", Role: models.RoleTalent}, models.ProfileFields{})
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Empty(t, rm.p.talents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserWithProfile_BeginError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	s := NewIdentityStore(db, &fakeRepoManager{u: &fakeUsersRepo{}, p: &fakeProfilesRepo{}})

	_, _, err := s.CreateUserWithProfile(context.Background(),
		&models.NewUser{Email: "a@x.com", Role: models.RoleTalent}, models.ProfileFields{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conn")
}

func TestIdentityStore_Delegates(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	u := &fakeUsersRepo{getOut: &models.User{ID: "u-9"}, setVerifiedErr: errBoom{}}
	s := NewIdentityStore(db, &fakeRepoManager{u: u, p: &fakeProfilesRepo{}})

	got, err := s.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u-9", got.ID)

	got, err = s.FindByID(context.Background(), "u-9")
	require.NoError(t, err)
	assert.Equal(t, "u-9", got.ID)

	assert.EqualError(t, s.SetVerified(context.Background(), "u-9"), "boom")
	assert.NoError(t, s.SetPassword(context.Background(), "u-9", "h"))
}
