package services

import (
	"context"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/auth"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/testutil"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newIdentityService(t *testing.T, db *gorm.DB) (*IdentityService, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	return NewIdentityService(repository.NewUserRepository(db), log, nil), hook
}

func TestResolve_CreatesOnceAndIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	svc, _ := newIdentityService(t, db)
	ctx := context.Background()
	claims := &auth.Claims{Email: "alice@example.com", PreferredUsername: "alice"}

	first, err := svc.Resolve(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Username)
	assert.Equal(t, constants.ExternalCredentialsMarker, first.PasswordHash)

	second, err := svc.Resolve(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestResolve_OpaquePreferredUsernameUsesEmail(t *testing.T) {
	db := testutil.NewDB(t)
	svc, _ := newIdentityService(t, db)

	user, err := svc.Resolve(context.Background(), &auth.Claims{
		Email:             "bob@example.com",
		PreferredUsername: uuid.NewString(),
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
}

func TestResolve_RepairsStoredOpaqueUsername(t *testing.T) {
	db := testutil.NewDB(t)
	svc, hook := newIdentityService(t, db)
	stored := testutil.CreateUser(t, db, uuid.NewString(), "carol@example.com")

	user, err := svc.Resolve(context.Background(), &auth.Claims{Email: "carol@example.com"})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
	assert.Equal(t, "carol", user.Username)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, stored.ID).Error)
	assert.Equal(t, "carol", reloaded.Username)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Repaired opaque username", hook.LastEntry().Message)
}

func TestResolve_RepairsStoredOpaqueUsernameWithPreferredName(t *testing.T) {
	db := testutil.NewDB(t)
	svc, _ := newIdentityService(t, db)
	stored := testutil.CreateUser(t, db, uuid.NewString(), "alice@example.com")

	user, err := svc.Resolve(context.Background(), &auth.Claims{
		Email:             "alice@example.com",
		PreferredUsername: "Alice Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
	assert.Equal(t, "Alice Smith", user.Username)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, stored.ID).Error)
	assert.Equal(t, "Alice Smith", reloaded.Username)
}

func TestResolve_RejectsMissingEmail(t *testing.T) {
	db := testutil.NewDB(t)
	svc, _ := newIdentityService(t, db)

	_, err := svc.Resolve(context.Background(), &auth.Claims{PreferredUsername: "dave"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestResolve_ConcurrentFirstRequests(t *testing.T) {
	db := testutil.NewDB(t)
	svc, _ := newIdentityService(t, db)
	claims := &auth.Claims{Email: "erin@example.com", PreferredUsername: "erin"}

	const workers = 2
	ids := make([]uint64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := svc.Resolve(context.Background(), claims)
			errs[i] = err
			if err == nil {
				ids[i] = user.ID
			}
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, ids[0], ids[1])

	var count int64
	db.Model(&models.User{}).Where("email = ?", claims.Email).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestResolve_DuplicateKeyOnCreateRereadsRow(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'frank@example.com' for key 'users.idx_users_email'"})
	mock.ExpectRollback()
	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
			AddRow(5, "frank", "frank@example.com", constants.ExternalCredentialsMarker))

	svc, _ := newIdentityService(t, db)
	user, err := svc.Resolve(context.Background(), &auth.Claims{Email: "frank@example.com", PreferredUsername: "frank"})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), user.ID)
	assert.Equal(t, "frank", user.Username)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// conflictingUserRepo never finds the user and always reports a duplicate.
type conflictingUserRepo struct {
	repository.UserRepository
	lookups int
}

func (r *conflictingUserRepo) FindByEmail(context.Context, string) (*models.User, error) {
	r.lookups++
	return nil, gorm.ErrRecordNotFound
}

func (r *conflictingUserRepo) Create(context.Context, *models.User) error {
	return repository.ErrDuplicateKey
}

func TestResolve_ConflictAfterRetries(t *testing.T) {
	repo := &conflictingUserRepo{}
	log, hook := test.NewNullLogger()
	svc := NewIdentityService(repo, log, nil)

	_, err := svc.Resolve(context.Background(), &auth.Claims{Email: "gina@example.com"})
	assert.ErrorIs(t, err, ErrIdentityConflict)
	assert.Equal(t, maxResolveAttempts, repo.lookups)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestRepairOpaqueUsernames(t *testing.T) {
	db := testutil.NewDB(t)
	svc, _ := newIdentityService(t, db)

	testutil.CreateUser(t, db, uuid.NewString(), "hank@example.com")
	testutil.CreateUser(t, db, uuid.NewString(), "ivy@example.com")
	testutil.CreateUser(t, db, "jack", "jack@example.com")
	testutil.CreateUser(t, db, "a-name-that-is-exactly-36-characters", "kim@example.com")

	repaired, err := svc.RepairOpaqueUsernames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repaired)

	var names []string
	db.Model(&models.User{}).Order("id").Pluck("username", &names)
	assert.Equal(t, []string{"hank", "ivy", "jack", "a-name-that-is-exactly-36-characters"}, names)

	repaired, err = svc.RepairOpaqueUsernames(context.Background())
	require.NoError(t, err)
	assert.Zero(t, repaired)
}
