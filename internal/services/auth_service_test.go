package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/auth"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/testutil"
	"gorm.io/gorm"
)

const authTestSecret = "auth-test-secret"

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	log, _ := test.NewNullLogger()
	issuer := auth.NewIssuer(authTestSecret, "test", time.Hour)
	return NewAuthService(repository.NewUserRepository(db), issuer, log), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)

	loggedIn, token, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := auth.NewJWTVerifier(auth.TrustedIssuer{Issuer: "test", Key: []byte(authTestSecret)}).Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)

	_, _, err = svc.Login(ctx, LoginInput{Username: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Register(ctx, RegisterInput{Username: uuid.NewString(), Email: "bob@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "not-an-email", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob2@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, RegisterInput{Username: "bobby", Email: "bob@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	missingTeam := uint64(42)
	_, err = svc.Register(ctx, RegisterInput{Username: "carl", Email: "carl@example.com", Password: "password123", TeamID: &missingTeam})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestLogin_RejectsExternallyManagedUser(t *testing.T) {
	svc, db := setupAuthService(t)
	user := testutil.CreateUser(t, db, "dana", "dana@example.com")
	require.NoError(t, db.Model(user).Update("password_hash", constants.ExternalCredentialsMarker).Error)

	_, _, err := svc.Login(context.Background(), LoginInput{Username: "dana", Password: constants.ExternalCredentialsMarker})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUser(t *testing.T) {
	svc, db := setupAuthService(t)
	user := testutil.CreateUser(t, db, "eve", "eve@example.com")

	found, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "eve", found.Username)

	_, err = svc.GetUser(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
