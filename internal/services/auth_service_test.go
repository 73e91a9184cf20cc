package services

import (
	"testing"

	"github.com/planflow/planboard-api/internal/constants"
	"github.com/planflow/planboard-api/internal/database"
	"github.com/planflow/planboard-api/internal/models"
	"github.com/planflow/planboard-api/internal/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) (*AuthService, *store.GormStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Document{}))

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	s := store.NewGormStore(db)
	return NewAuthService(s), s
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	svc, _ := setupAuthService(t)

	user, err := svc.Signup(SignupInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEqual(t, "supersecret", user.PasswordHash)

	logged, err := svc.Login(LoginInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, user.ID, logged.ID)

	_, err = svc.Login(LoginInput{Email: "alice@example.com", Password: "wrongpass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(LoginInput{Email: "nobody@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_SignupValidation(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Signup(SignupInput{Email: "", Password: "supersecret"})
	require.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Signup(SignupInput{Email: "short@example.com", Password: "seven77"})
	require.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Signup(SignupInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	_, err = svc.Signup(SignupInput{Email: "alice@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_SignupRegistersDirectory(t *testing.T) {
	svc, st := setupAuthService(t)

	user, err := svc.Signup(SignupInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	snap, err := st.Load(store.Collection(constants.CollectionUsers))
	require.NoError(t, err)
	require.Len(t, snap, 1)

	docs := store.DecodeAll[models.UserDoc](snap)
	require.Equal(t, UID(user.ID), docs[0].UID)
	require.Equal(t, "alice@example.com", docs[0].Email)
}

func TestAuthService_LoginUpsertsDirectoryOnce(t *testing.T) {
	svc, st := setupAuthService(t)

	_, err := svc.Signup(SignupInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	_, err = svc.Login(LoginInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	snap, err := st.Load(store.Collection(constants.CollectionUsers))
	require.NoError(t, err)
	require.Len(t, snap, 1)
}

func TestAuthService_ListUserEmails(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Signup(SignupInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	_, err = svc.Signup(SignupInput{Email: "bob@example.com", Password: "supersecret"})
	require.NoError(t, err)

	emails, err := svc.ListUserEmails()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"alice@example.com", "bob@example.com"}, emails)
}
