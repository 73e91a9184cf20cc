package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/planflow/planboard-api/internal/constants"
	"github.com/planflow/planboard-api/internal/database"
	"github.com/planflow/planboard-api/internal/models"
	"github.com/planflow/planboard-api/internal/store"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrEmailRequired        = errors.New("email is required")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication and the user directory that
// mention suggestions read from. Every signup and login upserts the
// user's directory document so the directory converges even for
// accounts created before it existed.
type AuthService struct {
	store store.Store
}

// NewAuthService creates a new AuthService.
func NewAuthService(st store.Store) *AuthService {
	return &AuthService{store: st}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Email    string
	Password string
}

// Signup creates a new user and registers it in the user directory.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	db := database.GetDB()
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.registerDirectory(user); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	var user models.User
	err := database.GetDB().Where("email = ?", strings.TrimSpace(input.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.registerDirectory(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	var user models.User
	if err := database.GetDB().First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// ListUserEmails returns every directory email for mention
// suggestions.
func (s *AuthService) ListUserEmails() ([]string, error) {
	snap, err := s.store.Load(store.Collection(constants.CollectionUsers))
	if err != nil {
		return nil, fmt.Errorf("failed to load user directory: %w", err)
	}
	docs := store.DecodeAll[models.UserDoc](snap)
	emails := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.Email != "" {
			emails = append(emails, d.Email)
		}
	}
	return emails, nil
}

// UID is the directory document id for a user.
func UID(userID uint64) string {
	return strconv.FormatUint(userID, 10)
}

func (s *AuthService) registerDirectory(user *models.User) error {
	uid := UID(user.ID)
	err := s.store.Set(constants.CollectionUsers, uid, map[string]any{
		"uid":   uid,
		"email": user.Email,
	})
	if err != nil {
		return fmt.Errorf("failed to register user directory: %w", err)
	}
	return nil
}
