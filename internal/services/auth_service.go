package services

import (
	"errors"
	"fmt"

	"github.com/taskflow-dev/taskflow-api/internal/models"
	"github.com/taskflow-dev/taskflow-api/internal/repository"
	"github.com/taskflow-dev/taskflow-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("the user with this email already exists")
	ErrUsernameTaken        = errors.New("the user with this username already exists")
	ErrInvalidCredentials   = errors.New("incorrect username or password")
	ErrUnknownSubject       = errors.New("could not resolve token subject")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, login, and token resolution.
type AuthService struct {
	users  repository.UserRepository
	tokens *token.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Register creates a new user. Duplicate email and username are checked
// before any row is persisted.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if _, err := s.users.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.users.FindByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
	}

	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and issues an access token. The token
// subject is the user's email.
func (s *AuthService) Login(input LoginInput) (string, error) {
	user, err := s.users.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return signed, nil
}

// ResolveUser validates a token and loads the user it identifies.
// A token whose subject no longer matches an active user is treated the
// same as an invalid token.
func (s *AuthService) ResolveUser(raw string) (*models.User, error) {
	email, err := s.tokens.Resolve(raw)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrUnknownSubject
	}

	return user, nil
}
