package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"weather-backend/internal/domain"
	"weather-backend/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	// It is deliberately the same for an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when registering with a taken username or email.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 8

// LoginResult carries a freshly issued session token and its owner.
type LoginResult struct {
	Token string
	User  *domain.User
}

// AuthService describes account lifecycle and session operations.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *TokenService
}

func NewAuthService(users repository.UserRepository, tokens *TokenService) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, &ValidationError{Field: "username", Message: "username is required"}
	}
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailPattern.MatchString(email) {
		return nil, &ValidationError{Field: "email", Message: "email is not valid"}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < minPasswordLength {
		return nil, &ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	// The store's unique indexes decide duplicates, including the race between
	// two concurrent registrations for the same email.
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		Token: token,
		User:  sanitizeUser(user),
	}, nil
}

// VerifyToken resolves a session token back to its user. Every failure mode,
// including a user deleted after issuance, collapses into ErrInvalidToken.
func (s *authService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", ErrInvalidToken)
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *authService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
