package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/gadhub/internal/models"
	"github.com/yourorg/gadhub/internal/store"
	"github.com/yourorg/gadhub/internal/token"
)

// Service-level outcomes. Handlers map these onto the HTTP error contract;
// anything else that escapes the service is an infrastructure failure.
var (
	// ErrAlreadyExists covers both a colliding email and a colliding
	// student ID. Which field collided is deliberately not revealed.
	ErrAlreadyExists = errors.New("account already exists")

	// ErrInvalidCredentials covers unknown email and wrong password alike.
	// The two cases must stay indistinguishable to the client.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidInput = errors.New("invalid input")
)

// SignupParams are the validated fields for account creation.
type SignupParams struct {
	StudentID string
	Email     string
	FirstName string
	LastName  string
	Birthday  time.Time
	Password  string
}

// Service orchestrates signup, login, and the password/profile mutation
// paths over the credential store, the bcrypt hasher, and the token issuer.
type Service struct {
	users      store.UserStore
	tokens     *token.Issuer
	bcryptCost int
}

func NewService(users store.UserStore, tokens *token.Issuer) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Signup creates a new account. It pre-checks uniqueness of email and
// student ID, hashes the password, and inserts the record. The pre-check is
// inherently racy, so a duplicate-key insert failure is folded into the same
// ErrAlreadyExists outcome. Signup does not log the user in.
func (s *Service) Signup(ctx context.Context, p SignupParams) error {
	if len(p.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	existing, err := s.users.FindByEmailOrStudentID(ctx, p.Email, p.StudentID)
	if err != nil {
		return fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.users.Insert(ctx, &models.User{
		StudentID:    p.StudentID,
		Email:        p.Email,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Birthday:     p.Birthday,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Login verifies credentials and issues a bearer token bound to the user.
// An unknown email and a wrong password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, expires, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &models.LoginResponse{
		Token:     signed,
		User:      user.Public(),
		ExpiresAt: expires,
	}, nil
}

// GetUser materializes the current user for a verified token subject.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile applies partial profile edits and returns the updated user.
func (s *Service) UpdateProfile(ctx context.Context, id int64, firstName, lastName *string, birthday *time.Time) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	if birthday != nil {
		user.Birthday = *birthday
	}

	if err := s.users.UpdateProfile(ctx, id, user.FirstName, user.LastName, user.Birthday); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
// This is the only path that replaces a password hash after signup.
func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	if len(next) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, id, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SetAvatar persists the uploaded avatar reference and returns the updated
// user. The reference is opaque to the auth core.
func (s *Service) SetAvatar(ctx context.Context, id int64, avatar models.Avatar) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.UpdateAvatar(ctx, id, avatar); err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}
	user.Avatar = &avatar
	return user, nil
}
