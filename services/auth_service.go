package services

import (
	"fmt"
	"time"

	"chatterbox/auth"
	"chatterbox/domain"
	"chatterbox/errors"
	"chatterbox/repositories"

	"github.com/google/uuid"
)

type IAuthService interface {
	Signup(req auth.SignupRequest) (domain.User, string, error)
	Login(req auth.LoginRequest) (domain.User, string, error)
}

type AuthService struct {
	users    repositories.IUserRepository
	tokenTTL time.Duration
}

func NewAuthService(users repositories.IUserRepository, tokenTTL time.Duration) IAuthService {
	return &AuthService{users: users, tokenTTL: tokenTTL}
}

// Signup registers a new account and issues its first session token.
// A duplicate email surfaces as errors.ErrUserAlreadyExists from the
// repository's index check.
func (s *AuthService) Signup(req auth.SignupRequest) (domain.User, string, error) {
	if err := auth.ValidateSignup(req); err != nil {
		return domain.User{}, "", err
	}

	// Hash before touching storage so the repository never sees a
	// plain password. An absent password stays an empty hash and the
	// account remains passwordless.
	var hash string
	if req.Password != "" {
		var err error
		hash, err = auth.HashPassword(req.Password)
		if err != nil {
			return domain.User{}, "", fmt.Errorf("hashing failed: %w", err)
		}
	}

	count, err := s.users.CountUsers()
	if err != nil {
		return domain.User{}, "", err
	}

	record := repositories.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Avatar:       avatarFor(count),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(record); err != nil {
		return domain.User{}, "", err
	}

	token, err := auth.GenerateToken(record.ID, record.Name, s.tokenTTL)
	if err != nil {
		return domain.User{}, "", errors.ErrTokenGeneration
	}
	return record.ToDomain(), token, nil
}

// Login resolves the account by email and issues a session token. When
// the account holds a password hash the supplied password must match;
// accounts without one (seed data, passwordless signups) log straight
// in. Both failure modes collapse into ErrInvalidCredentials to avoid
// account enumeration.
func (s *AuthService) Login(req auth.LoginRequest) (domain.User, string, error) {
	if err := auth.ValidateLogin(req); err != nil {
		return domain.User{}, "", errors.ErrInvalidCredentials
	}

	record, found, err := s.users.GetUserByEmail(req.Email)
	if err != nil {
		return domain.User{}, "", err
	}
	if !found {
		return domain.User{}, "", errors.ErrInvalidCredentials
	}

	if record.PasswordHash != "" {
		match, err := auth.ComparePassword(req.Password, record.PasswordHash)
		if err != nil || !match {
			return domain.User{}, "", errors.ErrInvalidCredentials
		}
	}

	token, err := auth.GenerateToken(record.ID, record.Name, s.tokenTTL)
	if err != nil {
		return domain.User{}, "", errors.ErrTokenGeneration
	}
	return record.ToDomain(), token, nil
}

func avatarFor(existingUsers int) string {
	return fmt.Sprintf("https://i.pravatar.cc/150?img=%d", existingUsers+1)
}
