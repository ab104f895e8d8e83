package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stocktrack/internal/models"
	"stocktrack/internal/store"
	"stocktrack/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and login
type AuthService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store *store.Store) *AuthService {
	return &AuthService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Register creates a new user with a bcrypt-hashed password. Usernames are
// globally unique; plaintext passwords are never stored.
func (as *AuthService) Register(ctx context.Context, username, password, role string) error {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	role = strings.TrimSpace(role)

	if username == "" || password == "" || role == "" {
		util.RegistrationsFailedTotal.WithLabelValues("validation").Inc()
		return fmt.Errorf("%w: all fields must be filled", ErrValidation)
	}
	if !models.ValidRole(role) {
		util.RegistrationsFailedTotal.WithLabelValues("validation").Inc()
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	taken, err := as.store.UsernameTaken(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		util.RegistrationsFailedTotal.WithLabelValues("duplicate").Inc()
		return ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := as.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			// Lost a concurrent registration race after the check passed
			util.RegistrationsFailedTotal.WithLabelValues("duplicate").Inc()
			return ErrDuplicateUser
		}
		util.RegistrationsFailedTotal.WithLabelValues("db_error").Inc()
		return fmt.Errorf("failed to register user: %w", err)
	}

	util.RegistrationsTotal.Inc()
	as.logger.Info("User registered",
		zap.String("username", username),
		zap.String("role", role))
	return nil
}

// Login verifies credentials and returns the caller's identity. No session
// token is issued; the caller holds the result for the lifetime of its
// session.
func (as *AuthService) Login(ctx context.Context, username, password string) (*models.Credentials, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password cannot be empty", ErrValidation)
	}

	user, err := as.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			util.LoginsFailedTotal.Inc()
			return nil, ErrAuth
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.LoginsFailedTotal.Inc()
		as.logger.Warn("Failed login attempt", zap.String("username", username))
		return nil, ErrAuth
	}

	util.LoginsTotal.Inc()
	as.logger.Info("User logged in",
		zap.String("username", username),
		zap.String("role", user.Role))

	return &models.Credentials{Username: user.Username, Role: user.Role}, nil
}
