package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ethiogpt/toolsgate/internal/auth"
	"github.com/ethiogpt/toolsgate/internal/metrics"
	"github.com/ethiogpt/toolsgate/internal/model"
	"github.com/ethiogpt/toolsgate/internal/repository"
)

// Auth errors.
var (
	ErrUsernameExists = errors.New("username already exists")
	ErrUserNotFound   = errors.New("user not found")
)

var userMessages = Messages{
	"username.required": "Username is required",
	"username.min":      "Username must be at least 3 characters",
	"username.max":      "Username too long. Maximum 50 characters.",
	"display_name.max":  "Display name too long. Maximum 100 characters.",
	"username":          "Invalid username",
}

// UserStore is the persistence the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	IncrementUsage(ctx context.Context, id string) error
	UserStats(ctx context.Context) (int, int64, error)
}

// AuthService handles registration, login and profile lookups.
type AuthService struct {
	users     UserStore
	tokens    *auth.TokenIssuer
	validator *Validator
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, tokens *auth.TokenIssuer, v *Validator, logger *slog.Logger, recorder metrics.Recorder) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if v == nil {
		v = NewValidator()
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		validator: v,
		logger:    logger.With("component", "service.auth"),
		metrics:   recorder,
	}
}

// CredentialsInput is the body of register and login.
type CredentialsInput struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	AccessToken string             `json:"access_token"`
	User        model.UserResponse `json:"user"`
}

// Register creates a user and issues a token.
func (s *AuthService) Register(ctx context.Context, input CredentialsInput) (*AuthResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.DisplayName = strings.TrimSpace(input.DisplayName)

	if err := s.validator.Struct(input, userMessages); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login issues a token for a username, registering it first when unknown.
func (s *AuthService) Login(ctx context.Context, input CredentialsInput) (*AuthResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.DisplayName = strings.TrimSpace(input.DisplayName)

	if input.Username == "" {
		return nil, &ValidationError{Message: userMessages["username.required"]}
	}

	user, err := s.users.GetUserByUsername(ctx, input.Username)
	if err == nil {
		return s.issue(user)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.validator.Struct(input, userMessages); err != nil {
		return nil, err
	}

	user, err = s.createUser(ctx, input)
	if errors.Is(err, ErrUsernameExists) {
		// Lost a race with a concurrent login for the same name.
		user, err = s.users.GetUserByUsername(ctx, input.Username)
	}
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// RecordUsage counts one tool call against the user. Unknown users are ignored.
func (s *AuthService) RecordUsage(ctx context.Context, userID string) {
	if err := s.users.IncrementUsage(ctx, userID); err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Warn("failed to record usage", "user_id", userID, "error", err)
	}
}

// Stats returns the number of users and the sum of their tool calls.
func (s *AuthService) Stats(ctx context.Context) (int, int64, error) {
	return s.users.UserStats(ctx)
}

func (s *AuthService) createUser(ctx context.Context, input CredentialsInput) (*model.User, error) {
	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	}

	user := &model.User{
		ID:          generateULID(),
		Username:    input.Username,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserRegistered()
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: token, User: user.ToResponse()}, nil
}

// generateULID returns a sortable unique id.
func generateULID() string {
	return ulid.Make().String()
}
