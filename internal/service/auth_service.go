package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"userbase/internal/auth"
	"userbase/internal/cache"
	apperrors "userbase/internal/errors"
	"userbase/internal/model"
	"userbase/internal/repository"
)

const (
	tokenCacheKeyPrefix = "authtoken:"
	tokenCacheTTL       = 24 * time.Hour
)

// AuthService verifies credentials and issues/resolves opaque bearer tokens.
type AuthService interface {
	// Authenticate checks an email/password pair and returns the matching
	// active user. Unknown email, inactive account, and wrong password all
	// fail identically to avoid account enumeration.
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	// IssueToken returns the user's bearer key, minting one on first login
	// and reusing it on every later login.
	IssueToken(ctx context.Context, user *model.User) (string, error)
	// ResolveToken maps a bearer key to its user; inactive users and unknown
	// keys are rejected.
	ResolveToken(ctx context.Context, key string) (*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	cache  *cache.Client
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, cache *cache.Client) AuthService {
	return &authService{users: users, tokens: tokens, cache: cache}
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	return user, nil
}

func (s *authService) IssueToken(ctx context.Context, user *model.User) (string, error) {
	key, err := auth.GenerateTokenKey()
	if err != nil {
		return "", err
	}

	// GetOrCreate discards key when a binding already exists, so repeated
	// logins hand back the original token.
	token, err := s.tokens.GetOrCreate(ctx, user.ID, key)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.cacheBinding(ctx, token)
	return token.Key, nil
}

func (s *authService) ResolveToken(ctx context.Context, key string) (*model.User, error) {
	if key == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	// The key→user binding is immutable, so a cache hit only skips the token
	// row lookup; the user row is always read fresh for is_active and flags.
	if data, _ := s.cache.Get(ctx, tokenCacheKeyPrefix+key); data != nil {
		if id, err := strconv.ParseUint(string(data), 10, 64); err == nil {
			return s.activeUser(ctx, uint(id))
		}
	}

	token, err := s.tokens.FindByKey(ctx, key)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}
	s.cacheBinding(ctx, token)

	return s.activeUser(ctx, token.UserID)
}

func (s *authService) activeUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthenticated
	}
	return user, nil
}

func (s *authService) cacheBinding(ctx context.Context, token *model.AuthToken) {
	_ = s.cache.Set(ctx, tokenCacheKeyPrefix+token.Key,
		[]byte(strconv.FormatUint(uint64(token.UserID), 10)), tokenCacheTTL)
}
