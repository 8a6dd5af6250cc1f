package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"userbase/internal/auth"
	"userbase/internal/cache"
	apperrors "userbase/internal/errors"
	"userbase/internal/model"
	"userbase/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// CreateUserInput carries the fields accepted when creating a user. A nil
// Password produces an account that can never authenticate.
type CreateUserInput struct {
	Email     string
	Password  *string
	FirstName string
	LastName  string
}

// ProfileUpdate is a partial update of the caller's own profile. Nil fields
// are left untouched.
type ProfileUpdate struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}

// AdminUpdate extends ProfileUpdate with the role flags only staff tooling
// may touch. DateJoined and LastLogin are never writable.
type AdminUpdate struct {
	ProfileUpdate
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

// UserService exposes account lifecycle and profile operations.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*model.User, error)
	CreateSuperuser(ctx context.Context, email, password string) (*model.User, error)
	Profile(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	AdminUpdateUser(ctx context.Context, id uint, update AdminUpdate) (*model.User, error)
	DeactivateUser(ctx context.Context, id uint) (*model.User, error)
}

type userService struct {
	repo       repository.UserRepository
	cache      *cache.Client
	bcryptCost int
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, bcryptCost int) UserService {
	return &userService{repo: repo, cache: cache, bcryptCost: bcryptCost}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Create persists a new user with a normalized email and hashed password.
func (s *userService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if input.Email == "" {
		return nil, apperrors.ErrEmailRequired
	}

	hash, err := s.hashOrUnusable(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        model.NormalizeEmail(input.Email),
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// CreateSuperuser creates a user, then grants the staff and superuser flags.
func (s *userService) CreateSuperuser(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.Create(ctx, CreateUserInput{Email: email, Password: &password})
	if err != nil {
		return nil, err
	}

	user.IsStaff = true
	user.IsSuperuser = true
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("grant superuser: %w", err)
	}
	return user, nil
}

// Profile returns the user's own record, served from cache when possible.
func (s *userService) Profile(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// UpdateProfile applies a partial update atomically: either every submitted
// field is persisted or none is.
func (s *userService) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error) {
	var updated *model.User
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		user, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return err
		}
		if err := s.applyProfileUpdate(user, update); err != nil {
			return err
		}
		if err := repo.Update(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrEmailTaken
			}
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return updated, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return s.findUser(ctx, id)
}

// AdminUpdateUser applies a staff-tool update, including role flags.
func (s *userService) AdminUpdateUser(ctx context.Context, id uint, update AdminUpdate) (*model.User, error) {
	var updated *model.User
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		user, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return err
		}
		if err := s.applyProfileUpdate(user, update.ProfileUpdate); err != nil {
			return err
		}
		if update.IsActive != nil {
			user.IsActive = *update.IsActive
		}
		if update.IsStaff != nil {
			user.IsStaff = *update.IsStaff
		}
		if update.IsSuperuser != nil {
			user.IsSuperuser = *update.IsSuperuser
		}
		if err := repo.Update(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrEmailTaken
			}
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return updated, nil
}

// DeactivateUser clears is_active. The user's token binding stays in place
// but ResolveToken rejects inactive users, so it no longer authenticates.
func (s *userService) DeactivateUser(ctx context.Context, id uint) (*model.User, error) {
	active := false
	return s.AdminUpdateUser(ctx, id, AdminUpdate{IsActive: &active})
}

func (s *userService) findUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) applyProfileUpdate(user *model.User, update ProfileUpdate) error {
	if update.Email != nil {
		if *update.Email == "" {
			return apperrors.ErrEmailRequired
		}
		user.Email = model.NormalizeEmail(*update.Email)
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Password != nil {
		hash, err := auth.HashPassword(*update.Password, s.bcryptCost)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	return nil
}

func (s *userService) hashOrUnusable(password *string) (string, error) {
	if password == nil {
		return auth.UnusablePassword(), nil
	}
	return auth.HashPassword(*password, s.bcryptCost)
}
