package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"userbase/internal/model"
)

// TokenRepository defines auth-token persistence operations.
type TokenRepository interface {
	// GetOrCreate returns the token bound to userID, creating one with newKey
	// if no binding exists yet. Exactly one binding survives a concurrent
	// first login; losers of the insert race get the winner's token.
	GetOrCreate(ctx context.Context, userID uint, newKey string) (*model.AuthToken, error)
	FindByKey(ctx context.Context, key string) (*model.AuthToken, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository builds a GORM-backed token repository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, userID uint, newKey string) (*model.AuthToken, error) {
	var token model.AuthToken

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&token).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		token = model.AuthToken{Key: newKey, UserID: userID}
		return tx.Create(&token).Error
	})

	// Lost the insert race: the unique user_id index rejected our row, so the
	// winner's token is now readable.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if ferr := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; ferr != nil {
			return nil, ferr
		}
		return &token, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) FindByKey(ctx context.Context, key string) (*model.AuthToken, error) {
	var token model.AuthToken
	if err := r.db.WithContext(ctx).Preload("User").Where("`key` = ?", key).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}
