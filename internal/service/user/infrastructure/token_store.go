package infrastructure

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"sneakerspot/internal/service/user/domain"
)

// GormRefreshTokenStore keeps sha256 hashes of refresh tokens; see the
// identity service for hashing.
type GormRefreshTokenStore struct {
	db *gorm.DB
}

func NewGormRefreshTokenStore(db *gorm.DB) *GormRefreshTokenStore {
	return &GormRefreshTokenStore{db: db}
}

func (s *GormRefreshTokenStore) Save(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	m := RefreshTokenModel{TokenHash: tokenHash, UserID: userID, ExpiresAt: expiresAt}
	return s.db.WithContext(ctx).Create(&m).Error
}

func (s *GormRefreshTokenStore) Find(ctx context.Context, tokenHash string) (int64, error) {
	var m RefreshTokenModel
	err := s.db.WithContext(ctx).
		First(&m, "token_hash = ? AND expires_at > ?", tokenHash, time.Now()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	return m.UserID, nil
}

func (s *GormRefreshTokenStore) Delete(ctx context.Context, tokenHash string) error {
	return s.db.WithContext(ctx).Delete(&RefreshTokenModel{}, "token_hash = ?", tokenHash).Error
}

func (s *GormRefreshTokenStore) DeleteForUser(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Delete(&RefreshTokenModel{}, "user_id = ?", userID).Error
}
