package store

import (
	"context"
	"time"

	"github.com/vocabuilder/api/internal/model"
	"gorm.io/gorm"
)

type RefreshTokenStore struct {
	db *gorm.DB
}

func NewRefreshTokenStore(db *gorm.DB) *RefreshTokenStore {
	return &RefreshTokenStore{db: db}
}

func (s *RefreshTokenStore) Create(ctx context.Context, token *model.RefreshToken) error {
	return s.db.WithContext(ctx).Create(token).Error
}

// FindValid returns an unrevoked token that has not expired at now.
func (s *RefreshTokenStore) FindValid(ctx context.Context, token string, now time.Time) (*model.RefreshToken, error) {
	var rt model.RefreshToken
	err := s.db.WithContext(ctx).
		Where("token = ? AND revoked = ? AND expires_at > ?", token, false, now).
		First(&rt).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &rt, nil
}

func (s *RefreshTokenStore) Revoke(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Model(&model.RefreshToken{}).Where("token = ?", token).Update("revoked", true).Error
}

// PurgeExpired deletes tokens that expired or were revoked before now.
func (s *RefreshTokenStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ? OR revoked = ?", now, true).Delete(&model.RefreshToken{})
	return result.RowsAffected, result.Error
}
