package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/models"
)

func (r *GormRepo) CreateSession(ctx context.Context, s *models.Session) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) FindSessionByJTI(ctx context.Context, jti string) (*models.Session, error) {
	var s models.Session
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// RevokeSession flips an active session to revoked. Revoking an unknown or
// already revoked session reports gorm.ErrRecordNotFound.
func (r *GormRepo) RevokeSession(ctx context.Context, jti string) error {
	res := r.DB.WithContext(ctx).Model(&models.Session{}).
		Where("jti = ? AND revoked = ?", jti, false).
		Update("revoked", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteExpiredSessions(ctx context.Context, userID uint, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND (expires_at <= ? OR revoked = ?)", userID, now.Unix(), true).
		Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
