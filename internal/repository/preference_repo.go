package repository

import (
	"context"
	"fmt"

	"github.com/yuqie6/DevWell/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository 推荐偏好仓储
type PreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository 创建仓储
func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetByUserCategory 获取用户对某分类的偏好，不存在时返回 nil
func (r *PreferenceRepository) GetByUserCategory(ctx context.Context, userID int64, category string) (*schema.CategoryPreference, error) {
	var pref schema.CategoryPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category = ?", userID, category).
		First(&pref).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("查询偏好失败: %w", err)
	}
	return &pref, nil
}

// Upsert 插入或更新偏好
func (r *PreferenceRepository) Upsert(ctx context.Context, pref *schema.CategoryPreference) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}},
		UpdateAll: true,
	}).Create(pref).Error
}

// ListByUser 获取用户的所有分类偏好
func (r *PreferenceRepository) ListByUser(ctx context.Context, userID int64) ([]schema.CategoryPreference, error) {
	var prefs []schema.CategoryPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&prefs).Error
	if err != nil {
		return nil, fmt.Errorf("查询偏好失败: %w", err)
	}
	return prefs, nil
}
