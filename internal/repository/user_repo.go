package repository

import (
	"context"
	"fmt"

	"github.com/yuqie6/DevWell/internal/schema"
	"gorm.io/gorm"
)

// UserRepository 用户仓储
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建仓储
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *schema.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 按 ID 获取用户
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*schema.User, error) {
	var user schema.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &user, nil
}

// GetByUsername 按用户名获取用户
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*schema.User, error) {
	var user schema.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &user, nil
}

// ListNotifiable 获取开启通知且有邮箱的用户
func (r *UserRepository) ListNotifiable(ctx context.Context) ([]schema.User, error) {
	var users []schema.User
	err := r.db.WithContext(ctx).
		Where("notifications_enabled = ? AND email <> ''", true).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return users, nil
}

// UpdateNotifyMarks 更新通知时间标记（零值字段跳过）
func (r *UserRepository) UpdateNotifyMarks(ctx context.Context, id int64, lastDailyTipAt, lastBurnoutCheckAt int64) error {
	updates := map[string]any{}
	if lastDailyTipAt > 0 {
		updates["last_daily_tip_at"] = lastDailyTipAt
	}
	if lastBurnoutCheckAt > 0 {
		updates["last_burnout_check_at"] = lastBurnoutCheckAt
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&schema.User{}).Where("id = ?", id).Updates(updates).Error
}
