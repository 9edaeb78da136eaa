package repository

import (
	"context"
	"fmt"

	"github.com/yuqie6/DevWell/internal/schema"
	"gorm.io/gorm"
)

// FeedbackRepository 推荐记录与反馈仓储
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository 创建仓储
func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// CreateLog 记录一次已展示的推荐
func (r *FeedbackRepository) CreateLog(ctx context.Context, log *schema.RecommendationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// GetLastLog 获取用户某分类最近一次展示的推荐
func (r *FeedbackRepository) GetLastLog(ctx context.Context, userID int64, category string) (*schema.RecommendationLog, error) {
	var log schema.RecommendationLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category = ?", userID, category).
		Order("id DESC").
		First(&log).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("查询推荐记录失败: %w", err)
	}
	return &log, nil
}

// CreateFeedback 记录反馈（训练样本）
func (r *FeedbackRepository) CreateFeedback(ctx context.Context, fb *schema.FeedbackEntry) error {
	return r.db.WithContext(ctx).Create(fb).Error
}

// ListFeedback 获取用户的全部反馈，按写入顺序
func (r *FeedbackRepository) ListFeedback(ctx context.Context, userID int64) ([]schema.FeedbackEntry, error) {
	var entries []schema.FeedbackEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("查询反馈失败: %w", err)
	}
	return entries, nil
}

// CountFeedback 统计用户反馈条数
func (r *FeedbackRepository) CountFeedback(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&schema.FeedbackEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计反馈失败: %w", err)
	}
	return count, nil
}
