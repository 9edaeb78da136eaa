package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yuqie6/DevWell/internal/schema"
	"gorm.io/gorm"
)

// JournalRepository 日志仓储
type JournalRepository struct {
	db *gorm.DB
}

// NewJournalRepository 创建仓储
func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Create 创建日志条目
func (r *JournalRepository) Create(ctx context.Context, entry *schema.JournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByID 按 ID 获取日志条目
func (r *JournalRepository) GetByID(ctx context.Context, id int64) (*schema.JournalEntry, error) {
	var entry schema.JournalEntry
	err := r.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("查询日志失败: %w", err)
	}
	return &entry, nil
}

// ListRecent 获取用户最近的日志条目
func (r *JournalRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]schema.JournalEntry, error) {
	var entries []schema.JournalEntry
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("查询日志失败: %w", err)
	}
	return entries, nil
}

// GetByUserTimeRange 按时间范围查询用户日志
func (r *JournalRepository) GetByUserTimeRange(ctx context.Context, userID int64, start, end time.Time) ([]schema.JournalEntry, error) {
	var entries []schema.JournalEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, start, end).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("查询日志失败: %w", err)
	}
	return entries, nil
}

// CountByUser 统计用户日志条数
func (r *JournalRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&schema.JournalEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计日志失败: %w", err)
	}
	return count, nil
}
