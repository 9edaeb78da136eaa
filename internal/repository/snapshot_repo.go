package repository

import (
	"context"
	"fmt"

	"github.com/yuqie6/DevWell/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository 每日健康快照仓储
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository 创建仓储
func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Upsert 插入或更新（同一用户同一天只保留一行，重算覆盖）
func (r *SnapshotRepository) Upsert(ctx context.Context, snap *schema.WellnessSnapshot) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "snapshot_date"}},
		UpdateAll: true,
	}).Create(snap).Error
}

// GetByUserDate 按用户和日期获取快照
func (r *SnapshotRepository) GetByUserDate(ctx context.Context, userID int64, date string) (*schema.WellnessSnapshot, error) {
	var snap schema.WellnessSnapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND snapshot_date = ?", userID, date).
		First(&snap).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("查询快照失败: %w", err)
	}
	return &snap, nil
}

// GetRecent 获取用户最近的快照
func (r *SnapshotRepository) GetRecent(ctx context.Context, userID int64, days int) ([]schema.WellnessSnapshot, error) {
	var snaps []schema.WellnessSnapshot
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("snapshot_date DESC")
	if days > 0 {
		query = query.Limit(days)
	}
	if err := query.Find(&snaps).Error; err != nil {
		return nil, fmt.Errorf("查询快照失败: %w", err)
	}
	return snaps, nil
}

// GetByDateRange 获取日期范围内的快照
func (r *SnapshotRepository) GetByDateRange(ctx context.Context, userID int64, startDate, endDate string) ([]schema.WellnessSnapshot, error) {
	var snaps []schema.WellnessSnapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND snapshot_date >= ? AND snapshot_date <= ?", userID, startDate, endDate).
		Order("snapshot_date DESC").
		Find(&snaps).Error
	if err != nil {
		return nil, fmt.Errorf("查询日期范围快照失败: %w", err)
	}
	return snaps, nil
}
