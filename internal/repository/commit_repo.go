package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuqie6/DevWell/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommitRepository 提交记录仓储
type CommitRepository struct {
	db *gorm.DB
}

// NewCommitRepository 创建仓储
func NewCommitRepository(db *gorm.DB) *CommitRepository {
	return &CommitRepository{db: db}
}

// BatchUpsert 批量写入提交（按 (repository_id, hash) 去重，重复同步不产生副本）
func (r *CommitRepository) BatchUpsert(ctx context.Context, commits []schema.Commit) error {
	if len(commits) == 0 {
		return nil
	}

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "repository_id"}, {Name: "hash"}},
			DoNothing: true,
		}).CreateInBatches(commits, 100).Error
	})

	if err != nil {
		slog.Error("批量写入提交失败", "count", len(commits), "error", err)
		return fmt.Errorf("批量写入提交失败: %w", err)
	}

	slog.Debug("批量写入提交成功", "count", len(commits), "duration", time.Since(start))
	return nil
}

// GetByTimeRange 按时间范围查询某仓库的提交
func (r *CommitRepository) GetByTimeRange(ctx context.Context, repositoryID int64, startTime, endTime int64) ([]schema.Commit, error) {
	var commits []schema.Commit
	err := r.db.WithContext(ctx).
		Where("repository_id = ? AND timestamp >= ? AND timestamp <= ?", repositoryID, startTime, endTime).
		Order("timestamp ASC").
		Find(&commits).Error

	if err != nil {
		return nil, fmt.Errorf("查询提交失败: %w", err)
	}

	return commits, nil
}

// GetByUserTimeRange 按时间范围查询用户名下所有仓库的提交
func (r *CommitRepository) GetByUserTimeRange(ctx context.Context, userID int64, startTime, endTime int64) ([]schema.Commit, error) {
	var commits []schema.Commit
	err := r.db.WithContext(ctx).
		Joins("JOIN repositories ON repositories.id = commits.repository_id").
		Where("repositories.user_id = ? AND commits.timestamp >= ? AND commits.timestamp <= ?", userID, startTime, endTime).
		Order("commits.timestamp ASC").
		Find(&commits).Error

	if err != nil {
		return nil, fmt.Errorf("查询提交失败: %w", err)
	}

	return commits, nil
}

// CountByRepository 统计某仓库的提交数
func (r *CommitRepository) CountByRepository(ctx context.Context, repositoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&schema.Commit{}).
		Where("repository_id = ?", repositoryID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计提交失败: %w", err)
	}
	return count, nil
}
