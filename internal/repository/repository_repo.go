package repository

import (
	"context"
	"fmt"

	"github.com/yuqie6/DevWell/internal/schema"
	"gorm.io/gorm"
)

// RepositoryRepository 仓库仓储
type RepositoryRepository struct {
	db *gorm.DB
}

// NewRepositoryRepository 创建仓储
func NewRepositoryRepository(db *gorm.DB) *RepositoryRepository {
	return &RepositoryRepository{db: db}
}

// Create 创建仓库
func (r *RepositoryRepository) Create(ctx context.Context, repo *schema.Repository) error {
	return r.db.WithContext(ctx).Create(repo).Error
}

// GetByID 按 ID 获取仓库
func (r *RepositoryRepository) GetByID(ctx context.Context, id int64) (*schema.Repository, error) {
	var repo schema.Repository
	err := r.db.WithContext(ctx).First(&repo, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("查询仓库失败: %w", err)
	}
	return &repo, nil
}

// ListByUser 获取用户的所有仓库
func (r *RepositoryRepository) ListByUser(ctx context.Context, userID int64) ([]schema.Repository, error) {
	var repos []schema.Repository
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&repos).Error
	if err != nil {
		return nil, fmt.Errorf("查询仓库失败: %w", err)
	}
	return repos, nil
}

// UpdateAnalysis 写回分析汇总字段
func (r *RepositoryRepository) UpdateAnalysis(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&schema.Repository{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("更新分析结果失败: %w", err)
	}
	return nil
}
