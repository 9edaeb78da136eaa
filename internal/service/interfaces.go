package service

import (
	"context"
	"time"

	"github.com/yuqie6/DevWell/internal/ai"
	"github.com/yuqie6/DevWell/internal/gitscan"
	"github.com/yuqie6/DevWell/internal/schema"
)

// 服务层按最小接口依赖存储，便于测试替换

// UserStore 用户读写
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*schema.User, error)
	ListNotifiable(ctx context.Context) ([]schema.User, error)
	UpdateNotifyMarks(ctx context.Context, id int64, lastDailyTipAt, lastBurnoutCheckAt int64) error
}

// RepositoryStore 仓库读写
type RepositoryStore interface {
	GetByID(ctx context.Context, id int64) (*schema.Repository, error)
	ListByUser(ctx context.Context, userID int64) ([]schema.Repository, error)
	UpdateAnalysis(ctx context.Context, id int64, updates map[string]any) error
}

// CommitStore 提交读写
type CommitStore interface {
	BatchUpsert(ctx context.Context, commits []schema.Commit) error
	GetByTimeRange(ctx context.Context, repositoryID int64, startTime, endTime int64) ([]schema.Commit, error)
	GetByUserTimeRange(ctx context.Context, userID int64, startTime, endTime int64) ([]schema.Commit, error)
	CountByRepository(ctx context.Context, repositoryID int64) (int64, error)
}

// JournalStore 日志读写
type JournalStore interface {
	Create(ctx context.Context, entry *schema.JournalEntry) error
	GetByUserTimeRange(ctx context.Context, userID int64, start, end time.Time) ([]schema.JournalEntry, error)
}

// SnapshotStore 快照读写
type SnapshotStore interface {
	Upsert(ctx context.Context, snap *schema.WellnessSnapshot) error
	GetByUserDate(ctx context.Context, userID int64, date string) (*schema.WellnessSnapshot, error)
	GetRecent(ctx context.Context, userID int64, days int) ([]schema.WellnessSnapshot, error)
}

// PreferenceStore 分类偏好读写
type PreferenceStore interface {
	GetByUserCategory(ctx context.Context, userID int64, category string) (*schema.CategoryPreference, error)
	Upsert(ctx context.Context, pref *schema.CategoryPreference) error
}

// FeedbackStore 推荐展示与反馈读写
type FeedbackStore interface {
	CreateLog(ctx context.Context, log *schema.RecommendationLog) error
	GetLastLog(ctx context.Context, userID int64, category string) (*schema.RecommendationLog, error)
	CreateFeedback(ctx context.Context, fb *schema.FeedbackEntry) error
	ListFeedback(ctx context.Context, userID int64) ([]schema.FeedbackEntry, error)
}

// Predictor 参与度分类器能力
type Predictor interface {
	Ready() bool
	PredictProba(features []float64) (float64, error)
}

// SentimentScorer 文本情感打分能力
type SentimentScorer interface {
	Analyze(ctx context.Context, text string) ai.SentimentResult
}

// CommitScanner 仓库提交扫描能力
type CommitScanner interface {
	Scan(ctx context.Context, repoPath string, since, until time.Time) ([]gitscan.CommitRecord, error)
}
