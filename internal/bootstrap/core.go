package bootstrap

import (
	"github.com/yuqie6/DevWell/internal/ai"
	"github.com/yuqie6/DevWell/internal/eventbus"
	"github.com/yuqie6/DevWell/internal/gitscan"
	"github.com/yuqie6/DevWell/internal/pkg/config"
	"github.com/yuqie6/DevWell/internal/repository"
	"github.com/yuqie6/DevWell/internal/service"
)

// Core 持有跨二进制共享的核心依赖
type Core struct {
	Cfg *config.Config
	DB  *repository.Database
	Hub *eventbus.Hub

	Repos struct {
		User       *repository.UserRepository
		Repository *repository.RepositoryRepository
		Commit     *repository.CommitRepository
		Journal    *repository.JournalRepository
		Snapshot   *repository.SnapshotRepository
		Preference *repository.PreferenceRepository
		Feedback   *repository.FeedbackRepository
	}

	Services struct {
		Wellness    *service.WellnessService
		Recommender *service.Recommender
		Trainer     *service.Trainer
		Journal     *service.JournalService
		Reports     *service.ReportService
		Notify      *service.NotifyService
		Model       *service.ModelStore
	}

	Clients struct {
		DeepSeek *ai.DeepSeekClient
	}
}

// NewCore 构建核心依赖（不启动 HTTP 与巡检）
func NewCore(cfgPath string) (*Core, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	config.SetupLogger(cfg.App.LogLevel)

	db, err := repository.NewDatabase(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}

	c := &Core{Cfg: cfg, DB: db, Hub: eventbus.NewHub()}

	// Repos
	c.Repos.User = repository.NewUserRepository(db.DB)
	c.Repos.Repository = repository.NewRepositoryRepository(db.DB)
	c.Repos.Commit = repository.NewCommitRepository(db.DB)
	c.Repos.Journal = repository.NewJournalRepository(db.DB)
	c.Repos.Snapshot = repository.NewSnapshotRepository(db.DB)
	c.Repos.Preference = repository.NewPreferenceRepository(db.DB)
	c.Repos.Feedback = repository.NewFeedbackRepository(db.DB)

	// Clients
	c.Clients.DeepSeek = ai.NewDeepSeekClient(&ai.DeepSeekConfig{
		APIKey:  cfg.AI.DeepSeek.APIKey,
		BaseURL: cfg.AI.DeepSeek.BaseURL,
		Model:   cfg.AI.DeepSeek.Model,
	})

	// Services
	c.Services.Model = service.NewModelStore(cfg.Recommender.ModelPath, c.Hub)
	scanner := gitscan.NewScanner(cfg.Analysis.GitBinary)
	policy := service.PolicyFromConfig(cfg.Risk)

	c.Services.Wellness = service.NewWellnessService(
		c.Repos.User,
		c.Repos.Repository,
		c.Repos.Commit,
		c.Repos.Journal,
		c.Repos.Snapshot,
		scanner,
		policy,
		c.Hub,
		cfg.Analysis.LookbackDays,
	)
	c.Services.Recommender = service.NewRecommender(c.Repos.Preference, c.Repos.Feedback, c.Services.Model)
	c.Services.Trainer = service.NewTrainer(c.Repos.Feedback, c.Services.Model)
	c.Services.Journal = service.NewJournalService(c.Repos.Journal, ai.NewSentimentAnalyzer(c.Clients.DeepSeek))
	c.Services.Reports = service.NewReportService(c.Repos.Commit, c.Repos.Journal, cfg.Analysis.LookbackDays)
	c.Services.Notify = service.NewNotifyService(c.Repos.User, c.Services.Wellness, c.Services.Recommender, c.Hub)

	return c, nil
}

// Close 释放数据库等资源
func (c *Core) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
