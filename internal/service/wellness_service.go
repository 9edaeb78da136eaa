package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuqie6/DevWell/internal/eventbus"
	"github.com/yuqie6/DevWell/internal/repository"
	"github.com/yuqie6/DevWell/internal/schema"
)

// WellnessService 健康评估的编排层：
// 拉取回看窗口内的提交与日志，聚合特征，评估风险，落快照
type WellnessService struct {
	userRepo    UserStore
	repoRepo    RepositoryStore
	commitRepo  CommitStore
	journalRepo JournalStore
	snapRepo    SnapshotStore
	scanner     CommitScanner
	policy      RiskPolicy
	hub         *eventbus.Hub

	lookbackDays int
	now          func() time.Time
}

func NewWellnessService(
	userRepo UserStore,
	repoRepo RepositoryStore,
	commitRepo CommitStore,
	journalRepo JournalStore,
	snapRepo SnapshotStore,
	scanner CommitScanner,
	policy RiskPolicy,
	hub *eventbus.Hub,
	lookbackDays int,
) *WellnessService {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	return &WellnessService{
		userRepo:     userRepo,
		repoRepo:     repoRepo,
		commitRepo:   commitRepo,
		journalRepo:  journalRepo,
		snapRepo:     snapRepo,
		scanner:      scanner,
		policy:       policy,
		hub:          hub,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// AnalyzeUser 对用户做一次完整健康评估并落当日快照
// 同一天重复调用覆盖当日快照，不产生新行
func (s *WellnessService) AnalyzeUser(ctx context.Context, userID int64) (*schema.WellnessSnapshot, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("用户不存在: %d", userID)
	}

	now := s.now()
	startMs, endMs := repository.LookbackRange(now, s.lookbackDays)

	commits, err := s.commitRepo.GetByUserTimeRange(ctx, userID, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("读取提交失败: %w", err)
	}
	entries, err := s.journalRepo.GetByUserTimeRange(ctx, userID, time.UnixMilli(startMs), now)
	if err != nil {
		return nil, fmt.Errorf("读取日志失败: %w", err)
	}

	git := ComputeCommitFeatures(CommitSamplesFromSchema(commits), s.lookbackDays)
	journal := ComputeSentimentFeatures(JournalSamplesFromSchema(entries), now)
	assessment := s.policy.Assess(git, journal)

	factors := make(schema.JSONMap, len(assessment.Factors))
	for k, v := range assessment.Factors {
		factors[k] = v
	}

	snap := &schema.WellnessSnapshot{
		UserID:               userID,
		SnapshotDate:         now.Format("2006-01-02"),
		WeeklyHours:          git.WeeklyHours,
		AvgDailyCommits:      git.AvgDailyCommits,
		ScheduleRegularity:   git.ScheduleRegularity,
		CollaborationScore:   git.CollaborationScore,
		LateNightCommits:     git.LateNightCommits,
		WeekendCommitRatio:   git.WeekendCommitRatio,
		MaxCommitStreakHours: git.MaxCommitStreakHours,
		AvgSentiment:         journal.AvgSentiment,
		EntryCount:           journal.EntryCount,
		DaysSinceLastJournal: journal.DaysSinceLastJournal,
		WellnessScore:        1 - assessment.Score,
		BurnoutRisk:          assessment.Score,
		RiskLevel:            string(assessment.Level),
		Factors:              factors,
	}
	if err := s.snapRepo.Upsert(ctx, snap); err != nil {
		return nil, fmt.Errorf("保存快照失败: %w", err)
	}

	s.hub.Publish(eventbus.Event{Type: eventbus.TypeSnapshotSaved, Data: map[string]any{
		"user_id":      userID,
		"date":         snap.SnapshotDate,
		"burnout_risk": snap.BurnoutRisk,
		"risk_level":   snap.RiskLevel,
	}})

	slog.Info("健康评估完成", "user_id", userID, "date", snap.SnapshotDate,
		"risk", snap.BurnoutRisk, "level", snap.RiskLevel)
	return snap, nil
}

// Assess 只评估不落库，供即时查询
func (s *WellnessService) Assess(ctx context.Context, userID int64) (*RiskAssessment, error) {
	now := s.now()
	startMs, endMs := repository.LookbackRange(now, s.lookbackDays)

	commits, err := s.commitRepo.GetByUserTimeRange(ctx, userID, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("读取提交失败: %w", err)
	}
	entries, err := s.journalRepo.GetByUserTimeRange(ctx, userID, time.UnixMilli(startMs), now)
	if err != nil {
		return nil, fmt.Errorf("读取日志失败: %w", err)
	}

	git := ComputeCommitFeatures(CommitSamplesFromSchema(commits), s.lookbackDays)
	journal := ComputeSentimentFeatures(JournalSamplesFromSchema(entries), now)
	assessment := s.policy.Assess(git, journal)
	return &assessment, nil
}

// CommitFeatures 返回用户回看窗口内的提交特征，供平衡建议使用
func (s *WellnessService) CommitFeatures(ctx context.Context, userID int64) (CommitFeatureSet, error) {
	now := s.now()
	startMs, endMs := repository.LookbackRange(now, s.lookbackDays)
	commits, err := s.commitRepo.GetByUserTimeRange(ctx, userID, startMs, endMs)
	if err != nil {
		return CommitFeatureSet{}, fmt.Errorf("读取提交失败: %w", err)
	}
	return ComputeCommitFeatures(CommitSamplesFromSchema(commits), s.lookbackDays), nil
}

// RecommendContextFor 从最近日志与提交构建推荐上下文
func (s *WellnessService) RecommendContextFor(ctx context.Context, userID int64) RecommendContext {
	now := s.now()
	startMs, endMs := repository.LookbackRange(now, 7)

	var rc RecommendContext
	if entries, err := s.journalRepo.GetByUserTimeRange(ctx, userID, time.UnixMilli(startMs), now); err == nil {
		feats := ComputeSentimentFeatures(JournalSamplesFromSchema(entries), now)
		rc.AvgSentiment = feats.AvgSentiment
	}
	if commits, err := s.commitRepo.GetByUserTimeRange(ctx, userID, startMs, endMs); err == nil {
		// 最近一周日均 3 次提交即视为满活跃
		rc.RecentActivity = clamp(float64(len(commits))/21, 0, 1)
	}
	return rc
}

// SyncRepository 扫描仓库提交并增量入库，返回本次扫描到的提交数
func (s *WellnessService) SyncRepository(ctx context.Context, repositoryID int64) (int, error) {
	repo, err := s.repoRepo.GetByID(ctx, repositoryID)
	if err != nil {
		return 0, err
	}
	if repo == nil {
		return 0, fmt.Errorf("仓库不存在: %d", repositoryID)
	}

	now := s.now()
	since := now.AddDate(0, 0, -s.lookbackDays)

	records, err := s.scanner.Scan(ctx, repo.LocalPath, since, now)
	if err != nil {
		_ = s.repoRepo.UpdateAnalysis(ctx, repositoryID, map[string]any{"analysis_status": "failed"})
		return 0, fmt.Errorf("扫描仓库失败: %w", err)
	}

	commits := make([]schema.Commit, 0, len(records))
	authors := make(map[string]struct{})
	for _, r := range records {
		authors[r.Author] = struct{}{}
		commits = append(commits, schema.Commit{
			RepositoryID: repositoryID,
			Hash:         r.Hash,
			Author:       r.Author,
			Message:      r.Message,
			Timestamp:    r.Timestamp.UnixMilli(),
			LinesAdded:   r.LinesAdded,
			LinesRemoved: r.LinesRemoved,
		})
	}
	if err := s.commitRepo.BatchUpsert(ctx, commits); err != nil {
		_ = s.repoRepo.UpdateAnalysis(ctx, repositoryID, map[string]any{"analysis_status": "failed"})
		return 0, fmt.Errorf("写入提交失败: %w", err)
	}

	total, err := s.commitRepo.CountByRepository(ctx, repositoryID)
	if err != nil {
		return 0, err
	}

	updates := map[string]any{
		"last_analyzed_at": now.UnixMilli(),
		"analysis_status":  "completed",
		"total_commits":    int(total),
		"total_authors":    len(authors),
		"commit_frequency": float64(len(records)) / float64(s.lookbackDays),
	}
	if err := s.repoRepo.UpdateAnalysis(ctx, repositoryID, updates); err != nil {
		return 0, err
	}

	s.hub.Publish(eventbus.Event{Type: eventbus.TypeAnalysisDone, Data: map[string]any{
		"repository_id": repositoryID,
		"commits":       len(records),
	}})

	slog.Info("仓库同步完成", "repository_id", repositoryID, "scanned", len(records), "total", total)
	return len(records), nil
}
