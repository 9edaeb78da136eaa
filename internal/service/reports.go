package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yuqie6/DevWell/internal/ai"
	"github.com/yuqie6/DevWell/internal/repository"
)

// CommitPatternReport 提交时间分布报告
type CommitPatternReport struct {
	TotalCommits     int     `json:"total_commits"`
	TotalAuthors     int     `json:"total_authors"`
	MostActiveHour   int     `json:"most_active_hour"`   // 0-23，无提交时为 -1
	MostActiveDay    string  `json:"most_active_day"`    // 周几英文名，无提交时为空
	HourHistogram    [24]int `json:"hour_histogram"`
	WeekdayHistogram [7]int  `json:"weekday_histogram"` // 下标 0=Sunday
	LateNightCommits int     `json:"late_night_commits"`
	WeekendCommits   int     `json:"weekend_commits"`
}

// ChurnPoint 单日代码变动量
type ChurnPoint struct {
	Date         string `json:"date"` // YYYY-MM-DD
	Commits      int    `json:"commits"`
	LinesAdded   int    `json:"lines_added"`
	LinesRemoved int    `json:"lines_removed"`
}

// JournalInsights 日志情感汇总
type JournalInsights struct {
	EntryCount    int     `json:"entry_count"`
	AvgSentiment  float64 `json:"avg_sentiment"`
	PositiveCount int     `json:"positive_count"`
	NeutralCount  int     `json:"neutral_count"`
	NegativeCount int     `json:"negative_count"`
}

// ReportService 只读报表
type ReportService struct {
	commitRepo  CommitStore
	journalRepo JournalStore

	lookbackDays int
	now          func() time.Time
}

func NewReportService(commitRepo CommitStore, journalRepo JournalStore, lookbackDays int) *ReportService {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	return &ReportService{
		commitRepo:   commitRepo,
		journalRepo:  journalRepo,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// CommitPatterns 统计仓库回看窗口内的提交时间分布
func (s *ReportService) CommitPatterns(ctx context.Context, repositoryID int64) (*CommitPatternReport, error) {
	startMs, endMs := repository.LookbackRange(s.now(), s.lookbackDays)
	commits, err := s.commitRepo.GetByTimeRange(ctx, repositoryID, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("读取提交失败: %w", err)
	}

	report := &CommitPatternReport{MostActiveHour: -1}
	authors := make(map[string]struct{})
	for _, c := range commits {
		t := time.UnixMilli(c.Timestamp).Local()
		report.HourHistogram[t.Hour()]++
		report.WeekdayHistogram[int(t.Weekday())]++
		authors[c.Author] = struct{}{}
		if t.Hour() >= 22 || t.Hour() < 4 {
			report.LateNightCommits++
		}
		if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
			report.WeekendCommits++
		}
	}
	report.TotalCommits = len(commits)
	report.TotalAuthors = len(authors)

	if len(commits) > 0 {
		bestHour, bestDay := 0, 0
		for h, n := range report.HourHistogram {
			if n > report.HourHistogram[bestHour] {
				bestHour = h
			}
		}
		for d, n := range report.WeekdayHistogram {
			if n > report.WeekdayHistogram[bestDay] {
				bestDay = d
			}
		}
		report.MostActiveHour = bestHour
		report.MostActiveDay = time.Weekday(bestDay).String()
	}

	return report, nil
}

// CodeChurn 按天聚合仓库的代码变动量，按日期升序
func (s *ReportService) CodeChurn(ctx context.Context, repositoryID int64) ([]ChurnPoint, error) {
	startMs, endMs := repository.LookbackRange(s.now(), s.lookbackDays)
	commits, err := s.commitRepo.GetByTimeRange(ctx, repositoryID, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("读取提交失败: %w", err)
	}

	byDay := make(map[string]*ChurnPoint)
	for _, c := range commits {
		date := time.UnixMilli(c.Timestamp).Local().Format("2006-01-02")
		point, ok := byDay[date]
		if !ok {
			point = &ChurnPoint{Date: date}
			byDay[date] = point
		}
		point.Commits++
		point.LinesAdded += c.LinesAdded
		point.LinesRemoved += c.LinesRemoved
	}

	points := make([]ChurnPoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

// Insights 统计用户回看窗口内的日志情感分布
func (s *ReportService) Insights(ctx context.Context, userID int64) (*JournalInsights, error) {
	now := s.now()
	start := now.AddDate(0, 0, -s.lookbackDays)
	entries, err := s.journalRepo.GetByUserTimeRange(ctx, userID, start, now)
	if err != nil {
		return nil, fmt.Errorf("读取日志失败: %w", err)
	}

	insights := &JournalInsights{EntryCount: len(entries)}
	if len(entries) == 0 {
		return insights, nil
	}

	var sum float64
	for _, e := range entries {
		sum += e.SentimentScore
		switch e.SentimentLabel {
		case ai.LabelPositive:
			insights.PositiveCount++
		case ai.LabelNegative:
			insights.NegativeCount++
		default:
			insights.NeutralCount++
		}
	}
	insights.AvgSentiment = sum / float64(len(entries))
	return insights, nil
}
