package service

import (
	"context"
	"testing"
	"time"

	"github.com/yuqie6/DevWell/internal/ai"
	"github.com/yuqie6/DevWell/internal/schema"
)

func TestCommitPatterns(t *testing.T) {
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local) // 周二
	commits := &fakeCommitStore{commits: []schema.Commit{
		{RepositoryID: 1, Hash: "a", Author: "alice", Timestamp: time.Date(2026, 3, 9, 14, 0, 0, 0, time.Local).UnixMilli()},
		{RepositoryID: 1, Hash: "b", Author: "alice", Timestamp: time.Date(2026, 3, 9, 14, 30, 0, 0, time.Local).UnixMilli()},
		{RepositoryID: 1, Hash: "c", Author: "bob", Timestamp: time.Date(2026, 3, 8, 23, 0, 0, 0, time.Local).UnixMilli()},   // 周日深夜
		{RepositoryID: 2, Hash: "d", Author: "eve", Timestamp: time.Date(2026, 3, 9, 10, 0, 0, 0, time.Local).UnixMilli()},   // 其他仓库
	}}

	s := NewReportService(commits, &fakeJournalStore{}, 30)
	s.now = func() time.Time { return clock }

	report, err := s.CommitPatterns(context.Background(), 1)
	if err != nil {
		t.Fatalf("commit patterns failed: %v", err)
	}

	if report.TotalCommits != 3 {
		t.Errorf("total commits = %d, want 3 (other repos excluded)", report.TotalCommits)
	}
	if report.TotalAuthors != 2 {
		t.Errorf("total authors = %d, want 2", report.TotalAuthors)
	}
	if report.MostActiveHour != 14 {
		t.Errorf("most active hour = %d, want 14", report.MostActiveHour)
	}
	if report.MostActiveDay != "Monday" {
		t.Errorf("most active day = %s, want Monday", report.MostActiveDay)
	}
	if report.LateNightCommits != 1 {
		t.Errorf("late night commits = %d, want 1", report.LateNightCommits)
	}
	if report.WeekendCommits != 1 {
		t.Errorf("weekend commits = %d, want 1", report.WeekendCommits)
	}
}

func TestCommitPatternsEmpty(t *testing.T) {
	s := NewReportService(&fakeCommitStore{}, &fakeJournalStore{}, 30)

	report, err := s.CommitPatterns(context.Background(), 1)
	if err != nil {
		t.Fatalf("commit patterns failed: %v", err)
	}
	if report.MostActiveHour != -1 || report.MostActiveDay != "" {
		t.Errorf("empty repo should give hour -1 and no day, got %d/%q", report.MostActiveHour, report.MostActiveDay)
	}
}

func TestCodeChurnAggregatesByDay(t *testing.T) {
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	day1 := time.Date(2026, 3, 8, 10, 0, 0, 0, time.Local)
	day2 := time.Date(2026, 3, 9, 10, 0, 0, 0, time.Local)
	commits := &fakeCommitStore{commits: []schema.Commit{
		{RepositoryID: 1, Hash: "a", Timestamp: day1.UnixMilli(), LinesAdded: 10, LinesRemoved: 2},
		{RepositoryID: 1, Hash: "b", Timestamp: day1.Add(2 * time.Hour).UnixMilli(), LinesAdded: 5, LinesRemoved: 1},
		{RepositoryID: 1, Hash: "c", Timestamp: day2.UnixMilli(), LinesAdded: 7, LinesRemoved: 7},
	}}

	s := NewReportService(commits, &fakeJournalStore{}, 30)
	s.now = func() time.Time { return clock }

	points, err := s.CodeChurn(context.Background(), 1)
	if err != nil {
		t.Fatalf("code churn failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 churn points, got %d", len(points))
	}
	if points[0].Date != "2026-03-08" || points[1].Date != "2026-03-09" {
		t.Errorf("points should be date-ascending, got %s then %s", points[0].Date, points[1].Date)
	}
	if points[0].Commits != 2 || points[0].LinesAdded != 15 || points[0].LinesRemoved != 3 {
		t.Errorf("day1 aggregation wrong: %+v", points[0])
	}
}

func TestJournalInsights(t *testing.T) {
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	journals := &fakeJournalStore{entries: []schema.JournalEntry{
		{UserID: 1, SentimentScore: 0.8, SentimentLabel: ai.LabelPositive, CreatedAt: clock.AddDate(0, 0, -1)},
		{UserID: 1, SentimentScore: -0.6, SentimentLabel: ai.LabelNegative, CreatedAt: clock.AddDate(0, 0, -2)},
		{UserID: 1, SentimentScore: 0.1, SentimentLabel: ai.LabelNeutral, CreatedAt: clock.AddDate(0, 0, -3)},
	}}

	s := NewReportService(&fakeCommitStore{}, journals, 30)
	s.now = func() time.Time { return clock }

	insights, err := s.Insights(context.Background(), 1)
	if err != nil {
		t.Fatalf("insights failed: %v", err)
	}
	if insights.EntryCount != 3 {
		t.Errorf("entry count = %d, want 3", insights.EntryCount)
	}
	if insights.PositiveCount != 1 || insights.NegativeCount != 1 || insights.NeutralCount != 1 {
		t.Errorf("label distribution wrong: %+v", insights)
	}
	if insights.AvgSentiment < 0.09 || insights.AvgSentiment > 0.11 {
		t.Errorf("avg sentiment = %.3f, want 0.1", insights.AvgSentiment)
	}
}
