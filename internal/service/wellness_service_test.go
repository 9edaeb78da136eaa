package service

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/yuqie6/DevWell/internal/gitscan"
	"github.com/yuqie6/DevWell/internal/schema"
)

type fakeUserStore struct {
	users map[int64]*schema.User
	marks map[int64][2]int64
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*schema.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) ListNotifiable(_ context.Context) ([]schema.User, error) {
	var out []schema.User
	for _, u := range f.users {
		if u.NotificationsEnabled {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) UpdateNotifyMarks(_ context.Context, id int64, tipAt, checkAt int64) error {
	if f.marks == nil {
		f.marks = make(map[int64][2]int64)
	}
	f.marks[id] = [2]int64{tipAt, checkAt}
	return nil
}

type fakeRepoStore struct {
	repos   map[int64]*schema.Repository
	updates map[int64]map[string]any
}

func (f *fakeRepoStore) GetByID(_ context.Context, id int64) (*schema.Repository, error) {
	return f.repos[id], nil
}

func (f *fakeRepoStore) ListByUser(_ context.Context, userID int64) ([]schema.Repository, error) {
	var out []schema.Repository
	for _, r := range f.repos {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepoStore) UpdateAnalysis(_ context.Context, id int64, updates map[string]any) error {
	if f.updates == nil {
		f.updates = make(map[int64]map[string]any)
	}
	f.updates[id] = updates
	return nil
}

type fakeCommitStore struct {
	commits []schema.Commit
}

func (f *fakeCommitStore) BatchUpsert(_ context.Context, commits []schema.Commit) error {
	f.commits = append(f.commits, commits...)
	return nil
}

func (f *fakeCommitStore) GetByTimeRange(_ context.Context, repoID, start, end int64) ([]schema.Commit, error) {
	var out []schema.Commit
	for _, c := range f.commits {
		if c.RepositoryID == repoID && c.Timestamp >= start && c.Timestamp <= end {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommitStore) GetByUserTimeRange(_ context.Context, _ int64, start, end int64) ([]schema.Commit, error) {
	var out []schema.Commit
	for _, c := range f.commits {
		if c.Timestamp >= start && c.Timestamp <= end {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommitStore) CountByRepository(_ context.Context, repoID int64) (int64, error) {
	var n int64
	for _, c := range f.commits {
		if c.RepositoryID == repoID {
			n++
		}
	}
	return n, nil
}

type fakeJournalStore struct {
	entries []schema.JournalEntry
}

func (f *fakeJournalStore) Create(_ context.Context, entry *schema.JournalEntry) error {
	entry.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeJournalStore) GetByUserTimeRange(_ context.Context, _ int64, start, end time.Time) ([]schema.JournalEntry, error) {
	var out []schema.JournalEntry
	for _, e := range f.entries {
		if !e.CreatedAt.Before(start) && !e.CreatedAt.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeSnapshotStore struct {
	byKey map[string]*schema.WellnessSnapshot
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{byKey: make(map[string]*schema.WellnessSnapshot)}
}

func (f *fakeSnapshotStore) key(userID int64, date string) string {
	return fmt.Sprintf("%d/%s", userID, date)
}

func (f *fakeSnapshotStore) Upsert(_ context.Context, snap *schema.WellnessSnapshot) error {
	f.byKey[f.key(snap.UserID, snap.SnapshotDate)] = snap
	return nil
}

func (f *fakeSnapshotStore) GetByUserDate(_ context.Context, userID int64, date string) (*schema.WellnessSnapshot, error) {
	return f.byKey[f.key(userID, date)], nil
}

func (f *fakeSnapshotStore) GetRecent(_ context.Context, _ int64, _ int) ([]schema.WellnessSnapshot, error) {
	var out []schema.WellnessSnapshot
	for _, s := range f.byKey {
		out = append(out, *s)
	}
	return out, nil
}

type fakeScanner struct {
	records []gitscan.CommitRecord
	err     error
}

func (f *fakeScanner) Scan(_ context.Context, _ string, _, _ time.Time) ([]gitscan.CommitRecord, error) {
	return f.records, f.err
}

func newTestWellness(clock time.Time, commits *fakeCommitStore, journals *fakeJournalStore, snaps *fakeSnapshotStore, scanner CommitScanner, repos *fakeRepoStore) *WellnessService {
	users := &fakeUserStore{users: map[int64]*schema.User{
		1: {ID: 1, Username: "alice", NotificationsEnabled: true},
	}}
	if repos == nil {
		repos = &fakeRepoStore{repos: map[int64]*schema.Repository{}}
	}
	s := NewWellnessService(users, repos, commits, journals, snaps, scanner, DefaultRiskPolicy(), nil, 30)
	s.now = func() time.Time { return clock }
	return s
}

func TestAnalyzeUserWritesSnapshot(t *testing.T) {
	clock := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	commits := &fakeCommitStore{}
	for i := 0; i < 30; i++ {
		ts := clock.AddDate(0, 0, -i)
		ts = time.Date(ts.Year(), ts.Month(), ts.Day(), 14, 0, 0, 0, time.Local)
		commits.commits = append(commits.commits, schema.Commit{
			RepositoryID: 1, Hash: fmt.Sprintf("h%02d", i), Author: "alice", Timestamp: ts.UnixMilli(),
		})
	}
	journals := &fakeJournalStore{entries: []schema.JournalEntry{
		{UserID: 1, SentimentScore: 0.5, CreatedAt: clock.AddDate(0, 0, -1)},
	}}
	snaps := newFakeSnapshotStore()

	s := newTestWellness(clock, commits, journals, snaps, &fakeScanner{}, nil)
	snap, err := s.AnalyzeUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if snap.SnapshotDate != "2026-03-10" {
		t.Errorf("snapshot date = %s, want 2026-03-10", snap.SnapshotDate)
	}
	if math.Abs(snap.WellnessScore-(1-snap.BurnoutRisk)) > 1e-9 {
		t.Errorf("wellness %.3f should equal 1 - risk %.3f", snap.WellnessScore, snap.BurnoutRisk)
	}
	if snap.RiskLevel != string(RiskLow) {
		t.Errorf("steady single-commit rhythm should be low risk, got %s (score %.3f)", snap.RiskLevel, snap.BurnoutRisk)
	}
	if len(snap.Factors) == 0 {
		t.Error("snapshot should carry the factor audit map")
	}

	stored, _ := snaps.GetByUserDate(context.Background(), 1, "2026-03-10")
	if stored == nil {
		t.Fatal("snapshot was not persisted")
	}

	// 同日二次评估覆盖而不是新增
	if _, err := s.AnalyzeUser(context.Background(), 1); err != nil {
		t.Fatalf("second analyze failed: %v", err)
	}
	all, _ := snaps.GetRecent(context.Background(), 1, 30)
	if len(all) != 1 {
		t.Errorf("same-day reanalysis should overwrite, found %d snapshots", len(all))
	}
}

func TestAnalyzeUserUnknownUser(t *testing.T) {
	s := newTestWellness(time.Now(), &fakeCommitStore{}, &fakeJournalStore{}, newFakeSnapshotStore(), &fakeScanner{}, nil)
	if _, err := s.AnalyzeUser(context.Background(), 99); err == nil {
		t.Error("unknown user should fail")
	}
}

func TestAnalyzeUserNoData(t *testing.T) {
	clock := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	s := newTestWellness(clock, &fakeCommitStore{}, &fakeJournalStore{}, newFakeSnapshotStore(), &fakeScanner{}, nil)

	snap, err := s.AnalyzeUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("analyze with no data failed: %v", err)
	}
	if snap.DaysSinceLastJournal != NeverJournaled {
		t.Errorf("no journal should give sentinel %d, got %d", NeverJournaled, snap.DaysSinceLastJournal)
	}
	if snap.WeeklyHours != 0 || snap.AvgDailyCommits != 0 {
		t.Errorf("no commits should give zero git features, got %+v", snap)
	}
}

func TestSyncRepository(t *testing.T) {
	clock := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	repos := &fakeRepoStore{repos: map[int64]*schema.Repository{
		1: {ID: 1, UserID: 1, Name: "devwell", LocalPath: "/tmp/devwell"},
	}}
	commits := &fakeCommitStore{}
	scanner := &fakeScanner{records: []gitscan.CommitRecord{
		{Hash: "abc", Author: "alice", Message: "init", Timestamp: clock.AddDate(0, 0, -2), LinesAdded: 10, LinesRemoved: 1},
		{Hash: "def", Author: "bob", Message: "fix", Timestamp: clock.AddDate(0, 0, -1), LinesAdded: 3, LinesRemoved: 2},
	}}

	s := newTestWellness(clock, commits, &fakeJournalStore{}, newFakeSnapshotStore(), scanner, repos)
	n, err := s.SyncRepository(context.Background(), 1)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if n != 2 {
		t.Errorf("scanned %d commits, want 2", n)
	}
	if len(commits.commits) != 2 {
		t.Errorf("persisted %d commits, want 2", len(commits.commits))
	}

	updates := repos.updates[1]
	if updates == nil {
		t.Fatal("repository analysis summary was not updated")
	}
	if updates["analysis_status"] != "completed" {
		t.Errorf("analysis status = %v, want completed", updates["analysis_status"])
	}
	if updates["total_authors"] != 2 {
		t.Errorf("total authors = %v, want 2", updates["total_authors"])
	}
}

func TestSyncRepositoryScanFailure(t *testing.T) {
	clock := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	repos := &fakeRepoStore{repos: map[int64]*schema.Repository{
		1: {ID: 1, UserID: 1, LocalPath: "/missing"},
	}}
	scanner := &fakeScanner{err: context.DeadlineExceeded}

	s := newTestWellness(clock, &fakeCommitStore{}, &fakeJournalStore{}, newFakeSnapshotStore(), scanner, repos)
	if _, err := s.SyncRepository(context.Background(), 1); err == nil {
		t.Fatal("scan failure should surface")
	}
	if repos.updates[1]["analysis_status"] != "failed" {
		t.Errorf("failed scan should mark repository failed, got %v", repos.updates[1])
	}
}
