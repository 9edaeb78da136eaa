package repository

import (
	"context"
	"testing"
	"time"

	"github.com/yuqie6/DevWell/internal/schema"
	"github.com/yuqie6/DevWell/internal/testutil"
)

func TestCommitBatchUpsertDeduplicates(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewCommitRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 9, 14, 0, 0, 0, time.Local).UnixMilli()
	batch := []schema.Commit{
		{RepositoryID: 1, Hash: "abc", Author: "alice", Timestamp: base},
		{RepositoryID: 1, Hash: "def", Author: "bob", Timestamp: base + 1000},
	}
	if err := repo.BatchUpsert(ctx, batch); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	// 重复扫描同一窗口，重复 hash 应被跳过
	again := []schema.Commit{
		{RepositoryID: 1, Hash: "abc", Author: "alice", Timestamp: base},
		{RepositoryID: 1, Hash: "xyz", Author: "carol", Timestamp: base + 2000},
	}
	if err := repo.BatchUpsert(ctx, again); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	count, err := repo.CountByRepository(ctx, 1)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 unique commits, got %d", count)
	}
}

func TestCommitSameHashDifferentRepos(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewCommitRepository(db)
	ctx := context.Background()

	ts := time.Now().UnixMilli()
	batch := []schema.Commit{
		{RepositoryID: 1, Hash: "abc", Author: "alice", Timestamp: ts},
		{RepositoryID: 2, Hash: "abc", Author: "alice", Timestamp: ts},
	}
	if err := repo.BatchUpsert(ctx, batch); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	var count int64
	db.Model(&schema.Commit{}).Count(&count)
	if count != 2 {
		t.Errorf("same hash in different repos should both persist, got %d", count)
	}
}

func TestCommitGetByUserTimeRange(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()

	repos := NewRepositoryRepository(db)
	if err := repos.Create(ctx, &schema.Repository{ID: 1, UserID: 1, Name: "a"}); err != nil {
		t.Fatalf("create repo failed: %v", err)
	}
	if err := repos.Create(ctx, &schema.Repository{ID: 2, UserID: 2, Name: "b"}); err != nil {
		t.Fatalf("create repo failed: %v", err)
	}

	commits := NewCommitRepository(db)
	now := time.Now()
	batch := []schema.Commit{
		{RepositoryID: 1, Hash: "a1", Author: "alice", Timestamp: now.Add(-time.Hour).UnixMilli()},
		{RepositoryID: 1, Hash: "a2", Author: "alice", Timestamp: now.Add(-48 * time.Hour).UnixMilli()},
		{RepositoryID: 2, Hash: "b1", Author: "bob", Timestamp: now.Add(-time.Hour).UnixMilli()},
	}
	if err := commits.BatchUpsert(ctx, batch); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	start := now.Add(-24 * time.Hour).UnixMilli()
	got, err := commits.GetByUserTimeRange(ctx, 1, start, now.UnixMilli())
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 1 || got[0].Hash != "a1" {
		t.Errorf("user 1 last-day commits = %+v, want only a1", got)
	}
}

func TestCommitBatchUpsertEmpty(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewCommitRepository(db)

	if err := repo.BatchUpsert(context.Background(), nil); err != nil {
		t.Errorf("empty batch should be a no-op, got %v", err)
	}
}
