package repository

import (
	"context"
	"testing"

	"github.com/yuqie6/DevWell/internal/schema"
	"github.com/yuqie6/DevWell/internal/testutil"
)

func TestSnapshotUpsertOverwritesSameDay(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	first := &schema.WellnessSnapshot{
		UserID:       1,
		SnapshotDate: "2026-03-10",
		BurnoutRisk:  0.2,
		RiskLevel:    "low",
		Factors:      schema.JSONMap{"weekly_hours": 20.0},
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	second := &schema.WellnessSnapshot{
		UserID:       1,
		SnapshotDate: "2026-03-10",
		BurnoutRisk:  0.8,
		RiskLevel:    "high",
		Factors:      schema.JSONMap{"weekly_hours": 70.0},
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	var count int64
	db.Model(&schema.WellnessSnapshot{}).Count(&count)
	if count != 1 {
		t.Errorf("same-day upsert should keep one row, got %d", count)
	}

	got, err := repo.GetByUserDate(ctx, 1, "2026-03-10")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil || got.BurnoutRisk != 0.8 || got.RiskLevel != "high" {
		t.Errorf("upsert should overwrite values, got %+v", got)
	}
}

func TestSnapshotSeparateUsersAndDays(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	snaps := []*schema.WellnessSnapshot{
		{UserID: 1, SnapshotDate: "2026-03-09", BurnoutRisk: 0.1, RiskLevel: "low"},
		{UserID: 1, SnapshotDate: "2026-03-10", BurnoutRisk: 0.2, RiskLevel: "low"},
		{UserID: 2, SnapshotDate: "2026-03-10", BurnoutRisk: 0.9, RiskLevel: "high"},
	}
	for _, s := range snaps {
		if err := repo.Upsert(ctx, s); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	var count int64
	db.Model(&schema.WellnessSnapshot{}).Count(&count)
	if count != 3 {
		t.Errorf("distinct user/day pairs should all persist, got %d rows", count)
	}

	got, err := repo.GetByDateRange(ctx, 1, "2026-03-09", "2026-03-10")
	if err != nil {
		t.Fatalf("range query failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("user 1 range should return 2 snapshots, got %d", len(got))
	}
}
