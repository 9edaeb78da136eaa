package repository

import (
	"context"
	"testing"

	"github.com/yuqie6/DevWell/internal/schema"
	"github.com/yuqie6/DevWell/internal/testutil"
)

func TestPreferenceUpsertSingleRowPerCategory(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewPreferenceRepository(db)
	ctx := context.Background()

	pref := &schema.CategoryPreference{UserID: 1, Category: "physical", Engagement: 0.5}
	if err := repo.Upsert(ctx, pref); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	pref2 := &schema.CategoryPreference{UserID: 1, Category: "physical", Engagement: 0.6}
	if err := repo.Upsert(ctx, pref2); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	var count int64
	db.Model(&schema.CategoryPreference{}).Count(&count)
	if count != 1 {
		t.Errorf("expected single row per (user, category), got %d", count)
	}

	got, err := repo.GetByUserCategory(ctx, 1, "physical")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil || got.Engagement != 0.6 {
		t.Errorf("upsert should update engagement, got %+v", got)
	}
}

func TestPreferenceNotFoundIsNil(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewPreferenceRepository(db)

	got, err := repo.GetByUserCategory(context.Background(), 1, "unknown")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Errorf("missing preference should be nil, got %+v", got)
	}
}

func TestFeedbackLastLog(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewFeedbackRepository(db)
	ctx := context.Background()

	logs := []*schema.RecommendationLog{
		{UserID: 1, Category: "physical", Text: "first", Score: 0.5},
		{UserID: 1, Category: "mental", Text: "other", Score: 0.6},
		{UserID: 1, Category: "physical", Text: "second", Score: 0.7},
	}
	for _, l := range logs {
		if err := repo.CreateLog(ctx, l); err != nil {
			t.Fatalf("create log failed: %v", err)
		}
	}

	got, err := repo.GetLastLog(ctx, 1, "physical")
	if err != nil {
		t.Fatalf("get last log failed: %v", err)
	}
	if got == nil || got.Text != "second" {
		t.Errorf("last physical log = %+v, want the second one", got)
	}
}
