package service

import (
	"context"
	"testing"

	"github.com/yuqie6/DevWell/internal/ai"
)

type fixedScorer struct {
	result ai.SentimentResult
}

func (f fixedScorer) Analyze(_ context.Context, _ string) ai.SentimentResult {
	return f.result
}

func TestCreateEntryAttachesSentiment(t *testing.T) {
	store := &fakeJournalStore{}
	svc := NewJournalService(store, fixedScorer{result: ai.SentimentResult{Score: 0.6, Label: ai.LabelPositive}})

	entry, err := svc.CreateEntry(context.Background(), 1, "  standup  ", "Shipped the feature, feeling great")
	if err != nil {
		t.Fatalf("create entry failed: %v", err)
	}
	if entry.SentimentScore != 0.6 || entry.SentimentLabel != ai.LabelPositive {
		t.Errorf("entry sentiment = %.2f/%s, want 0.6/positive", entry.SentimentScore, entry.SentimentLabel)
	}
	if entry.Title != "standup" {
		t.Errorf("title should be trimmed, got %q", entry.Title)
	}
	if len(store.entries) != 1 {
		t.Errorf("expected 1 persisted entry, got %d", len(store.entries))
	}
}

func TestCreateEntryRejectsEmptyContent(t *testing.T) {
	svc := NewJournalService(&fakeJournalStore{}, fixedScorer{})
	if _, err := svc.CreateEntry(context.Background(), 1, "t", "   "); err == nil {
		t.Error("blank content should fail")
	}
}
