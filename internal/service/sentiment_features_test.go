package service

import (
	"math"
	"testing"
	"time"
)

func TestComputeSentimentFeaturesEmpty(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.Local)
	got := ComputeSentimentFeatures(nil, now)

	if got.EntryCount != 0 || got.AvgSentiment != 0 {
		t.Errorf("empty journal should yield zero count and sentiment, got %+v", got)
	}
	if got.DaysSinceLastJournal != NeverJournaled {
		t.Errorf("days since last journal = %d, want sentinel %d", got.DaysSinceLastJournal, NeverJournaled)
	}
}

func TestComputeSentimentFeaturesAverage(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.Local)
	samples := []JournalSample{
		{Score: 0.8, CreatedAt: now.AddDate(0, 0, -5)},
		{Score: -0.4, CreatedAt: now.AddDate(0, 0, -3)},
		{Score: 0.2, CreatedAt: now.AddDate(0, 0, -2)},
	}

	got := ComputeSentimentFeatures(samples, now)
	if got.EntryCount != 3 {
		t.Errorf("entry count = %d, want 3", got.EntryCount)
	}
	if math.Abs(got.AvgSentiment-0.2) > 1e-9 {
		t.Errorf("avg sentiment = %.3f, want 0.2", got.AvgSentiment)
	}
	if got.DaysSinceLastJournal != 2 {
		t.Errorf("days since last journal = %d, want 2", got.DaysSinceLastJournal)
	}
}

func TestComputeSentimentFeaturesSameDay(t *testing.T) {
	now := time.Date(2026, 2, 1, 18, 0, 0, 0, time.Local)
	samples := []JournalSample{{Score: 0.5, CreatedAt: now.Add(-2 * time.Hour)}}

	got := ComputeSentimentFeatures(samples, now)
	if got.DaysSinceLastJournal != 0 {
		t.Errorf("same-day journal should give 0 days, got %d", got.DaysSinceLastJournal)
	}
}
