package service

import (
	"time"

	"github.com/yuqie6/DevWell/internal/schema"
)

// NeverJournaled days_since_last_journal 的哨兵值，表示从未写过日志
// 调用方必须按"从未"处理，不能当作真实天数参与算术
const NeverJournaled = 999

// JournalSample 情感聚合的输入：单条日志的分数与时间
type JournalSample struct {
	Score     float64
	CreatedAt time.Time
}

// SentimentFeatureSet 回看窗口内的日志情感特征
type SentimentFeatureSet struct {
	AvgSentiment         float64 `json:"avg_sentiment"`           // [-1,1]
	EntryCount           int     `json:"entry_count"`
	DaysSinceLastJournal int     `json:"days_since_last_journal"` // NeverJournaled 表示从未
}

// JournalSamplesFromSchema 将库内日志转换为聚合输入
func JournalSamplesFromSchema(entries []schema.JournalEntry) []JournalSample {
	samples := make([]JournalSample, 0, len(entries))
	for _, e := range entries {
		samples = append(samples, JournalSample{
			Score:     e.SentimentScore,
			CreatedAt: e.CreatedAt,
		})
	}
	return samples
}

// ComputeSentimentFeatures 聚合日志情感特征
func ComputeSentimentFeatures(samples []JournalSample, now time.Time) SentimentFeatureSet {
	if len(samples) == 0 {
		return SentimentFeatureSet{DaysSinceLastJournal: NeverJournaled}
	}

	var sum float64
	latest := samples[0].CreatedAt
	for _, s := range samples {
		sum += s.Score
		if s.CreatedAt.After(latest) {
			latest = s.CreatedAt
		}
	}

	days := int(now.Sub(latest).Hours() / 24)
	if days < 0 {
		days = 0
	}

	return SentimentFeatureSet{
		AvgSentiment:         sum / float64(len(samples)),
		EntryCount:           len(samples),
		DaysSinceLastJournal: days,
	}
}
