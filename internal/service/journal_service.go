package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuqie6/DevWell/internal/schema"
)

// JournalService 开发日志：写入时即完成情感打分
type JournalService struct {
	journalRepo JournalStore
	scorer      SentimentScorer
}

func NewJournalService(journalRepo JournalStore, scorer SentimentScorer) *JournalService {
	return &JournalService{journalRepo: journalRepo, scorer: scorer}
}

// CreateEntry 写入一条日志并附带情感分
func (s *JournalService) CreateEntry(ctx context.Context, userID int64, title, content string) (*schema.JournalEntry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("日志内容不能为空")
	}

	result := s.scorer.Analyze(ctx, content)
	entry := &schema.JournalEntry{
		UserID:         userID,
		Title:          strings.TrimSpace(title),
		Content:        content,
		SentimentScore: result.Score,
		SentimentLabel: result.Label,
	}
	if err := s.journalRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("写入日志失败: %w", err)
	}
	return entry, nil
}
