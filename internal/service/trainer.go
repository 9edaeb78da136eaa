package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yuqie6/DevWell/internal/ml"
)

// MinTrainingSamples 低于该样本数不训练，避免过拟合噪声
const MinTrainingSamples = 20

// Trainer 用累计反馈训练参与度分类器
type Trainer struct {
	fbRepo FeedbackStore
	store  *ModelStore
}

func NewTrainer(fbRepo FeedbackStore, store *ModelStore) *Trainer {
	return &Trainer{fbRepo: fbRepo, store: store}
}

// Train 全量反馈 → 随机森林 → 替换当前模型
// 返回参与训练的样本数
func (t *Trainer) Train(ctx context.Context, userID int64) (int, error) {
	entries, err := t.fbRepo.ListFeedback(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("读取反馈失败: %w", err)
	}
	if len(entries) < MinTrainingSamples {
		return 0, fmt.Errorf("反馈样本不足: %d < %d", len(entries), MinTrainingSamples)
	}

	samples := make([]ml.Sample, 0, len(entries))
	for _, e := range entries {
		label := 0
		if e.Accepted {
			label = 1
		}
		samples = append(samples, ml.Sample{
			Features: []float64{e.HourNorm, e.WeekdayNorm, e.SentimentScaled, e.RecentActivity, e.CategoryEngagement},
			Label:    label,
		})
	}

	forest, err := ml.Train(samples, ml.DefaultForestConfig())
	if err != nil {
		return 0, fmt.Errorf("训练失败: %w", err)
	}
	if err := t.store.Replace(forest); err != nil {
		return 0, fmt.Errorf("保存模型失败: %w", err)
	}

	slog.Info("参与度模型训练完成", "samples", len(samples), "trees", len(forest.Trees))
	return len(samples), nil
}
