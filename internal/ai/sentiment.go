package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// 情感标签
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// SentimentResult 情感分析结果
type SentimentResult struct {
	Score        float64  `json:"score"`         // [-1,1] 综合分
	Label        string   `json:"label"`         // positive, negative, neutral
	LexiconScore float64  `json:"lexicon_score"` // 词典分（降级基线）
	ModelScore   *float64 `json:"model_score"`   // LLM 分，失败时为 nil
}

// SentimentAnalyzer 日志情感分析器
// LLM 可用时取词典分与模型分的均值，失败时降级为纯词典分，永不报错
type SentimentAnalyzer struct {
	client *DeepSeekClient
}

// NewSentimentAnalyzer 创建分析器，client 可以为 nil（纯词典模式）
func NewSentimentAnalyzer(client *DeepSeekClient) *SentimentAnalyzer {
	return &SentimentAnalyzer{client: client}
}

// Analyze 分析文本情感
func (a *SentimentAnalyzer) Analyze(ctx context.Context, text string) SentimentResult {
	lexicon := LexiconScore(text)
	result := SentimentResult{
		Score:        lexicon,
		Label:        LabelFor(lexicon),
		LexiconScore: lexicon,
	}

	if a == nil || !a.client.IsConfigured() {
		return result
	}

	modelScore, err := a.modelScore(ctx, text)
	if err != nil {
		slog.Warn("LLM 情感分析失败，降级为词典分", "error", err)
		return result
	}

	combined := clampScore((lexicon + modelScore) / 2)
	result.Score = combined
	result.Label = LabelFor(combined)
	result.ModelScore = &modelScore
	return result
}

// modelScore 调用 LLM 打分
func (a *SentimentAnalyzer) modelScore(ctx context.Context, text string) (float64, error) {
	// 限制输入长度
	if len(text) > 2000 {
		text = text[:2000]
	}

	prompt := fmt.Sprintf(`评估以下开发者日志的情感倾向，返回 -1（非常消极）到 1（非常积极）之间的分数。

日志内容:
%s

请用 JSON 格式返回（不要 markdown 代码块）:
{"score": 0.3}`, text)

	messages := []Message{
		{Role: "system", Content: "你是一个情感分析助手。回复必须是纯 JSON，不要 markdown。"},
		{Role: "user", Content: prompt},
	}

	response, err := a.client.ChatWithOptions(ctx, messages, 0.1, 50)
	if err != nil {
		return 0, err
	}

	response = cleanJSONResponse(response)

	var parsed struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return 0, fmt.Errorf("解析情感分数失败: %w", err)
	}

	return clampScore(parsed.Score), nil
}

// LabelFor 将分数映射为标签，阈值 ±0.2
func LabelFor(score float64) string {
	switch {
	case score > 0.2:
		return LabelPositive
	case score < -0.2:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// positiveWords / negativeWords 极性词典（降级路径，覆盖开发日志里的常见表达）
var positiveWords = map[string]float64{
	"good": 0.7, "great": 0.8, "happy": 0.8, "excited": 0.7, "productive": 0.7,
	"done": 0.4, "finished": 0.5, "shipped": 0.6, "solved": 0.7, "fixed": 0.5,
	"love": 0.8, "enjoy": 0.7, "progress": 0.5, "learned": 0.5, "clean": 0.4,
	"fast": 0.3, "works": 0.4, "success": 0.7, "better": 0.4, "proud": 0.7,
	"fun": 0.6, "relaxed": 0.6, "rest": 0.3, "calm": 0.5,
}

var negativeWords = map[string]float64{
	"bad": -0.7, "tired": -0.6, "exhausted": -0.9, "stress": -0.7, "stressed": -0.8,
	"stuck": -0.6, "broken": -0.6, "bug": -0.3, "bugs": -0.4, "failed": -0.7,
	"failure": -0.7, "hate": -0.8, "angry": -0.8, "frustrated": -0.8, "anxious": -0.7,
	"overwhelmed": -0.9, "deadline": -0.3, "slow": -0.3, "blocked": -0.5,
	"burnout": -0.9, "burned": -0.6, "worried": -0.6, "sad": -0.7, "pain": -0.6,
	"crash": -0.5, "crashed": -0.5, "issues": -0.3, "problem": -0.3, "problems": -0.4,
}

// LexiconScore 词典打分：匹配词极性的均值，无匹配时返回 0
func LexiconScore(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var sum float64
	var matched int
	for _, tok := range tokens {
		if w, ok := positiveWords[tok]; ok {
			sum += w
			matched++
		} else if w, ok := negativeWords[tok]; ok {
			sum += w
			matched++
		}
	}

	if matched == 0 {
		return 0
	}
	return clampScore(sum / float64(matched))
}

// clampScore 限制到 [-1,1]
func clampScore(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
