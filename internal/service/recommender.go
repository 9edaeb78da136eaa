package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/yuqie6/DevWell/internal/schema"
)

// 推荐分类，顺序即 DailyTips 的遍历顺序
const (
	CategoryPhysical     = "physical"
	CategoryMental       = "mental"
	CategoryProductivity = "productivity"
	CategorySocial       = "social"
)

var categoryOrder = []string{CategoryPhysical, CategoryMental, CategoryProductivity, CategorySocial}

// tipTemplate 推荐模板
type tipTemplate struct {
	Text      string
	BaseScore float64
}

// tipCatalog 固定模板目录，目录内顺序决定同分时的胜者
var tipCatalog = map[string][]tipTemplate{
	CategoryPhysical: {
		{Text: "Take a 5-minute stretch break", BaseScore: 0.8},
		{Text: "Try the 20-20-20 rule: every 20 minutes, look at something 20 feet away for 20 seconds", BaseScore: 0.7},
		{Text: "Do some quick desk exercises or take a short walk", BaseScore: 0.7},
		{Text: "Check your posture and adjust your chair and desk setup", BaseScore: 0.5},
		{Text: "Hydrate! Have a glass of water", BaseScore: 0.6},
	},
	CategoryMental: {
		{Text: "Practice deep breathing for 1 minute", BaseScore: 0.7},
		{Text: "Try a quick meditation or mindfulness exercise", BaseScore: 0.6},
		{Text: "Take a short break in the evening to clear your mind and wind down", BaseScore: 0.6},
		{Text: "Write down three things you're grateful for", BaseScore: 0.5},
		{Text: "Listen to calming music for a few minutes", BaseScore: 0.5},
	},
	CategoryProductivity: {
		{Text: "Start your morning with a short planning session", BaseScore: 0.8},
		{Text: "Try the Pomodoro technique: 25 minutes work, 5 minutes break", BaseScore: 0.7},
		{Text: "Review and organize your to-do list", BaseScore: 0.6},
		{Text: "Eliminate distractions for focused work", BaseScore: 0.6},
		{Text: "Break down a large task into smaller, manageable chunks", BaseScore: 0.6},
	},
	CategorySocial: {
		{Text: "Reach out to a colleague for a quick chat", BaseScore: 0.7},
		{Text: "Schedule a virtual coffee break with a teammate", BaseScore: 0.6},
		{Text: "Share something you learned with your team", BaseScore: 0.6},
		{Text: "Plan something fun for the weekend away from the screen", BaseScore: 0.5},
		{Text: "Ask for help or input on a challenge you're facing", BaseScore: 0.5},
	},
}

// RecommendContext 推荐排序的用户上下文
type RecommendContext struct {
	AvgSentiment   float64 // [-1,1] 最近日志平均情感
	RecentActivity float64 // [0,1] 最近活跃度
}

// RankedRecommendation 排序结果
type RankedRecommendation struct {
	Text     string  `json:"text"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// DailyTip 每日建议
type DailyTip struct {
	Text     string   `json:"text"`
	Category string   `json:"category"`
	Priority Priority `json:"priority"`
}

// Recommender 建议排序器
// 规则打分为主，参与度分类器可选（fail-open：预测失败不影响规则分）
type Recommender struct {
	prefRepo PreferenceStore
	fbRepo   FeedbackStore
	model    Predictor

	// 可注入时钟，测试用
	now func() time.Time
}

// NewRecommender 创建排序器，model 可以为 nil
func NewRecommender(prefRepo PreferenceStore, fbRepo FeedbackStore, model Predictor) *Recommender {
	return &Recommender{
		prefRepo: prefRepo,
		fbRepo:   fbRepo,
		model:    model,
		now:      time.Now,
	}
}

// Recommend 对指定分类排序并返回最高分模板
// 同分时目录顺序靠前者胜出（稳定选择）
func (r *Recommender) Recommend(ctx context.Context, userID int64, category string, rc RecommendContext) (*RankedRecommendation, error) {
	templates, ok := tipCatalog[category]
	if !ok {
		return nil, fmt.Errorf("未知推荐分类: %s", category)
	}

	now := r.now()
	engagement := r.engagementFor(ctx, userID, category)
	features := featureVector(now, rc, engagement)

	var best *RankedRecommendation
	for _, tpl := range templates {
		score := r.scoreTemplate(tpl, now, features)
		if best == nil || score > best.Score {
			best = &RankedRecommendation{Text: tpl.Text, Category: category, Score: score}
		}
	}

	// 记录展示上下文，供后续反馈训练
	log := &schema.RecommendationLog{
		UserID:   userID,
		Category: category,
		Text:     best.Text,
		Score:    best.Score,
		Context: schema.JSONMap{
			"hour_norm":           features[0],
			"weekday_norm":        features[1],
			"sentiment_scaled":    features[2],
			"recent_activity":     features[3],
			"category_engagement": features[4],
		},
	}
	if err := r.fbRepo.CreateLog(ctx, log); err != nil {
		slog.Warn("记录推荐展示失败", "category", category, "error", err)
	}

	return best, nil
}

// scoreTemplate 单模板打分：基础分 × 时段加成 × 周末加成 × 分类器调整
func (r *Recommender) scoreTemplate(tpl tipTemplate, now time.Time, features []float64) float64 {
	score := tpl.BaseScore

	tod := classifyTimeOfDay(tpl.Text)
	if tod != todAny && todMatches(tod, now.Hour()) {
		score *= 1.3
	}

	if strings.Contains(strings.ToLower(tpl.Text), "weekend") && isWeekend(now) {
		score *= 1.2
	}

	// 分类器调整：0.5×–1.5×，失败时保持规则分
	if r.model != nil && r.model.Ready() {
		if p, err := r.model.PredictProba(features); err == nil {
			score *= 0.5 + p
		} else {
			slog.Debug("分类器预测失败，保持规则分", "error", err)
		}
	}

	return score
}

// DailyTips 每日建议：每个分类取最高分模板，按分数降序
func (r *Recommender) DailyTips(ctx context.Context, userID int64, rc RecommendContext) ([]DailyTip, error) {
	ranked := make([]RankedRecommendation, 0, len(categoryOrder))
	for _, category := range categoryOrder {
		rec, err := r.Recommend(ctx, userID, category, rc)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, *rec)
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	tips := make([]DailyTip, 0, len(ranked))
	for i, rec := range ranked {
		priority := PriorityLow
		switch i {
		case 0:
			priority = PriorityHigh
		case 1:
			priority = PriorityMedium
		}
		tips = append(tips, DailyTip{Text: rec.Text, Category: rec.Category, Priority: priority})
	}

	return tips, nil
}

// RecordFeedback 记录反馈并更新分类参与度偏好
// 接受时偏好上调 0.1×engagement（上限 1.0）；拒绝不下调——避免单次拒绝
// 永久压制某类建议，属产品层待确认的非对称设计
func (r *Recommender) RecordFeedback(ctx context.Context, userID int64, category string, accepted bool, engagement float64) error {
	if _, ok := tipCatalog[category]; !ok {
		return fmt.Errorf("未知推荐分类: %s", category)
	}
	engagement = clamp(engagement, 0, 1)

	// 还原展示时刻的特征向量；无展示记录时用当前上下文兜底
	features := featureVector(r.now(), RecommendContext{}, r.engagementFor(ctx, userID, category))
	if last, err := r.fbRepo.GetLastLog(ctx, userID, category); err == nil && last != nil {
		features = []float64{
			schema.GetFloat(last.Context, "hour_norm"),
			schema.GetFloat(last.Context, "weekday_norm"),
			schema.GetFloat(last.Context, "sentiment_scaled"),
			schema.GetFloat(last.Context, "recent_activity"),
			schema.GetFloat(last.Context, "category_engagement"),
		}
	}

	fb := &schema.FeedbackEntry{
		UserID:             userID,
		Category:           category,
		Accepted:           accepted,
		Engagement:         engagement,
		HourNorm:           features[0],
		WeekdayNorm:        features[1],
		SentimentScaled:    features[2],
		RecentActivity:     features[3],
		CategoryEngagement: features[4],
	}
	if err := r.fbRepo.CreateFeedback(ctx, fb); err != nil {
		return fmt.Errorf("写入反馈失败: %w", err)
	}

	if !accepted {
		return nil
	}

	current := 0.5
	if pref, err := r.prefRepo.GetByUserCategory(ctx, userID, category); err != nil {
		return err
	} else if pref != nil {
		current = pref.Engagement
	}

	return r.prefRepo.Upsert(ctx, &schema.CategoryPreference{
		UserID:     userID,
		Category:   category,
		Engagement: clamp(current+0.1*engagement, 0, 1),
	})
}

// engagementFor 读取分类参与度偏好，缺省 0.5
func (r *Recommender) engagementFor(ctx context.Context, userID int64, category string) float64 {
	pref, err := r.prefRepo.GetByUserCategory(ctx, userID, category)
	if err != nil || pref == nil {
		return 0.5
	}
	return pref.Engagement
}

// featureVector 构建分类器特征向量（与 ml.FeatureDim 对齐）
func featureVector(now time.Time, rc RecommendContext, engagement float64) []float64 {
	return []float64{
		float64(now.Hour()) / 24,
		float64(now.Weekday()) / 7,
		(clamp(rc.AvgSentiment, -1, 1) + 1) / 2,
		clamp(rc.RecentActivity, 0, 1),
		clamp(engagement, 0, 1),
	}
}

// 时段分类
type timeOfDay int

const (
	todAny timeOfDay = iota
	todMorning
	todAfternoon
	todEvening
)

// classifyTimeOfDay 按关键词推断模板隐含的时段
func classifyTimeOfDay(text string) timeOfDay {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "morning") || strings.Contains(lower, "start your day") || strings.Contains(lower, "breakfast"):
		return todMorning
	case strings.Contains(lower, "lunch") || strings.Contains(lower, "afternoon"):
		return todAfternoon
	case strings.Contains(lower, "evening") || strings.Contains(lower, "wind down") || strings.Contains(lower, "before bed") || strings.Contains(lower, "tomorrow"):
		return todEvening
	default:
		return todAny
	}
}

// todMatches 当前小时是否落在模板时段窗口内
// 窗口：morning 5–10, afternoon 12–17, evening 17–22
func todMatches(tod timeOfDay, hour int) bool {
	switch tod {
	case todMorning:
		return hour >= 5 && hour < 10
	case todAfternoon:
		return hour >= 12 && hour < 17
	case todEvening:
		return hour >= 17 && hour < 22
	default:
		return false
	}
}

// isWeekend 是否周末
func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
