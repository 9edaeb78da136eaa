package service

import (
	"github.com/yuqie6/DevWell/internal/pkg/config"
)

// RiskLevel 倦怠风险等级
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// RiskAssessment 一次风险评估的结果，创建后不再修改
type RiskAssessment struct {
	Score         float64                  `json:"risk_score"` // [0,1]
	Level         RiskLevel                `json:"risk_level"`
	Interventions []InterventionSuggestion `json:"interventions"`
	Factors       map[string]float64       `json:"factors"` // 参与计算的特征值，便于审计
}

// RiskPolicy 规则式倦怠风险评分策略
// 权重与阈值集中在此结构中，可独立于聚合代码测试与调参
type RiskPolicy struct {
	Version int

	// 因子权重
	WeightLongHours         float64
	WeightCommitFrequency   float64
	WeightIrregularSchedule float64
	WeightNegativeSentiment float64
	WeightLowSocial         float64

	// 规则触发点
	LongHoursHard  float64 // 周工时超此值记满权重
	LongHoursSoft  float64 // 周工时超此值记 0.7 倍权重
	HighCommitRate float64 // 日均提交超此值触发
	IrregularBelow float64 // 规律性低于此值触发
	NegativeBelow  float64 // 平均情感低于此值触发
	LowCollabBelow float64 // 协作分低于此值触发

	// 等级阈值（均为开区间下界：score > 阈值才升级）
	ModerateThreshold float64
	HighThreshold     float64
}

// DefaultRiskPolicy 默认策略
func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{
		Version:                 1,
		WeightLongHours:         0.25,
		WeightCommitFrequency:   0.20,
		WeightIrregularSchedule: 0.15,
		WeightNegativeSentiment: 0.30,
		WeightLowSocial:         0.10,
		LongHoursHard:           50,
		LongHoursSoft:           40,
		HighCommitRate:          10,
		IrregularBelow:          0.5,
		NegativeBelow:           -0.3,
		LowCollabBelow:          0.3,
		ModerateThreshold:       0.4,
		HighThreshold:           0.7,
	}
}

// PolicyFromConfig 从配置构建策略，未配置的规则触发点沿用默认值
func PolicyFromConfig(cfg config.RiskConfig) RiskPolicy {
	p := DefaultRiskPolicy()
	if cfg.Version > 0 {
		p.Version = cfg.Version
	}
	if cfg.WeightLongHours > 0 {
		p.WeightLongHours = cfg.WeightLongHours
	}
	if cfg.WeightCommitFrequency > 0 {
		p.WeightCommitFrequency = cfg.WeightCommitFrequency
	}
	if cfg.WeightIrregularSchedule > 0 {
		p.WeightIrregularSchedule = cfg.WeightIrregularSchedule
	}
	if cfg.WeightNegativeSentiment > 0 {
		p.WeightNegativeSentiment = cfg.WeightNegativeSentiment
	}
	if cfg.WeightLowSocial > 0 {
		p.WeightLowSocial = cfg.WeightLowSocial
	}
	if cfg.ModerateThreshold > 0 {
		p.ModerateThreshold = cfg.ModerateThreshold
	}
	if cfg.HighThreshold > 0 {
		p.HighThreshold = cfg.HighThreshold
	}
	return p
}

// Assess 按加权规则评估风险
// 各规则独立相加，与顺序无关；缺失特征为零值即"无证据"，不会触发规则
func (p RiskPolicy) Assess(git CommitFeatureSet, journal SentimentFeatureSet) RiskAssessment {
	var score float64

	if git.WeeklyHours > p.LongHoursHard {
		score += p.WeightLongHours
	} else if git.WeeklyHours > p.LongHoursSoft {
		score += p.WeightLongHours * 0.7
	}

	if git.AvgDailyCommits > p.HighCommitRate {
		score += p.WeightCommitFrequency * 0.8
	}

	if git.ScheduleRegularity < p.IrregularBelow {
		score += p.WeightIrregularSchedule * 0.6
	}

	if journal.AvgSentiment < p.NegativeBelow {
		score += p.WeightNegativeSentiment * 0.9
	}

	if git.CollaborationScore < p.LowCollabBelow {
		score += p.WeightLowSocial * 0.5
	}

	score = clamp(score, 0, 1)
	level := p.LevelFor(score)

	return RiskAssessment{
		Score:         score,
		Level:         level,
		Interventions: InterventionsFor(level),
		Factors: map[string]float64{
			"weekly_hours":        git.WeeklyHours,
			"avg_daily_commits":   git.AvgDailyCommits,
			"schedule_regularity": git.ScheduleRegularity,
			"collaboration_score": git.CollaborationScore,
			"avg_sentiment":       journal.AvgSentiment,
			"late_night_commits":  float64(git.LateNightCommits),
			"weekend_ratio":       git.WeekendCommitRatio,
		},
	}
}

// LevelFor 分数到等级的阶跃映射（阈值为开区间下界）
func (p RiskPolicy) LevelFor(score float64) RiskLevel {
	switch {
	case score > p.HighThreshold:
		return RiskHigh
	case score > p.ModerateThreshold:
		return RiskModerate
	default:
		return RiskLow
	}
}
