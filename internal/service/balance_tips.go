package service

// BalanceTip 工作生活平衡建议
type BalanceTip struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// BalanceTipsFor 根据提交特征生成平衡建议，规则命中即追加，顺序固定
func BalanceTipsFor(features CommitFeatureSet) []BalanceTip {
	var tips []BalanceTip

	if features.WeeklyHours > 50 {
		tips = append(tips, BalanceTip{
			Title:       "Reduce your weekly coding hours",
			Description: "You're putting in very long weeks. Sustained overwork erodes both code quality and wellbeing. Set a hard stop time for your workday.",
			Priority:    PriorityHigh,
		})
	}

	if features.LateNightCommits > 5 {
		tips = append(tips, BalanceTip{
			Title:       "Cut back on late-night coding",
			Description: "Frequent commits between 22:00 and 04:00 disrupt sleep and recovery. Move deep work earlier in the day and wind down before bed.",
			Priority:    PriorityHigh,
		})
	}

	if features.WeekendCommitRatio > 0.3 {
		tips = append(tips, BalanceTip{
			Title:       "Reclaim your weekends",
			Description: "A large share of your commits land on weekends. Protect at least one full day away from the keyboard each week.",
			Priority:    PriorityMedium,
		})
	}

	if features.MaxCommitStreakHours > 6 {
		tips = append(tips, BalanceTip{
			Title:       "Break up marathon sessions",
			Description: "You've had uninterrupted coding stretches of over six hours. Schedule a real break at least every two hours.",
			Priority:    PriorityMedium,
		})
	}

	if features.ScheduleRegularity < 0.5 && features.AvgDailyCommits > 0 {
		tips = append(tips, BalanceTip{
			Title:       "Stabilize your daily rhythm",
			Description: "Your commit activity swings a lot from day to day. A steadier routine makes workload easier to sustain and to plan around.",
			Priority:    PriorityMedium,
		})
	}

	if len(tips) == 0 {
		tips = append(tips, BalanceTip{
			Title:       "Keep up the healthy rhythm",
			Description: "Your commit patterns look balanced. Keep protecting your evenings and weekends.",
			Priority:    PriorityLow,
		})
	}

	return tips
}
