package service

// Priority 干预建议优先级
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// InterventionSuggestion 干预建议，来自静态目录，只选取不生成
type InterventionSuggestion struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// 各风险等级对应的固定建议目录，顺序即输出顺序
var (
	highRiskInterventions = []InterventionSuggestion{
		{
			Type:        "immediate_break",
			Title:       "Take time off",
			Description: "Your activity pattern shows sustained overload. Schedule at least one full day away from code this week.",
			Priority:    PriorityCritical,
		},
		{
			Type:        "workload_review",
			Title:       "Review your workload",
			Description: "Talk to your team or manager about redistributing tasks. Long hours and irregular schedules compound quickly.",
			Priority:    PriorityHigh,
		},
		{
			Type:        "sleep_hygiene",
			Title:       "Protect your sleep",
			Description: "Late-night commits correlate with degraded recovery. Set a hard stop for coding at least two hours before bed.",
			Priority:    PriorityHigh,
		},
	}

	moderateRiskInterventions = []InterventionSuggestion{
		{
			Type:        "schedule_breaks",
			Title:       "Schedule regular breaks",
			Description: "Block short breaks in your calendar. The Pomodoro technique (25 min work, 5 min break) is a good default.",
			Priority:    PriorityMedium,
		},
		{
			Type:        "boundary_setting",
			Title:       "Set work boundaries",
			Description: "Define an end-of-day time and stick to it for a week. Weekend commits should be the exception, not the norm.",
			Priority:    PriorityMedium,
		},
	}

	lowRiskInterventions = []InterventionSuggestion{
		{
			Type:        "maintain_habits",
			Title:       "Keep your current rhythm",
			Description: "Your work pattern looks sustainable. Keep journaling to catch changes early.",
			Priority:    PriorityLow,
		},
		{
			Type:        "social_connection",
			Title:       "Stay connected",
			Description: "Regular exchanges with teammates keep collaboration healthy and catch problems before they grow.",
			Priority:    PriorityLow,
		},
	}
)

// InterventionsFor 风险等级到建议列表的纯映射
func InterventionsFor(level RiskLevel) []InterventionSuggestion {
	switch level {
	case RiskHigh:
		return highRiskInterventions
	case RiskModerate:
		return moderateRiskInterventions
	default:
		return lowRiskInterventions
	}
}
