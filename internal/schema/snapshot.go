package schema

import "time"

// WellnessSnapshot 每日健康快照
// (user_id, snapshot_date) 唯一，重算走 Upsert 覆盖而不是新增
type WellnessSnapshot struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64  `gorm:"uniqueIndex:uniq_user_date" json:"user_id"`
	SnapshotDate string `gorm:"size:10;index;uniqueIndex:uniq_user_date" json:"snapshot_date"` // YYYY-MM-DD

	// Git 特征
	WeeklyHours          float64 `json:"weekly_hours"`
	AvgDailyCommits      float64 `json:"avg_daily_commits"`
	ScheduleRegularity   float64 `json:"schedule_regularity"`
	CollaborationScore   float64 `json:"collaboration_score"`
	LateNightCommits     int     `json:"late_night_commits"`
	WeekendCommitRatio   float64 `json:"weekend_commit_ratio"`
	MaxCommitStreakHours float64 `json:"max_commit_streak_hours"`

	// 日志特征
	AvgSentiment         float64 `json:"avg_sentiment"`
	EntryCount           int     `json:"entry_count"`
	DaysSinceLastJournal int     `json:"days_since_last_journal"` // 999 表示从未写过日志

	// 派生分数
	WellnessScore float64 `json:"wellness_score"` // 1 - burnout_risk
	BurnoutRisk   float64 `json:"burnout_risk"`   // [0,1]
	RiskLevel     string  `gorm:"size:10" json:"risk_level"` // low, moderate, high
	Factors       JSONMap `gorm:"type:text" json:"factors"`  // 参与计算的特征值，便于审计

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (WellnessSnapshot) TableName() string {
	return "wellness_snapshots"
}

// Summary 快照摘要（用于通知与日志输出）
func (s *WellnessSnapshot) Summary() string {
	if s == nil {
		return ""
	}
	return "Snapshot " + s.SnapshotDate + " - risk " + s.RiskLevel
}
