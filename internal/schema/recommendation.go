package schema

import "time"

// CategoryPreference 用户对某推荐分类的参与度偏好
// 仅在接受反馈时上调，上限 1.0
type CategoryPreference struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"uniqueIndex:uniq_user_category" json:"user_id"`
	Category   string    `gorm:"size:50;uniqueIndex:uniq_user_category" json:"category"`
	Engagement float64   `gorm:"default:0.5" json:"engagement"` // [0,1]
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (CategoryPreference) TableName() string {
	return "category_preferences"
}

// RecommendationLog 已展示的推荐及其上下文特征
// 反馈到达时据此还原特征向量，作为训练样本
type RecommendationLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	Category  string    `gorm:"size:50;index" json:"category"`
	Text      string    `gorm:"type:text" json:"text"`
	Score     float64   `json:"score"`
	Context   JSONMap   `gorm:"type:text" json:"context"` // hour_norm, weekday_norm, sentiment, recent_activity, engagement
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (RecommendationLog) TableName() string {
	return "recommendation_logs"
}

// FeedbackEntry 推荐反馈（训练样本）
// 特征列冗余自反馈时刻的 RecommendationLog 上下文，训练时不再回表
type FeedbackEntry struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64  `gorm:"index" json:"user_id"`
	Category string `gorm:"size:50;index" json:"category"`

	Accepted   bool    `json:"accepted"`
	Engagement float64 `json:"engagement"` // [0,1] 用户标注的参与度

	// 特征向量（与 ml.FeatureDim 对齐）
	HourNorm           float64 `json:"hour_norm"`            // hour/24
	WeekdayNorm        float64 `json:"weekday_norm"`         // weekday/7
	SentimentScaled    float64 `json:"sentiment_scaled"`     // (sentiment+1)/2
	RecentActivity     float64 `json:"recent_activity"`      // [0,1]
	CategoryEngagement float64 `json:"category_engagement"`  // 反馈时刻的分类偏好

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (FeedbackEntry) TableName() string {
	return "feedback_entries"
}
