package schema

import "time"

// JournalEntry 用户日志条目
// 情感分数在写入时计算一次，之后只读
type JournalEntry struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64     `gorm:"index" json:"user_id"`
	Title          string    `gorm:"size:200" json:"title"`
	Content        string    `gorm:"type:text" json:"content"`
	SentimentScore float64   `json:"sentiment_score"`                  // [-1,1]
	SentimentLabel string    `gorm:"size:20" json:"sentiment_label"`   // positive, negative, neutral
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (JournalEntry) TableName() string {
	return "journal_entries"
}
