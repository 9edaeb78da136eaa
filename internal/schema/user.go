package schema

import "time"

// User 用户
// 认证/会话由外层系统负责，这里只保留分析与通知需要的字段
type User struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username             string    `gorm:"size:100;uniqueIndex" json:"username"`
	Email                string    `gorm:"size:255" json:"email"`
	Timezone             string    `gorm:"size:64;default:UTC" json:"timezone"`
	NotificationsEnabled bool      `gorm:"default:true" json:"notifications_enabled"`
	LastDailyTipAt       int64     `json:"last_daily_tip_at"`     // Unix 毫秒，0 表示从未发送
	LastBurnoutCheckAt   int64     `json:"last_burnout_check_at"` // Unix 毫秒，0 表示从未检查
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
