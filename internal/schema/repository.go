package schema

import "time"

// Repository 用户接入的 git 仓库
type Repository struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64  `gorm:"index" json:"user_id"`
	Name        string `gorm:"size:200" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	RepoURL     string `gorm:"size:500" json:"repo_url"`
	LocalPath   string `gorm:"size:500" json:"local_path"`

	// 最近一次分析的汇总字段
	LastAnalyzedAt  int64   `json:"last_analyzed_at"` // Unix 毫秒，0 表示未分析
	AnalysisStatus  string  `gorm:"size:20" json:"analysis_status"` // pending, completed, failed
	CommitFrequency float64 `json:"commit_frequency"`               // 每天提交数
	AvgSentiment    float64 `json:"avg_sentiment"`                  // [-1,1]
	BurnoutRisk     float64 `json:"burnout_risk"`                   // [0,1]
	TotalCommits    int     `json:"total_commits"`
	TotalAuthors    int     `json:"total_authors"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Repository) TableName() string {
	return "repositories"
}

// Commit 同步到本地库的提交记录
// 数据量级：万级/仓库
type Commit struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	RepositoryID int64  `gorm:"index;uniqueIndex:uniq_repo_hash" json:"repository_id"`
	Hash         string `gorm:"size:100;uniqueIndex:uniq_repo_hash" json:"hash"`
	Author       string `gorm:"size:200;index" json:"author"`
	Message      string `gorm:"type:text" json:"message"`
	Timestamp    int64  `gorm:"index" json:"timestamp"` // Unix 毫秒
	LinesAdded   int    `json:"lines_added"`
	LinesRemoved int    `json:"lines_removed"`
}

// TableName 指定表名
func (Commit) TableName() string {
	return "commits"
}
