package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// DefaultConfigPath 返回默认配置文件路径（可执行文件旁的 config/config.yaml）
func DefaultConfigPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("获取可执行文件路径失败: %w", err)
	}
	exeDir := filepath.Dir(exe)
	return filepath.Join(exeDir, "config", "config.yaml"), nil
}

// Default 默认配置（setDefaults 的结构化版本，用于首次生成配置文件）
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:     "devwell",
			Version:  "0.1.0",
			LogLevel: "info",
		},
		Server: ServerConfig{
			ListenAddr: "127.0.0.1:8642",
		},
		Storage: StorageConfig{
			DBPath: "./data/devwell.db",
		},
		Analysis: AnalysisConfig{
			LookbackDays: 30,
			GitBinary:    "git",
		},
		Risk: RiskConfig{
			Version:                 1,
			WeightLongHours:         0.25,
			WeightCommitFrequency:   0.20,
			WeightIrregularSchedule: 0.15,
			WeightNegativeSentiment: 0.30,
			WeightLowSocial:         0.10,
			ModerateThreshold:       0.4,
			HighThreshold:           0.7,
		},
		Recommender: RecommenderConfig{
			ModelPath: "./data/engagement_model.gob",
		},
		AI: AIConfig{
			DeepSeek: DeepSeekConfig{
				BaseURL: "https://api.deepseek.com",
				Model:   "deepseek-chat",
			},
		},
		Notify: NotifyConfig{
			Enabled:   true,
			SweepHour: 9,
		},
	}
}

// WriteFile 将配置写入指定路径
func WriteFile(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("cfg 不能为空")
	}
	if path == "" {
		return fmt.Errorf("path 不能为空")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	payload := map[string]any{
		"app": map[string]any{
			"name":      cfg.App.Name,
			"version":   cfg.App.Version,
			"log_level": cfg.App.LogLevel,
		},
		"server": map[string]any{
			"listen_addr": cfg.Server.ListenAddr,
		},
		"storage": map[string]any{
			"db_path": cfg.Storage.DBPath,
		},
		"analysis": map[string]any{
			"lookback_days": cfg.Analysis.LookbackDays,
			"git_binary":    cfg.Analysis.GitBinary,
		},
		"risk": map[string]any{
			"version":                   cfg.Risk.Version,
			"weight_long_hours":         cfg.Risk.WeightLongHours,
			"weight_commit_frequency":   cfg.Risk.WeightCommitFrequency,
			"weight_irregular_schedule": cfg.Risk.WeightIrregularSchedule,
			"weight_negative_sentiment": cfg.Risk.WeightNegativeSentiment,
			"weight_low_social":         cfg.Risk.WeightLowSocial,
			"moderate_threshold":        cfg.Risk.ModerateThreshold,
			"high_threshold":            cfg.Risk.HighThreshold,
		},
		"recommender": map[string]any{
			"model_path": cfg.Recommender.ModelPath,
		},
		"ai": map[string]any{
			"deepseek": map[string]any{
				"api_key":  cfg.AI.DeepSeek.APIKey,
				"base_url": cfg.AI.DeepSeek.BaseURL,
				"model":    cfg.AI.DeepSeek.Model,
			},
		},
		"notify": map[string]any{
			"enabled":    cfg.Notify.Enabled,
			"sweep_hour": cfg.Notify.SweepHour,
		},
	}

	b, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
