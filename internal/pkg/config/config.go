package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Analysis    AnalysisConfig    `mapstructure:"analysis"`
	Risk        RiskConfig        `mapstructure:"risk"`
	Recommender RecommenderConfig `mapstructure:"recommender"`
	AI          AIConfig          `mapstructure:"ai"`
	Notify      NotifyConfig      `mapstructure:"notify"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Version  string `mapstructure:"version"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig 本地 HTTP 服务配置
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// AnalysisConfig 分析窗口配置
type AnalysisConfig struct {
	LookbackDays int    `mapstructure:"lookback_days"`
	GitBinary    string `mapstructure:"git_binary"`
}

// RiskConfig 倦怠风险评分配置：权重表 + 阈值集中在此，避免评分逻辑里的魔数
type RiskConfig struct {
	Version int `mapstructure:"version"` // 权重表版本号，调参时递增

	WeightLongHours         float64 `mapstructure:"weight_long_hours"`
	WeightCommitFrequency   float64 `mapstructure:"weight_commit_frequency"`
	WeightIrregularSchedule float64 `mapstructure:"weight_irregular_schedule"`
	WeightNegativeSentiment float64 `mapstructure:"weight_negative_sentiment"`
	WeightLowSocial         float64 `mapstructure:"weight_low_social"`

	ModerateThreshold float64 `mapstructure:"moderate_threshold"`
	HighThreshold     float64 `mapstructure:"high_threshold"`
}

// RecommenderConfig 推荐器配置
type RecommenderConfig struct {
	ModelPath string `mapstructure:"model_path"`
}

// AIConfig AI 配置
type AIConfig struct {
	DeepSeek DeepSeekConfig `mapstructure:"deepseek"`
}

// DeepSeekConfig DeepSeek 配置
type DeepSeekConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// NotifyConfig 通知扫描配置
type NotifyConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	SweepHour int  `mapstructure:"sweep_hour"` // 每日扫描的本地小时数
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 设置配置文件路径
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// 默认查找路径
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// 支持环境变量
	v.SetEnvPrefix("DEVWELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("配置文件未找到，使用默认配置")
		} else {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	} else {
		slog.Info("加载配置文件", "path", v.ConfigFileUsed())
	}

	// 解析配置
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// 处理环境变量占位符
	cfg.AI.DeepSeek.APIKey = expandEnv(cfg.AI.DeepSeek.APIKey)

	// 处理相对路径
	cfg.Storage.DBPath = resolvePath(cfg.Storage.DBPath)
	cfg.Recommender.ModelPath = resolvePath(cfg.Recommender.ModelPath)

	return &cfg, nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "devwell")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.log_level", "info")

	// Server
	v.SetDefault("server.listen_addr", "127.0.0.1:8642")

	// Storage
	v.SetDefault("storage.db_path", "./data/devwell.db")

	// Analysis
	v.SetDefault("analysis.lookback_days", 30)
	v.SetDefault("analysis.git_binary", "git")

	// Risk
	v.SetDefault("risk.version", 1)
	v.SetDefault("risk.weight_long_hours", 0.25)
	v.SetDefault("risk.weight_commit_frequency", 0.20)
	v.SetDefault("risk.weight_irregular_schedule", 0.15)
	v.SetDefault("risk.weight_negative_sentiment", 0.30)
	v.SetDefault("risk.weight_low_social", 0.10)
	v.SetDefault("risk.moderate_threshold", 0.4)
	v.SetDefault("risk.high_threshold", 0.7)

	// Recommender
	v.SetDefault("recommender.model_path", "./data/engagement_model.gob")

	// AI
	v.SetDefault("ai.deepseek.base_url", "https://api.deepseek.com")
	v.SetDefault("ai.deepseek.model", "deepseek-chat")

	// Notify
	v.SetDefault("notify.enabled", true)
	v.SetDefault("notify.sweep_hour", 9)
}

// expandEnv 展开环境变量占位符 ${VAR}
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		envVar := s[2 : len(s)-1]
		return os.Getenv(envVar)
	}
	return s
}

// resolvePath 解析相对路径为绝对路径
func resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	// 获取可执行文件目录
	exe, err := os.Executable()
	if err != nil {
		return path
	}

	exeDir := filepath.Dir(exe)
	return filepath.Join(exeDir, path)
}

// SetupLogger 根据配置设置日志级别
func SetupLogger(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
