package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 TAGSPLIT_SPLIT_TRAIN_RATIO
const EnvPrefix = "TAGSPLIT"

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid config")

// Config 应用程序配置结构体
type Config struct {
	Split    SplitConfig    `mapstructure:"split"`
	Corpus   CorpusConfig   `mapstructure:"corpus"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
	Manifest ManifestConfig `mapstructure:"manifest"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// SplitConfig 切分比例配置，测试集为剩余部分
type SplitConfig struct {
	TrainRatio float64 `mapstructure:"train_ratio" validate:"gte=0,lte=1"` // 训练集比例
	DevRatio   float64 `mapstructure:"dev_ratio" validate:"gte=0,lte=1"`   // 开发集比例
}

// CorpusConfig 语料读取配置
type CorpusConfig struct {
	SkipEmpty bool `mapstructure:"skip_empty"` // 丢弃连续空行产生的空句子
}

// OutputConfig 输出配置
type OutputConfig struct {
	SeparateSentences bool `mapstructure:"separate_sentences"` // 句子之间写入空行
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error"` // 日志级别，为空时为info
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json text"`                  // 日志格式，为空时为text
	File       string `mapstructure:"file"`                                                         // 日志文件，为空时输出到标准错误
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`                                 // 单个日志文件大小上限
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`                                 // 保留的旧日志文件数
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`                                // 旧日志保留天数
}

// ManifestConfig 切分清单数据库配置
type ManifestConfig struct {
	Enable bool   `mapstructure:"enable"`                                 // 是否记录切分清单
	DSN    string `mapstructure:"dsn" validate:"required_if=Enable true"` // SQLite数据源
}

// StorageConfig MinIO对象存储配置
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"` // MinIO端点，为空时不启用
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"` // 是否使用SSL
}

// Load 从文件和环境变量加载配置
// configPath为空时只使用默认值和环境变量
func Load(configPath string) (*Config, error) {
	// 当前目录存在.env时加载
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	// 支持环境变量覆盖
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	resConfig := processEnvironmentVariables(&config)

	if err := resConfig.Validate(); err != nil {
		return nil, err
	}
	return resConfig, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Split.TrainRatio+c.Split.DevRatio > 1 {
		return fmt.Errorf("%w: train_ratio + dev_ratio must not exceed 1, got %v + %v",
			ErrInvalidConfig, c.Split.TrainRatio, c.Split.DevRatio)
	}
	return nil
}

// loadDotEnv 加载.env文件，文件不存在时忽略
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// processEnvironmentVariables 处理配置项中 ${VAR} 形式的环境变量引用
func processEnvironmentVariables(cfg *Config) *Config {
	cfg.Storage.AccessKey = expandEnv(cfg.Storage.AccessKey)
	cfg.Storage.SecretKey = expandEnv(cfg.Storage.SecretKey)
	cfg.Manifest.DSN = expandEnv(cfg.Manifest.DSN)
	return cfg
}

// expandEnv 展开单个 ${VAR} 引用，变量未设置时保留原值
func expandEnv(value string) string {
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envVal := os.Getenv(envVar); envVal != "" {
			return envVal
		}
	}
	return value
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	// 切分默认配置：80/10/10
	v.SetDefault("split.train_ratio", 0.8)
	v.SetDefault("split.dev_ratio", 0.1)

	// 语料读取默认配置
	v.SetDefault("corpus.skip_empty", false)

	// 输出默认配置，保持句子之间不写空行
	v.SetDefault("output.separate_sentences", false)

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	// 清单默认配置
	v.SetDefault("manifest.enable", false)
	v.SetDefault("manifest.dsn", "data/manifest.db")

	// MinIO默认配置
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.use_ssl", false)
}
