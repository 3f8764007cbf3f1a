package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log = logrus.New()

// 初始化日志配置
func init() {
	// 诊断日志输出到标准错误，避免与切分结果混在一起
	log.SetOutput(os.Stderr)
	log.SetFormatter(textFormatter())

	// 根据环境变量设置日志级别
	if os.Getenv("DEBUG") == "true" {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

// Options 日志配置
type Options struct {
	Level      string    // 日志级别
	Format     string    // 日志格式：json 或 text
	File       string    // 日志文件路径，为空时输出到Output
	MaxSizeMB  int       // 单个日志文件大小上限（MB）
	MaxBackups int       // 保留的旧日志文件数
	MaxAgeDays int       // 旧日志保留天数
	Output     io.Writer // 默认输出，为空时使用标准错误
}

// Setup 根据配置调整全局日志记录器
func Setup(opts Options) (*logrus.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)

	switch opts.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	case "text", "":
		log.SetFormatter(textFormatter())
	default:
		return nil, fmt.Errorf("unknown log format: %s", opts.Format)
	}

	log.SetOutput(output(opts))
	return log, nil
}

// ParseLevel 解析日志级别，空字符串视为info
func ParseLevel(level string) (logrus.Level, error) {
	switch level {
	case "trace":
		return logrus.TraceLevel, nil
	case "debug":
		return logrus.DebugLevel, nil
	case "info", "":
		return logrus.InfoLevel, nil
	case "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}

// output 返回日志输出目标，配置了文件时使用lumberjack按大小滚动
func output(opts Options) io.Writer {
	if opts.File != "" {
		return &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
	}
	if opts.Output != nil {
		return opts.Output
	}
	return os.Stderr
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	}
}

// 常用日志字段
const (
	FieldRunID     = "run_id"    // 运行ID
	FieldPath      = "path"      // 文件路径
	FieldSeed      = "seed"      // 随机种子
	FieldSentences = "sentences" // 句子数量
	FieldPartition = "partition" // 切分名称
	FieldLatency   = "latency"   // 耗时
)

// GetLogger 返回全局日志记录器
func GetLogger() *logrus.Logger {
	return log
}
