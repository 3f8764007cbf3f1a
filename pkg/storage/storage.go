package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	// ErrUnsupportedScheme 不支持的路径协议
	ErrUnsupportedScheme = errors.New("unsupported storage scheme")
	// ErrBackendNotConfigured 路径对应的存储后端未配置
	ErrBackendNotConfigured = errors.New("storage backend not configured")
	// ErrInvalidPath 路径格式错误
	ErrInvalidPath = errors.New("invalid storage path")
)

// StdinPath 表示从标准输入读取
const StdinPath = "-"

// MinioScheme MinIO对象路径前缀，格式为 minio://bucket/object
const MinioScheme = "minio://"

// Storage 语料文件存储接口
// 定义读取输入、写出切分结果的基本操作，可以有不同实现(本地文件系统、MinIO等)
type Storage interface {
	// Open 打开路径用于读取
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Create 创建或覆盖路径用于写入，Close时完成写入
	Create(ctx context.Context, path string) (io.WriteCloser, error)
}

// Scheme 返回路径使用的存储协议：local 或 minio
func Scheme(path string) string {
	if strings.HasPrefix(path, MinioScheme) {
		return "minio"
	}
	if i := strings.Index(path, "://"); i > 0 {
		return path[:i]
	}
	return "local"
}
