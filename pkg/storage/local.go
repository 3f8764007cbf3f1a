package storage

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage 本地文件存储实现
type LocalStorage struct {
	basePath string    // 相对路径的基础目录，为空时使用当前目录
	stdin    io.Reader // 路径为"-"时的输入
}

// LocalConfig 本地存储配置
type LocalConfig struct {
	Path  string    // 相对路径的基础目录
	Stdin io.Reader // 标准输入，默认为os.Stdin
}

// NewLocalStorage 创建本地存储实例
func NewLocalStorage(cfg LocalConfig) (*LocalStorage, error) {
	basePath := ""
	if cfg.Path != "" {
		// 确保路径是绝对路径
		absPath, err := filepath.Abs(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path: %v", err)
		}
		basePath = absPath
	}

	stdin := cfg.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	return &LocalStorage{
		basePath: basePath,
		stdin:    stdin,
	}, nil
}

// Open 打开本地文件
// "-" 读取标准输入，.gz 后缀的文件自动解压
func (s *LocalStorage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	if path == StdinPath {
		return io.NopCloser(s.stdin), nil
	}

	file, err := os.Open(s.resolve(path))
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return &gzipReadCloser{Reader: gr, file: file}, nil
	}

	return file, nil
}

// Create 创建或覆盖本地文件
func (s *LocalStorage) Create(_ context.Context, path string) (io.WriteCloser, error) {
	if path == StdinPath {
		return nil, fmt.Errorf("%w: cannot write to stdin", ErrInvalidPath)
	}
	return os.Create(s.resolve(path))
}

// resolve 将相对路径解析到基础目录下
func (s *LocalStorage) resolve(path string) string {
	if s.basePath == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.basePath, path)
}

// gzipReadCloser 关闭时同时关闭解压流和底层文件
type gzipReadCloser struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Close() error {
	gzErr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gzErr
}
