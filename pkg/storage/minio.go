package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage MinIO存储实现
// 路径格式为 minio://bucket/object
type MinioStorage struct {
	client *minio.Client // MinIO客户端
}

// MinioConfig MinIO存储配置
type MinioConfig struct {
	Endpoint  string // MinIO服务端点
	AccessKey string // 访问密钥ID
	SecretKey string // 秘密访问密钥
	UseSSL    bool   // 是否使用SSL
}

// NewMinioStorage 创建MinIO存储实例
func NewMinioStorage(cfg MinioConfig) (*MinioStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: minio endpoint is empty", ErrBackendNotConfigured)
	}

	// 创建MinIO客户端
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	return &MinioStorage{client: client}, nil
}

// ParseObjectPath 解析 minio://bucket/object 路径
func ParseObjectPath(path string) (bucket, object string, err error) {
	if !strings.HasPrefix(path, MinioScheme) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	rest := strings.TrimPrefix(path, MinioScheme)
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("%w: expected minio://bucket/object, got %s", ErrInvalidPath, path)
	}
	return bucket, object, nil
}

// Open 读取MinIO中的对象
func (s *MinioStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, object, err := ParseObjectPath(path)
	if err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %v", err)
	}

	// GetObject是惰性的，先Stat一次让不存在的对象立即报错
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	return obj, nil
}

// Create 返回一个写入器，Close时把内容上传到MinIO
func (s *MinioStorage) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	bucket, object, err := ParseObjectPath(path)
	if err != nil {
		return nil, err
	}
	return &objectWriter{
		ctx:     ctx,
		storage: s,
		bucket:  bucket,
		object:  object,
	}, nil
}

// ensureBucket 检查存储桶是否存在，不存在则创建
func (s *MinioStorage) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %v", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
	}
	return nil
}

// objectWriter 在内存中缓冲写入内容，Close时一次性上传
type objectWriter struct {
	ctx     context.Context
	storage *MinioStorage
	bucket  string
	object  string
	buf     bytes.Buffer
	closed  bool
}

func (w *objectWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("write to closed object %s/%s", w.bucket, w.object)
	}
	return w.buf.Write(p)
}

// Close 上传缓冲内容
func (w *objectWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.storage.ensureBucket(w.ctx, w.bucket); err != nil {
		return err
	}

	_, err := w.storage.client.PutObject(
		w.ctx,
		w.bucket,
		w.object,
		bytes.NewReader(w.buf.Bytes()),
		int64(w.buf.Len()),
		minio.PutObjectOptions{ContentType: "text/plain"},
	)
	if err != nil {
		return fmt.Errorf("failed to upload object: %v", err)
	}
	return nil
}
