package storage

import (
	"context"
	"fmt"
	"io"
)

// Router 根据路径协议把操作分发到对应的存储后端
type Router struct {
	backends map[string]Storage
}

// NewRouter 创建路由存储，local为本地后端，remote为MinIO后端，可以为nil
func NewRouter(local Storage, remote Storage) *Router {
	backends := map[string]Storage{"local": local}
	if remote != nil {
		backends["minio"] = remote
	}
	return &Router{backends: backends}
}

// backend 返回路径对应的后端
func (r *Router) backend(path string) (Storage, error) {
	scheme := Scheme(path)
	b, ok := r.backends[scheme]
	if ok && b != nil {
		return b, nil
	}
	if scheme == "minio" || scheme == "local" {
		return nil, fmt.Errorf("%w: %s", ErrBackendNotConfigured, scheme)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
}

// Open 打开路径用于读取
func (r *Router) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	b, err := r.backend(path)
	if err != nil {
		return nil, err
	}
	return b.Open(ctx, path)
}

// Create 创建路径用于写入
func (r *Router) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	b, err := r.backend(path)
	if err != nil {
		return nil, err
	}
	return b.Create(ctx, path)
}
