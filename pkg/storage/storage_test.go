package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 读取文件内容辅助函数
func readAll(t *testing.T, r io.Reader) string {
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

// TestLocalStorage 测试本地存储实现
func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()

	localStorage, err := NewLocalStorage(LocalConfig{Path: tempDir})
	require.NoError(t, err)

	t.Run("Create and Open", func(t *testing.T) {
		w, err := localStorage.Create(ctx, "train.txt")
		require.NoError(t, err)
		_, err = w.Write([]byte("a B \n"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		// 相对路径解析到基础目录下
		_, err = os.Stat(filepath.Join(tempDir, "train.txt"))
		require.NoError(t, err)

		r, err := localStorage.Open(ctx, "train.txt")
		require.NoError(t, err)
		defer r.Close()
		assert.Equal(t, "a B \n", readAll(t, r))
	})

	t.Run("Open missing file", func(t *testing.T) {
		_, err := localStorage.Open(ctx, "missing.txt")
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("Gzip input", func(t *testing.T) {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		_, err := gw.Write([]byte("w T\n\n"))
		require.NoError(t, err)
		require.NoError(t, gw.Close())

		path := filepath.Join(tempDir, "input.txt.gz")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

		r, err := localStorage.Open(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "w T\n\n", readAll(t, r))
		assert.NoError(t, r.Close())
	})

	t.Run("Corrupt gzip input", func(t *testing.T) {
		path := filepath.Join(tempDir, "bad.gz")
		require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0644))
		_, err := localStorage.Open(ctx, path)
		assert.Error(t, err)
	})
}

func TestLocalStorageStdin(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(LocalConfig{Stdin: strings.NewReader("x Y\n")})
	require.NoError(t, err)

	r, err := s.Open(ctx, StdinPath)
	require.NoError(t, err)
	assert.Equal(t, "x Y\n", readAll(t, r))

	_, err = s.Create(ctx, StdinPath)
	assert.True(t, errors.Is(err, ErrInvalidPath))
}

func TestParseObjectPath(t *testing.T) {
	tests := []struct {
		path   string
		bucket string
		object string
		ok     bool
	}{
		{path: "minio://corpora/conll/train.txt", bucket: "corpora", object: "conll/train.txt", ok: true},
		{path: "minio://corpora/a", bucket: "corpora", object: "a", ok: true},
		{path: "minio://corpora", ok: false},
		{path: "minio:///object", ok: false},
		{path: "minio://corpora/", ok: false},
		{path: "/tmp/local.txt", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			bucket, object, err := ParseObjectPath(tt.path)
			if !tt.ok {
				assert.True(t, errors.Is(err, ErrInvalidPath))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.object, object)
		})
	}
}

func TestScheme(t *testing.T) {
	assert.Equal(t, "local", Scheme("data/train.txt"))
	assert.Equal(t, "local", Scheme("-"))
	assert.Equal(t, "minio", Scheme("minio://b/o"))
	assert.Equal(t, "s3", Scheme("s3://b/o"))
}

func TestRouter(t *testing.T) {
	ctx := context.Background()
	local, err := NewLocalStorage(LocalConfig{Path: t.TempDir()})
	require.NoError(t, err)

	router := NewRouter(local, nil)

	w, err := router.Create(ctx, "dev.txt")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := router.Open(ctx, "dev.txt")
	require.NoError(t, err)
	require.NoError(t, r.Close())

	// 未配置MinIO时访问minio路径
	_, err = router.Open(ctx, "minio://bucket/train.txt")
	assert.True(t, errors.Is(err, ErrBackendNotConfigured))

	// 未知协议
	_, err = router.Create(ctx, "s3://bucket/train.txt")
	assert.True(t, errors.Is(err, ErrUnsupportedScheme))
}

func TestNewMinioStorageRequiresEndpoint(t *testing.T) {
	_, err := NewMinioStorage(MinioConfig{})
	assert.True(t, errors.Is(err, ErrBackendNotConfigured))

	// 创建客户端不会连接服务端
	s, err := NewMinioStorage(MinioConfig{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)

	_, err = s.Create(context.Background(), "minio://only-bucket")
	assert.True(t, errors.Is(err, ErrInvalidPath))
}
