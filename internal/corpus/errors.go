package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRatio 切分比例非法（负数或总和超过1）
	ErrInvalidRatio = errors.New("invalid split ratio")
)

// IOError 读写语料文件失败
// Path 为出错的文件路径，便于直接反馈给用户
type IOError struct {
	Op   string // 操作：open, read, create, write, close
	Path string // 文件路径
	Err  error  // 底层错误
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// newIOError 构造IOError
func newIOError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}
