package app

import (
	"errors"
	"fmt"
)

// 进程退出码
const (
	ExitOK       = 0 // 成功
	ExitFailure  = 1 // 读写失败或其他错误
	ExitArgument = 2 // 命令行参数或配置错误
)

// ArgumentError 命令行参数缺失或格式错误
// 在进行任何语料读写之前报告
type ArgumentError struct {
	Err error
}

func (e *ArgumentError) Error() string {
	return e.Err.Error()
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// argumentErrorf 构造ArgumentError
func argumentErrorf(format string, args ...interface{}) error {
	return &ArgumentError{Err: fmt.Errorf(format, args...)}
}

// ExitCode 根据错误类型返回退出码
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		return ExitArgument
	}
	return ExitFailure
}
