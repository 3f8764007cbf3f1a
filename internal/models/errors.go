package models

import "errors"

var (
	// ErrRunNotFound 切分记录不存在错误
	ErrRunNotFound = errors.New("split run not found")

	// ErrInvalidPartition 无效的切分名称错误
	ErrInvalidPartition = errors.New("invalid partition")
)
