package corpus

import (
	"bufio"
	"io"
	"os"
)

// WriterConfig 写入器配置
type WriterConfig struct {
	Name string // 目标名称，用于错误信息
	// SentenceSeparator 在每个句子后追加空行
	// 默认关闭以保持原有输出格式：不关闭时，重新读取输出文件会把句子合并在一起
	SentenceSeparator bool
}

// WriterOption 写入器配置选项
type WriterOption func(*WriterConfig)

// WithTarget 设置目标名称
func WithTarget(name string) WriterOption {
	return func(c *WriterConfig) {
		c.Name = name
	}
}

// WithSentenceSeparator 设置是否在句子之间写入空行
func WithSentenceSeparator(enabled bool) WriterOption {
	return func(c *WriterConfig) {
		c.SentenceSeparator = enabled
	}
}

// Writer 将句子序列化为文本
// 每个Record一行，每个token后跟一个空格
type Writer struct {
	w      *bufio.Writer
	config WriterConfig
	count  int
}

// NewWriter 创建写入器
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	cfg := WriterConfig{Name: "<output>"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Writer{
		w:      bufio.NewWriter(w),
		config: cfg,
	}
}

// Write 写入一个句子
func (w *Writer) Write(s Sentence) error {
	for _, record := range s {
		for _, token := range record {
			if _, err := w.w.WriteString(token); err != nil {
				return newIOError("write", w.config.Name, err)
			}
			if err := w.w.WriteByte(' '); err != nil {
				return newIOError("write", w.config.Name, err)
			}
		}
		if err := w.w.WriteByte('\n'); err != nil {
			return newIOError("write", w.config.Name, err)
		}
	}
	if w.config.SentenceSeparator {
		if err := w.w.WriteByte('\n'); err != nil {
			return newIOError("write", w.config.Name, err)
		}
	}
	w.count++
	return nil
}

// WriteAll 依次写入所有句子并刷新缓冲
func (w *Writer) WriteAll(sentences []Sentence) error {
	for _, s := range sentences {
		if err := w.Write(s); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush 刷新缓冲区
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return newIOError("write", w.config.Name, err)
	}
	return nil
}

// Count 返回已写入的句子数量
func (w *Writer) Count() int {
	return w.count
}

// WriteFile 创建或覆盖文件并写入句子
func WriteFile(path string, sentences []Sentence, opts ...WriterOption) error {
	file, err := os.Create(path)
	if err != nil {
		return newIOError("create", path, err)
	}

	writer := NewWriter(file, append([]WriterOption{WithTarget(path)}, opts...)...)
	if err := writer.WriteAll(sentences); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return newIOError("close", path, err)
	}
	return nil
}
