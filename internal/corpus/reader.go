package corpus

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"unicode"
)

// ReaderConfig 读取器配置
type ReaderConfig struct {
	Name      string // 数据源名称，用于错误信息
	SkipEmpty bool   // 是否丢弃连续空行产生的空句子
}

// ReaderOption 读取器配置选项
type ReaderOption func(*ReaderConfig)

// WithName 设置数据源名称
func WithName(name string) ReaderOption {
	return func(c *ReaderConfig) {
		c.Name = name
	}
}

// WithSkipEmpty 设置是否丢弃空句子
func WithSkipEmpty(skip bool) ReaderOption {
	return func(c *ReaderConfig) {
		c.SkipEmpty = skip
	}
}

// Reader 逐行解析标注数据，按句子迭代
// 非空行切分为Record追加到当前句子，空行结束当前句子
// 行结束符可以是 \n、\r\n 或单独的 \r
type Reader struct {
	r      *bufio.Reader
	config ReaderConfig
	buf    Sentence
	done   bool
	count  int // 已解析的句子数，包括被丢弃的空句子
	index  int // 最近一次返回的句子在输入中的位置
}

// NewReader 创建读取器
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	cfg := ReaderConfig{Name: "<input>"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Reader{
		r:      bufio.NewReader(r),
		config: cfg,
	}
}

// Next 返回下一个句子，读取结束时返回io.EOF
func (r *Reader) Next() (Sentence, error) {
	for {
		s, err := r.next()
		if err != nil {
			return nil, err
		}
		r.index = r.count
		r.count++
		if r.config.SkipEmpty && len(s) == 0 {
			continue
		}
		return s, nil
	}
}

// Index 返回最近一次Next返回的句子在输入中的位置（从0开始）
// 被SkipEmpty丢弃的空句子同样占用位置
func (r *Reader) Index() int {
	return r.index
}

// next 读取一个句子，包括连续空行产生的空句子
func (r *Reader) next() (Sentence, error) {
	if r.done {
		return nil, io.EOF
	}

	for {
		line, err := r.readLine()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, newIOError("read", r.config.Name, err)
		}
		eof := err != nil

		if eof && line == "" {
			r.done = true
			// 文件末尾没有空行时，最后一个句子也要输出
			if len(r.buf) > 0 {
				return r.flush(), nil
			}
			return nil, io.EOF
		}

		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line != "" {
			r.buf = append(r.buf, Record(strings.Fields(line)))
			continue
		}
		return r.flush(), nil
	}
}

// readLine 读取一行，保留行结束符
// \n、\r\n和单独的\r都结束一行，没有遇到行结束符就到达末尾时返回io.EOF
func (r *Reader) readLine() (string, error) {
	var line []byte
	for {
		b, err := r.r.ReadByte()
		if err != nil {
			return string(line), err
		}
		line = append(line, b)
		switch b {
		case '\n':
			return string(line), nil
		case '\r':
			if next, err := r.r.Peek(1); err == nil && next[0] == '\n' {
				_, _ = r.r.ReadByte()
				line = append(line, '\n')
			}
			return string(line), nil
		}
	}
}

// flush 取出当前缓冲的句子并重置缓冲
func (r *Reader) flush() Sentence {
	s := r.buf
	if s == nil {
		s = Sentence{}
	}
	r.buf = nil
	return s
}

// ReadAll 读取全部句子
func ReadAll(src io.Reader, opts ...ReaderOption) (Corpus, error) {
	reader := NewReader(src, opts...)
	corpus := Corpus{}
	for {
		s, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return corpus, nil
		}
		if err != nil {
			return nil, err
		}
		corpus = append(corpus, s)
	}
}

// ReadAllIndexed 读取全部句子并附加其在输入中的位置
// 启用SkipEmpty时，被丢弃的空句子仍然占用位置
func ReadAllIndexed(src io.Reader, opts ...ReaderOption) ([]IndexedSentence, error) {
	reader := NewReader(src, opts...)
	items := []IndexedSentence{}
	for {
		s, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return nil, err
		}
		items = append(items, IndexedSentence{Index: reader.Index(), Sentence: s})
	}
}

// ReadFile 从文件路径读取语料
func ReadFile(path string, opts ...ReaderOption) (Corpus, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, newIOError("open", path, err)
	}
	defer file.Close()

	return ReadAll(file, append([]ReaderOption{WithName(path)}, opts...)...)
}
