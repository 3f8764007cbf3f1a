package corpus

import "strings"

// Record 一行标注数据，按空白切分后的token序列（例如词及其标签）
type Record []string

// Sentence 句子，由若干Record组成，源文件中以空行结束
// Record的顺序即token位置，必须保持不变
type Sentence []Record

// Corpus 语料，句子按读取顺序排列，直到被打乱
type Corpus []Sentence

// IndexedSentence 带有原始读取位置的句子
type IndexedSentence struct {
	Index    int      // 在输入文件中的位置（从0开始）
	Sentence Sentence // 句子内容
}

// String 返回Record的文本形式，token之间以单个空格分隔
func (r Record) String() string {
	return strings.Join(r, " ")
}

// Len 返回句子中的Record数量
func (s Sentence) Len() int {
	return len(s)
}

// Equal 判断两个句子是否逐token一致
func (s Sentence) Equal(other Sentence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if len(s[i]) != len(other[i]) {
			return false
		}
		for j := range s[i] {
			if s[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}
