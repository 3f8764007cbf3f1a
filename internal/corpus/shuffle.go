package corpus

import "math/rand/v2"

// NewRand 根据种子创建本次运行独占的随机数生成器
// 相同种子总是产生相同的随机序列
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// Shuffle 使用种子派生的伪随机排列原地打乱语料
func Shuffle(c Corpus, seed int64) {
	ShuffleWith(c, NewRand(seed))
}

// ShuffleWith 使用给定的随机数生成器原地打乱语料
func ShuffleWith(c Corpus, rng *rand.Rand) {
	rng.Shuffle(len(c), func(i, j int) {
		c[i], c[j] = c[j], c[i]
	})
}

// ShuffleIndexed 打乱带原始位置的句子序列
func ShuffleIndexed(items []IndexedSentence, seed int64) {
	rng := NewRand(seed)
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
