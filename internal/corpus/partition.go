package corpus

import "fmt"

const (
	// DefaultTrainRatio 训练集默认比例
	DefaultTrainRatio = 0.8
	// DefaultDevRatio 开发集默认比例
	DefaultDevRatio = 0.1
)

// Name 切分名称
type Name string

const (
	// Train 训练集
	Train Name = "train"
	// Dev 开发集
	Dev Name = "dev"
	// Test 测试集
	Test Name = "test"
)

// Names 按输出顺序排列的切分名称
var Names = []Name{Train, Dev, Test}

// Ratios 切分比例，测试集比例为剩余部分
type Ratios struct {
	Train float64
	Dev   float64
}

// DefaultRatios 返回80/10/10的默认比例
func DefaultRatios() Ratios {
	return Ratios{Train: DefaultTrainRatio, Dev: DefaultDevRatio}
}

// Validate 检查比例是否合法
func (r Ratios) Validate() error {
	if r.Train < 0 || r.Dev < 0 || r.Train+r.Dev > 1 {
		return fmt.Errorf("%w: train=%v dev=%v", ErrInvalidRatio, r.Train, r.Dev)
	}
	return nil
}

// Range 半开区间 [Start, End)
type Range struct {
	Start int
	End   int
}

// Len 返回区间长度
func (r Range) Len() int {
	return r.End - r.Start
}

// Bounds 计算长度为n的语料的三个切分区间
// 边界为先乘后截断：train=[0,⌊0.8n⌋) dev=[⌊0.8n⌋,⌊0.9n⌋) test=[⌊0.9n⌋,n)
func Bounds(n int, ratios Ratios) (train, dev, test Range, err error) {
	if err = ratios.Validate(); err != nil {
		return
	}

	trainEnd := int(ratios.Train * float64(n))
	devEnd := int((ratios.Train + ratios.Dev) * float64(n))
	if devEnd < trainEnd {
		devEnd = trainEnd
	}

	train = Range{Start: 0, End: trainEnd}
	dev = Range{Start: trainEnd, End: devEnd}
	test = Range{Start: devEnd, End: n}
	return
}

// Split 切分结果，三个切片共享底层语料
type Split struct {
	Train []Sentence
	Dev   []Sentence
	Test  []Sentence
}

// Get 按名称返回切分
func (s Split) Get(name Name) []Sentence {
	switch name {
	case Train:
		return s.Train
	case Dev:
		return s.Dev
	case Test:
		return s.Test
	default:
		return nil
	}
}

// Partition 按默认比例将语料切分为训练、开发、测试三部分
func Partition(c Corpus) Split {
	split, _ := PartitionRatios(c, DefaultRatios())
	return split
}

// PartitionRatios 按给定比例切分语料
func PartitionRatios(c Corpus, ratios Ratios) (Split, error) {
	train, dev, test, err := Bounds(len(c), ratios)
	if err != nil {
		return Split{}, err
	}
	return Split{
		Train: c[train.Start:train.End],
		Dev:   c[dev.Start:dev.End],
		Test:  c[test.Start:test.End],
	}, nil
}
