package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Partition 句子被分配到的切分
type Partition string

const (
	// PartitionTrain 训练集
	PartitionTrain Partition = "train"
	// PartitionDev 开发集
	PartitionDev Partition = "dev"
	// PartitionTest 测试集
	PartitionTest Partition = "test"
)

// Valid 判断切分名称是否有效
func (p Partition) Valid() bool {
	switch p {
	case PartitionTrain, PartitionDev, PartitionTest:
		return true
	default:
		return false
	}
}

// SplitRun 一次切分运行的清单
// 记录输入、种子、比例以及各切分的句子数量，用于复现与审计
type SplitRun struct {
	ID         string         `gorm:"primaryKey;size:36"` // 运行ID（UUID）
	InputPath  string         `gorm:"not null"`           // 输入路径
	TrainPath  string         `gorm:"not null"`           // 训练集输出路径
	DevPath    string         `gorm:"not null"`           // 开发集输出路径
	TestPath   string         `gorm:"not null"`           // 测试集输出路径
	Seed       int64          `gorm:"not null;index"`     // 随机种子
	TrainRatio float64        `gorm:"not null"`           // 训练集比例
	DevRatio   float64        `gorm:"not null"`           // 开发集比例
	Total      int            `gorm:"not null;default:0"` // 句子总数
	TrainCount int            `gorm:"not null;default:0"` // 训练集句子数
	DevCount   int            `gorm:"not null;default:0"` // 开发集句子数
	TestCount  int            `gorm:"not null;default:0"` // 测试集句子数
	Options    datatypes.JSON `gorm:"type:json"`          // 其他运行选项，JSON格式
	CreatedAt  time.Time      `gorm:"not null;index"`     // 创建时间
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (r *SplitRun) BeforeCreate(tx *gorm.DB) (err error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}

// TableName 明确指定表名
func (SplitRun) TableName() string {
	return "split_runs"
}

// SentenceAssignment 单个句子的切分归属
type SentenceAssignment struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`                     // 主键ID
	RunID       string    `gorm:"not null;size:36;index"`                       // 所属运行ID
	SourceIndex int       `gorm:"not null"`                                     // 句子在输入中的位置
	Position    int       `gorm:"not null"`                                     // 句子打乱后的位置
	Partition   Partition `gorm:"column:partition_name;not null;size:10;index"` // 所属切分
	Records     int       `gorm:"not null;default:0"`                           // 句子包含的行数
}

// TableName 明确指定表名
func (SentenceAssignment) TableName() string {
	return "sentence_assignments"
}
