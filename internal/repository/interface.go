package repository

import "github.com/fyerfyer/tagsplit/internal/models"

// SplitRepository 切分清单仓储接口
// 负责切分运行记录及句子归属的存储和检索
type SplitRepository interface {
	// CreateRun 创建运行记录
	CreateRun(run *models.SplitRun) error

	// GetRun 根据ID获取运行记录
	GetRun(id string) (*models.SplitRun, error)

	// SaveAssignments 批量保存句子归属
	SaveAssignments(assignments []*models.SentenceAssignment) error

	// ListAssignments 获取运行的句子归属，可按切分过滤，按打乱后的位置排序
	ListAssignments(runID string, partition models.Partition) ([]*models.SentenceAssignment, error)

	// CountByPartition 统计运行中各切分的句子数量
	CountByPartition(runID string) (map[models.Partition]int64, error)
}
