package repository

import (
	"errors"
	"fmt"

	"github.com/fyerfyer/tagsplit/internal/models"
	"gorm.io/gorm"
)

// 批量插入时每批的行数
const assignmentBatchSize = 500

// ErrNoDatabase 未提供数据库连接
var ErrNoDatabase = errors.New("database connection cannot be nil")

// splitRepository 切分清单仓储实现
type splitRepository struct {
	db *gorm.DB // 数据库连接
}

// NewSplitRepository 使用指定的数据库连接创建仓储实例
func NewSplitRepository(db *gorm.DB) (SplitRepository, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}
	return &splitRepository{db: db}, nil
}

// CreateRun 创建运行记录
func (r *splitRepository) CreateRun(run *models.SplitRun) error {
	if run.ID == "" {
		return errors.New("run ID cannot be empty")
	}
	return r.db.Create(run).Error
}

// GetRun 根据ID获取运行记录
func (r *splitRepository) GetRun(id string) (*models.SplitRun, error) {
	var run models.SplitRun
	err := r.db.Where("id = ?", id).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrRunNotFound, id)
		}
		return nil, err
	}
	return &run, nil
}

// SaveAssignments 批量保存句子归属
func (r *splitRepository) SaveAssignments(assignments []*models.SentenceAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	for _, a := range assignments {
		if a.RunID == "" {
			return errors.New("assignment run ID cannot be empty")
		}
		if !a.Partition.Valid() {
			return fmt.Errorf("%w: %q", models.ErrInvalidPartition, a.Partition)
		}
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(assignments, assignmentBatchSize).Error
	})
}

// ListAssignments 获取运行的句子归属
func (r *splitRepository) ListAssignments(runID string, partition models.Partition) ([]*models.SentenceAssignment, error) {
	var assignments []*models.SentenceAssignment

	query := r.db.Where("run_id = ?", runID)
	if partition != "" {
		if !partition.Valid() {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidPartition, partition)
		}
		query = query.Where("partition_name = ?", partition)
	}

	err := query.Order("position ASC").Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// CountByPartition 统计运行中各切分的句子数量
func (r *splitRepository) CountByPartition(runID string) (map[models.Partition]int64, error) {
	var rows []struct {
		PartitionName models.Partition
		Count         int64
	}

	err := r.db.Model(&models.SentenceAssignment{}).
		Select("partition_name, COUNT(*) AS count").
		Where("run_id = ?", runID).
		Group("partition_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[models.Partition]int64{
		models.PartitionTrain: 0,
		models.PartitionDev:   0,
		models.PartitionTest:  0,
	}
	for _, row := range rows {
		counts[row.PartitionName] = row.Count
	}
	return counts, nil
}
