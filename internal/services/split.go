package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fyerfyer/tagsplit/internal/corpus"
	"github.com/fyerfyer/tagsplit/internal/logging"
	"github.com/fyerfyer/tagsplit/internal/models"
	"github.com/fyerfyer/tagsplit/internal/repository"
	"github.com/fyerfyer/tagsplit/pkg/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// SplitRequest 一次切分请求
type SplitRequest struct {
	InputPath string // 输入语料路径
	TrainPath string // 训练集输出路径
	DevPath   string // 开发集输出路径
	TestPath  string // 测试集输出路径
	Seed      int64  // 随机种子
}

// OutputPath 返回切分对应的输出路径
func (r SplitRequest) OutputPath(name corpus.Name) string {
	switch name {
	case corpus.Train:
		return r.TrainPath
	case corpus.Dev:
		return r.DevPath
	case corpus.Test:
		return r.TestPath
	default:
		return ""
	}
}

// Result 切分结果摘要
type Result struct {
	RunID  string              // 运行ID
	Total  int                 // 输入句子总数
	Counts map[corpus.Name]int // 各切分句子数量
}

// SplitService 切分服务
// 负责协调语料读取、打乱、切分、写出以及清单记录
type SplitService struct {
	storage           storage.Storage            // 输入输出存储
	repo              repository.SplitRepository // 切分清单仓储，为nil时不记录
	ratios            corpus.Ratios              // 切分比例
	skipEmpty         bool                       // 丢弃空句子
	separateSentences bool                       // 句子之间写入空行
	logger            *logrus.Logger             // 日志记录器
}

// SplitOption 切分服务配置选项
type SplitOption func(*SplitService)

// NewSplitService 创建一个新的切分服务
func NewSplitService(store storage.Storage, opts ...SplitOption) *SplitService {
	srv := &SplitService{
		storage: store,
		ratios:  corpus.DefaultRatios(), // 默认80/10/10
		logger:  logging.GetLogger(),    // 默认日志记录器
	}

	// 应用配置选项
	for _, opt := range opts {
		opt(srv)
	}

	return srv
}

// WithRatios 设置切分比例
func WithRatios(ratios corpus.Ratios) SplitOption {
	return func(s *SplitService) {
		s.ratios = ratios
	}
}

// WithSkipEmpty 设置是否丢弃空句子
func WithSkipEmpty(skip bool) SplitOption {
	return func(s *SplitService) {
		s.skipEmpty = skip
	}
}

// WithSentenceSeparator 设置句子之间是否写入空行
func WithSentenceSeparator(enabled bool) SplitOption {
	return func(s *SplitService) {
		s.separateSentences = enabled
	}
}

// WithRepository 设置切分清单仓储
func WithRepository(repo repository.SplitRepository) SplitOption {
	return func(s *SplitService) {
		s.repo = repo
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) SplitOption {
	return func(s *SplitService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Split 执行完整的切分流程：读取 → 打乱 → 切分 → 写出
func (s *SplitService) Split(ctx context.Context, req SplitRequest) (*Result, error) {
	if err := s.ratios.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.New().String()
	log := s.logger.WithFields(logrus.Fields{
		logging.FieldRunID: runID,
		logging.FieldSeed:  req.Seed,
	})

	// 1. 读取语料
	items, err := s.read(ctx, req.InputPath)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		logging.FieldPath:      req.InputPath,
		logging.FieldSentences: len(items),
	}).Debug("Corpus loaded")

	// 2. 使用种子打乱，保留原始位置用于清单
	corpus.ShuffleIndexed(items, req.Seed)
	shuffled := make(corpus.Corpus, len(items))
	for i, item := range items {
		shuffled[i] = item.Sentence
	}

	// 3. 切分
	split, err := corpus.PartitionRatios(shuffled, s.ratios)
	if err != nil {
		return nil, err
	}

	// 4. 写出三个切分
	result := &Result{
		RunID:  runID,
		Total:  len(shuffled),
		Counts: make(map[corpus.Name]int, len(corpus.Names)),
	}
	for _, name := range corpus.Names {
		path := req.OutputPath(name)
		sentences := split.Get(name)
		if err := s.write(ctx, path, sentences); err != nil {
			return nil, err
		}
		result.Counts[name] = len(sentences)
		log.WithFields(logrus.Fields{
			logging.FieldPartition: name,
			logging.FieldPath:      path,
			logging.FieldSentences: len(sentences),
		}).Debug("Partition written")
	}

	// 5. 记录清单
	if s.repo != nil {
		if err := s.saveManifest(runID, req, items, result); err != nil {
			return nil, fmt.Errorf("failed to save manifest: %w", err)
		}
	}

	log.WithFields(logrus.Fields{
		logging.FieldSentences: result.Total,
		"train":                result.Counts[corpus.Train],
		"dev":                  result.Counts[corpus.Dev],
		"test":                 result.Counts[corpus.Test],
		logging.FieldLatency:   time.Since(start).String(),
	}).Info("Corpus split completed")

	return result, nil
}

// read 从存储读取语料并附加原始位置
func (s *SplitService) read(ctx context.Context, path string) ([]corpus.IndexedSentence, error) {
	rc, err := s.storage.Open(ctx, path)
	if err != nil {
		return nil, &corpus.IOError{Op: "open", Path: path, Err: err}
	}
	defer rc.Close()

	return corpus.ReadAllIndexed(rc,
		corpus.WithName(path),
		corpus.WithSkipEmpty(s.skipEmpty),
	)
}

// write 创建或覆盖输出路径并写入句子
func (s *SplitService) write(ctx context.Context, path string, sentences []corpus.Sentence) error {
	wc, err := s.storage.Create(ctx, path)
	if err != nil {
		return &corpus.IOError{Op: "create", Path: path, Err: err}
	}

	w := corpus.NewWriter(wc,
		corpus.WithTarget(path),
		corpus.WithSentenceSeparator(s.separateSentences),
	)
	if err := w.WriteAll(sentences); err != nil {
		wc.Close()
		return err
	}

	if err := wc.Close(); err != nil {
		return &corpus.IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}

// saveManifest 保存运行记录和每个句子的归属
func (s *SplitService) saveManifest(runID string, req SplitRequest, items []corpus.IndexedSentence, result *Result) error {
	options, err := json.Marshal(map[string]interface{}{
		"skip_empty":         s.skipEmpty,
		"separate_sentences": s.separateSentences,
	})
	if err != nil {
		return err
	}

	run := &models.SplitRun{
		ID:         runID,
		InputPath:  req.InputPath,
		TrainPath:  req.TrainPath,
		DevPath:    req.DevPath,
		TestPath:   req.TestPath,
		Seed:       req.Seed,
		TrainRatio: s.ratios.Train,
		DevRatio:   s.ratios.Dev,
		Total:      result.Total,
		TrainCount: result.Counts[corpus.Train],
		DevCount:   result.Counts[corpus.Dev],
		TestCount:  result.Counts[corpus.Test],
		Options:    datatypes.JSON(options),
	}
	if err := s.repo.CreateRun(run); err != nil {
		return err
	}

	trainEnd := result.Counts[corpus.Train]
	devEnd := trainEnd + result.Counts[corpus.Dev]

	assignments := make([]*models.SentenceAssignment, 0, len(items))
	for pos, item := range items {
		partition := models.PartitionTest
		switch {
		case pos < trainEnd:
			partition = models.PartitionTrain
		case pos < devEnd:
			partition = models.PartitionDev
		}
		assignments = append(assignments, &models.SentenceAssignment{
			RunID:       runID,
			SourceIndex: item.Index,
			Position:    pos,
			Partition:   partition,
			Records:     item.Sentence.Len(),
		})
	}
	return s.repo.SaveAssignments(assignments)
}
