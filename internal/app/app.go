// Package app 实现 tagsplit 命令行入口
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/fyerfyer/tagsplit/config"
	"github.com/fyerfyer/tagsplit/internal/corpus"
	"github.com/fyerfyer/tagsplit/internal/database"
	"github.com/fyerfyer/tagsplit/internal/logging"
	"github.com/fyerfyer/tagsplit/internal/repository"
	"github.com/fyerfyer/tagsplit/internal/services"
	"github.com/fyerfyer/tagsplit/pkg/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// options 命令行选项
type options struct {
	seed              int64
	configFile        string
	manifest          string
	logLevel          string
	separateSentences bool
	skipEmpty         bool
}

// Run 解析参数并执行切分，返回进程退出码
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(stdin)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(stderr, "tagsplit: %v\n", err)
		if ExitCode(err) == ExitArgument {
			fmt.Fprintf(stderr, "Run 'tagsplit --help' for usage.\n")
		}
	}
	return ExitCode(err)
}

// NewRootCommand 创建根命令
func NewRootCommand(stdin io.Reader) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "tagsplit INPUT TRAIN DEV TEST --seed N",
		Short: "Split tagging data into train, development and test data",
		Long: `Reads sentences of tagged tokens (one token per line, blank line between
sentences), shuffles them with a seeded random generator and writes the first
80% to TRAIN, the next 10% to DEV and the rest to TEST.

INPUT may be "-" for stdin and may be gzip-compressed (.gz). Any path may be
an object in MinIO written as minio://bucket/object.`,
		Example: `  tagsplit corpus.tag train.tag dev.tag test.tag --seed 42
  tagsplit corpus.tag.gz train.tag dev.tag test.tag --seed 7 --manifest runs.db`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 4 {
				return argumentErrorf("expected 4 positional arguments (INPUT TRAIN DEV TEST), got %d", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args, stdin)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ArgumentError{Err: err}
	})

	flags := cmd.Flags()
	flags.Int64Var(&opts.seed, "seed", 0, "Random seed (required)")
	flags.StringVar(&opts.configFile, "config", "", "Path to config file")
	flags.StringVar(&opts.manifest, "manifest", "", "SQLite database to record the split manifest in")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (trace/debug/info/warn/error)")
	flags.BoolVar(&opts.separateSentences, "separate-sentences", false, "Write a blank line after each sentence")
	flags.BoolVar(&opts.skipEmpty, "skip-empty", false, "Drop empty sentences produced by consecutive blank lines")

	return cmd
}

// run 执行切分
func run(cmd *cobra.Command, opts *options, args []string, stdin io.Reader) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := logging.Setup(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Output:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return &ArgumentError{Err: err}
	}

	store, err := setupStorage(cfg, stdin)
	if err != nil {
		return err
	}

	serviceOptions := []services.SplitOption{
		services.WithLogger(logger),
		services.WithRatios(corpus.Ratios{Train: cfg.Split.TrainRatio, Dev: cfg.Split.DevRatio}),
		services.WithSkipEmpty(cfg.Corpus.SkipEmpty),
		services.WithSentenceSeparator(cfg.Output.SeparateSentences),
	}

	// 启用清单时记录每次切分
	if cfg.Manifest.Enable {
		db, err := database.Open(&database.Config{Type: "sqlite", DSN: cfg.Manifest.DSN}, logger)
		if err != nil {
			return fmt.Errorf("failed to open manifest database: %w", err)
		}
		defer database.Close(db)
		repo, err := repository.NewSplitRepository(db)
		if err != nil {
			return err
		}
		serviceOptions = append(serviceOptions, services.WithRepository(repo))
	}

	svc := services.NewSplitService(store, serviceOptions...)
	result, err := svc.Split(cmd.Context(), services.SplitRequest{
		InputPath: args[0],
		TrainPath: args[1],
		DevPath:   args[2],
		TestPath:  args[3],
		Seed:      opts.seed,
	})
	if err != nil {
		return err
	}

	if cfg.Manifest.Enable {
		logger.WithFields(logrus.Fields{
			logging.FieldRunID: result.RunID,
			logging.FieldPath:  cfg.Manifest.DSN,
		}).Info("Split manifest recorded")
	}
	return nil
}

// resolveConfig 加载配置文件并应用显式设置的命令行参数
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	flags := cmd.Flags()
	if !flags.Changed("seed") {
		return nil, argumentErrorf("required flag --seed not set")
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, &ArgumentError{Err: err}
	}

	// 只覆盖命令行上明确设置的参数
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("separate-sentences") {
		cfg.Output.SeparateSentences = opts.separateSentences
	}
	if flags.Changed("skip-empty") {
		cfg.Corpus.SkipEmpty = opts.skipEmpty
	}
	if opts.manifest != "" {
		cfg.Manifest.Enable = true
		cfg.Manifest.DSN = opts.manifest
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ArgumentError{Err: err}
	}
	return cfg, nil
}

// setupStorage 创建本地存储，配置了MinIO端点时同时启用MinIO
func setupStorage(cfg *config.Config, stdin io.Reader) (storage.Storage, error) {
	local, err := storage.NewLocalStorage(storage.LocalConfig{Stdin: stdin})
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Endpoint == "" {
		return storage.NewRouter(local, nil), nil
	}

	remote, err := storage.NewMinioStorage(storage.MinioConfig{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return storage.NewRouter(local, remote), nil
}
