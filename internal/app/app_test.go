package app

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fyerfyer/tagsplit/internal/corpus"
	"github.com/fyerfyer/tagsplit/internal/database"
	"github.com/fyerfyer/tagsplit/internal/models"
	"github.com/fyerfyer/tagsplit/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleCorpus 生成n个句子的语料文本
func sampleCorpus(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "tok%d NN B-NP\nend%d . O\n\n", i, i)
	}
	return b.String()
}

type cliEnv struct {
	dir                     string
	input, train, dev, test string
}

func newCLIEnv(t *testing.T, n int) *cliEnv {
	dir := t.TempDir()
	env := &cliEnv{
		dir:   dir,
		input: filepath.Join(dir, "corpus.txt"),
		train: filepath.Join(dir, "train.txt"),
		dev:   filepath.Join(dir, "dev.txt"),
		test:  filepath.Join(dir, "test.txt"),
	}
	require.NoError(t, os.WriteFile(env.input, []byte(sampleCorpus(n)), 0644))
	return env
}

func (e *cliEnv) args(extra ...string) []string {
	return append([]string{e.input, e.train, e.dev, e.test}, extra...)
}

func execute(t *testing.T, args []string) (int, string) {
	var stdout, stderr bytes.Buffer
	code := Run(args, strings.NewReader(""), &stdout, &stderr)
	return code, stderr.String()
}

func countSentences(t *testing.T, path string) int {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// 每个句子两行
	return strings.Count(string(data), "\n") / 2
}

func TestRunSuccess(t *testing.T) {
	env := newCLIEnv(t, 10)

	code, stderr := execute(t, env.args("--seed", "42", "--log-level", "error"))
	require.Equal(t, ExitOK, code, stderr)

	assert.Equal(t, 8, countSentences(t, env.train))
	assert.Equal(t, 1, countSentences(t, env.dev))
	assert.Equal(t, 1, countSentences(t, env.test))
}

// TestRunFlagBeforePositionals 测试参数可以出现在位置参数之前
func TestRunFlagBeforePositionals(t *testing.T) {
	env := newCLIEnv(t, 10)
	args := append([]string{"--seed=3", "--log-level=error"}, env.args()...)

	code, stderr := execute(t, args)
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, 8, countSentences(t, env.train))
}

func TestRunDeterministic(t *testing.T) {
	env := newCLIEnv(t, 40)

	code, _ := execute(t, env.args("--seed=-5", "--log-level=error"))
	require.Equal(t, ExitOK, code)
	first, err := os.ReadFile(env.train)
	require.NoError(t, err)

	code, _ = execute(t, env.args("--seed=-5", "--log-level=error"))
	require.Equal(t, ExitOK, code)
	second, err := os.ReadFile(env.train)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunArgumentErrors(t *testing.T) {
	env := newCLIEnv(t, 3)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing seed", args: env.args(), want: "--seed"},
		{name: "invalid seed", args: env.args("--seed", "abc"), want: "seed"},
		{name: "too few positionals", args: []string{env.input, env.train, "--seed", "1"}, want: "expected 4"},
		{name: "too many positionals", args: append(env.args("--seed", "1"), "extra"), want: "expected 4"},
		{name: "unknown flag", args: env.args("--seed", "1", "--bogus"), want: "bogus"},
		{name: "bad log level", args: env.args("--seed", "1", "--log-level", "loud"), want: "invalid config"},
		{name: "missing config file", args: env.args("--seed", "1", "--config", filepath.Join(env.dir, "nope.yaml")), want: "config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stderr := execute(t, tt.args)
			assert.Equal(t, ExitArgument, code)
			assert.Contains(t, stderr, tt.want)
			assert.Contains(t, stderr, "--help")

			// 参数错误不应产生任何输出文件
			_, err := os.Stat(env.train)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestRunIOErrors(t *testing.T) {
	env := newCLIEnv(t, 3)

	t.Run("unreadable input", func(t *testing.T) {
		missing := filepath.Join(env.dir, "missing.txt")
		code, stderr := execute(t, []string{missing, env.train, env.dev, env.test, "--seed", "1"})
		assert.Equal(t, ExitFailure, code)
		assert.Contains(t, stderr, missing)
	})

	t.Run("unwritable output", func(t *testing.T) {
		bad := filepath.Join(env.dir, "missing-dir", "test.txt")
		code, stderr := execute(t, []string{env.input, env.train, env.dev, bad, "--seed", "1", "--log-level", "error"})
		assert.Equal(t, ExitFailure, code)
		assert.Contains(t, stderr, bad)
	})
}

func TestRunStdinAndGzip(t *testing.T) {
	env := newCLIEnv(t, 10)

	t.Run("stdin", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := Run([]string{"-", env.train, env.dev, env.test, "--seed", "1", "--log-level", "error"},
			strings.NewReader(sampleCorpus(20)), &stdout, &stderr)
		require.Equal(t, ExitOK, code, stderr.String())
		assert.Equal(t, 16, countSentences(t, env.train))
	})

	t.Run("gzip", func(t *testing.T) {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		_, err := gw.Write([]byte(sampleCorpus(30)))
		require.NoError(t, err)
		require.NoError(t, gw.Close())

		input := filepath.Join(env.dir, "corpus.txt.gz")
		require.NoError(t, os.WriteFile(input, buf.Bytes(), 0644))

		code, stderr := execute(t, []string{input, env.train, env.dev, env.test, "--seed", "1", "--log-level", "error"})
		require.Equal(t, ExitOK, code, stderr)
		assert.Equal(t, 24, countSentences(t, env.train))
		assert.Equal(t, 3, countSentences(t, env.test))
	})
}

func TestRunSeparateSentences(t *testing.T) {
	env := newCLIEnv(t, 10)

	code, _ := execute(t, env.args("--seed", "9", "--separate-sentences", "--log-level", "error"))
	require.Equal(t, ExitOK, code)

	// 带空行分隔的输出可以无损读回
	train, err := corpus.ReadFile(env.train)
	require.NoError(t, err)
	assert.Len(t, train, 8)
}

// TestRunEmptyLogLevel 空的日志级别按info处理
func TestRunEmptyLogLevel(t *testing.T) {
	env := newCLIEnv(t, 10)

	code, stderr := execute(t, env.args("--seed", "7", "--log-level", ""))
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, 8, countSentences(t, env.train))
}

func TestRunWithConfigFile(t *testing.T) {
	env := newCLIEnv(t, 20)
	cfgPath := filepath.Join(env.dir, "tagsplit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("split:\n  train_ratio: 0.5\n  dev_ratio: 0.25\nlog:\n  level: error\n"), 0644))

	code, stderr := execute(t, env.args("--seed", "1", "--config", cfgPath))
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, 10, countSentences(t, env.train))
	assert.Equal(t, 5, countSentences(t, env.dev))
	assert.Equal(t, 5, countSentences(t, env.test))
}

func TestRunWithManifest(t *testing.T) {
	env := newCLIEnv(t, 10)
	dsn := filepath.Join(env.dir, "manifest.db")

	code, stderr := execute(t, env.args("--seed", "42", "--manifest", dsn, "--log-level", "error"))
	require.Equal(t, ExitOK, code, stderr)

	db, err := database.Open(&database.Config{Type: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	defer database.Close(db)

	var runs []*models.SplitRun
	require.NoError(t, db.Find(&runs).Error)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(42), runs[0].Seed)
	assert.Equal(t, 8, runs[0].TrainCount)
	assert.Equal(t, env.input, runs[0].InputPath)

	repo, err := repository.NewSplitRepository(db)
	require.NoError(t, err)
	counts, err := repo.CountByPartition(runs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), counts[models.PartitionTrain])
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"--help"}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout.String(), "--seed")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitArgument, ExitCode(&ArgumentError{Err: errors.New("x")}))
	assert.Equal(t, ExitArgument, ExitCode(fmt.Errorf("wrapped: %w", &ArgumentError{Err: errors.New("x")})))
	assert.Equal(t, ExitFailure, ExitCode(&corpus.IOError{Op: "open", Path: "p", Err: errors.New("x")}))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("other")))
}
