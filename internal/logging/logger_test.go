package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestFromCore_FieldsAndNames(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromCore(core).Named("reel").With(String("run_label", "craft_chebi"))

	log.Named("matcher").Info("matched",
		Int("candidates", 3),
		Float64("score", 0.9),
		Bool("cached", true),
		Duration("elapsed", time.Second),
		Err(errors.New("boom")))

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, "reel.matcher", e.LoggerName)
	assert.Equal(t, zapcore.InfoLevel, e.Level)
	ctx := e.ContextMap()
	assert.Equal(t, "craft_chebi", ctx["run_label"])
	assert.Equal(t, int64(3), ctx["candidates"])
	assert.Equal(t, 0.9, ctx["score"])
	assert.Equal(t, true, ctx["cached"])
	assert.Equal(t, time.Second, ctx["elapsed"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestFromCore_LevelFilter(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := NewFromCore(core)
	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")
	log.Error("shown")
	assert.Equal(t, 2, logs.Len())
}

func TestNew_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reel.log")
	log, err := New(Config{Level: "info", Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)

	log.Debug("dropped")
	log.Info("run finished", String("run_label", "run_1"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"run finished"`)
	assert.Contains(t, string(data), `"run_label":"run_1"`)
	assert.Contains(t, string(data), `"logger":"reel"`)
	assert.NotContains(t, string(data), "dropped")
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger().Named("x").With(String("k", "v"))
	log.Error("ignored")
	assert.NoError(t, log.Sync())
}
