package log

import (
	"os"
	"path/filepath"
	"testing"

	"blogd/app/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	conf := &config.Config{AppName: "blogd", Logger: config.LoggerConfig{Level: "warn", Dir: dir}}

	logger, err := NewLogger(conf)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger.Warn("written")
	_, err = os.Stat(filepath.Join(dir, "blogd.log"))
	assert.NoError(t, err)
}

func TestNewLogger_DebugOverridesLevel(t *testing.T) {
	logger, err := NewLogger(&config.Config{Debug: true, Logger: config.LoggerConfig{Level: "error"}})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger(&config.Config{Logger: config.LoggerConfig{Level: "loud"}})
	assert.Error(t, err)
}

func TestErrorWithTraceID(t *testing.T) {
	logger, hook := test.NewNullLogger()

	id := ErrorWithTraceID(logger, Fields{RequestIDKey: "req-1"}, "failed")
	assert.Equal(t, "req-1", id)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "req-1", hook.LastEntry().Data["trace_id"])

	id = ErrorWithTraceID(logger, nil, "failed again")
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
