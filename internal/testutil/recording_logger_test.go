package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
)

func TestRecordingLoggerCaptures(t *testing.T) {
	t.Parallel()

	log := NewRecordingLogger()
	log.Info("cache invalidated", logging.Int("keys", 3))
	log.Error("upsert failed")

	require.Len(t, log.Entries(), 2)
	assert.True(t, log.Has("info", "cache invalidated"))
	assert.True(t, log.Has("error", "upsert"))
	assert.False(t, log.Has("warn", "upsert"))
	assert.Equal(t, 3, log.Field("info", "cache", "keys"))
}

func TestRecordingLoggerChildrenShareEntries(t *testing.T) {
	t.Parallel()

	log := NewRecordingLogger()
	child := log.Named("worker").With(logging.String("topic", "patent-changes"))
	child.Warn("consumer lag")

	require.Len(t, log.Entries(), 1)
	assert.Equal(t, "patent-changes", log.Field("warn", "consumer lag", "topic"))
}
