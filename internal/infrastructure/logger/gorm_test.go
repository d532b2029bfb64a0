package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

// newObservedGormLogger builds a GormLogger writing into an observer core
func newObservedGormLogger(level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level), recorded
}

func selectStatement() (string, int64) {
	return "SELECT * FROM listing_mappings WHERE source_product_id = ?", 1
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)

	clone := gl.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gl.level)
	require.IsType(t, &GormLogger{}, clone)
	assert.Equal(t, gormlogger.Warn, clone.(*GormLogger).level)
}

func TestGormLogger_Levels(t *testing.T) {
	t.Run("info formats through sugar", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		gl.Info(context.Background(), "migrating %s", "listing_mappings")

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "migrating listing_mappings", entries[0].Message)
	})

	t.Run("silent suppresses everything", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Silent)
		gl.Info(context.Background(), "dropped")
		gl.Warn(context.Background(), "dropped")
		gl.Error(context.Background(), "dropped")

		assert.Empty(t, recorded.All())
	})

	t.Run("warn level passes warnings and errors only", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Warn)
		gl.Info(context.Background(), "dropped")
		gl.Warn(context.Background(), "kept warning")
		gl.Error(context.Background(), "kept error")

		entries := recorded.All()
		require.Len(t, entries, 2)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	})
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("failed statements log with the error", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)
		gl.Trace(context.Background(), time.Now(), selectStatement, errors.New("connection reset"))

		entries := recorded.FilterMessage("Query failed").All()
		require.Len(t, entries, 1)

		fields := entries[0].ContextMap()
		assert.Contains(t, fields["sql"], "listing_mappings")
		assert.Equal(t, int64(1), fields["rows"])
	})

	t.Run("record-not-found misses stay silent", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)
		gl.Trace(context.Background(), time.Now(), selectStatement, gormlogger.ErrRecordNotFound)

		assert.Empty(t, recorded.All())
	})

	t.Run("slow statements warn with the threshold", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Warn)
		gl.slow = time.Nanosecond

		gl.Trace(context.Background(), time.Now().Add(-time.Second), selectStatement, nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Contains(t, entries[0].Message, "Slow query")
	})

	t.Run("healthy statements log at debug", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		gl.Trace(context.Background(), time.Now(), selectStatement, nil)

		entries := recorded.FilterMessage("Query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	})

	t.Run("silent traces nothing", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Silent)
		gl.Trace(context.Background(), time.Now(), selectStatement, nil)

		assert.Empty(t, recorded.All())
	})

	t.Run("request ID from context is attached", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-7")

		gl.Trace(ctx, time.Now(), selectStatement, nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}
