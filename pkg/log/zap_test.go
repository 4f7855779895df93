package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConsoleLoggerWritesBareMessage(t *testing.T) {
	var buffer bytes.Buffer
	console := NewConsoleLogger(&buffer)

	console.Info("10:15:00 - Start Background Work")
	console.Info("10:15:01 - Stop Background Work")

	assert.Equal(t, "10:15:00 - Start Background Work\n10:15:01 - Stop Background Work\n", buffer.String())
}

func TestReplaceLoggerRestoresPrevious(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := ReplaceLogger(zap.New(core))

	Info("info", zap.String("key", "value"))
	Errorf("failed %s", "hard")
	SchedulerLogger{}.Warn("scheduler warn", "job", "background-work")

	restore()
	Info("not observed")

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, "info", entries[0].Message)
		assert.Equal(t, "value", entries[0].ContextMap()["key"])
		assert.Equal(t, "failed hard", entries[1].Message)
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Equal(t, "scheduler warn", entries[2].Message)
		assert.Equal(t, "background-work", entries[2].ContextMap()["job"])
	}
}
