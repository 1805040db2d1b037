package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(l *ConsoleLogger)
		level string
		msg   string
	}{
		{"info", func(l *ConsoleLogger) { l.Info("hello world") }, "INFO", "hello world"},
		{"warn", func(l *ConsoleLogger) { l.Warn("careful") }, "WARN", "careful"},
		{"error", func(l *ConsoleLogger) { l.Error("broken") }, "ERROR", "broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newConsoleLogger(&buf, false))

			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), tt.msg)
		})
	}
}

func TestConsoleLogger_Debug_Verbose(t *testing.T) {
	var buf bytes.Buffer
	newConsoleLogger(&buf, true).Debug("debug msg")

	assert.Contains(t, buf.String(), "DEBUG")
}

func TestConsoleLogger_Debug_NotVerbose(t *testing.T) {
	var buf bytes.Buffer
	newConsoleLogger(&buf, false).Debug("debug msg")

	assert.Empty(t, buf.String())
}

func TestConsoleLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newConsoleLogger(&buf, false)

	child := logger.WithFields(StringField("bank", "sets.yaml"))
	child.Info("loaded", IntField("cases", 3))

	out := buf.String()
	assert.Contains(t, out, "bank=sets.yaml")
	assert.Contains(t, out, "cases=3")
}

func TestConsoleLogger_LogEvaluation(t *testing.T) {
	var buf bytes.Buffer
	logger := newConsoleLogger(&buf, false)

	logger.LogEvaluation(EvaluationLog{
		Phrase: "to satisfy", Subject: "Set([ 1 ])", Passed: true,
	})
	assert.Empty(t, buf.String())

	logger.LogEvaluation(EvaluationLog{
		Phrase: "to satisfy", Subject: "Set([ 1 ])",
		Actual: 1, Criteria: 2,
	})
	assert.Contains(t, buf.String(), "FAIL to satisfy")
	assert.Contains(t, buf.String(), "criteria=2")
}

func TestConsoleLogger_WithLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true).WithLevel(LevelWarn)

	logger.Debug("debug msg")
	logger.Info("info msg")
	assert.Empty(t, buf.String())

	logger.WithFields(StringField("k", "v")).Warn("warn msg")
	assert.Contains(t, buf.String(), "warn msg")
	assert.Contains(t, buf.String(), "k=v")
}

func TestConsoleLogger_Close(t *testing.T) {
	assert.NoError(t, NewConsoleLogger(false).Close())
}
