package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// jsonMarshal is a variable for dependency injection in tests.
var jsonMarshal = json.Marshal

// LogEntry represents a single JSON log entry.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LoggerConfig configures the JSONLogger.
type LoggerConfig struct {
	// OutputPath is the log file. Empty means Output, or
	// stderr when Output is nil as well.
	OutputPath string
	// Output overrides the destination when OutputPath is
	// empty.
	Output io.Writer
	// EvaluationLog is an optional file receiving one JSON
	// line per assertion evaluation.
	EvaluationLog string
	Level         LogLevel
	Verbose       bool
	Fields        map[string]any
}

// JSONLogger implements Logger with JSON Lines output.
type JSONLogger struct {
	mu            sync.Mutex
	output        io.Writer
	evaluationLog io.Writer
	level         LogLevel
	fields        map[string]any
	verbose       bool
	closed        bool
}

// NewJSONLogger creates a new JSON logger.
func NewJSONLogger(config LoggerConfig) (*JSONLogger, error) {
	logger := &JSONLogger{
		level:   config.Level,
		verbose: config.Verbose,
		fields:  config.Fields,
	}

	if logger.fields == nil {
		logger.fields = make(map[string]any)
	}

	switch {
	case config.OutputPath != "":
		file, err := openAppend(config.OutputPath)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to open log file: %w", err,
			)
		}
		logger.output = file
	case config.Output != nil:
		logger.output = config.Output
	default:
		logger.output = os.Stderr
	}

	if config.EvaluationLog != "" {
		file, err := openAppend(config.EvaluationLog)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to open evaluation log: %w", err,
			)
		}
		logger.evaluationLog = file
	}

	return logger, nil
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf(
			"failed to create log directory: %w", err,
		)
	}
	return os.OpenFile(
		path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644,
	)
}

func (l *JSONLogger) log(
	level LogLevel, msg string, fields ...Field,
) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
		Fields:    make(map[string]any, len(l.fields)+len(fields)),
	}

	for k, v := range l.fields {
		entry.Fields[k] = v
	}
	for _, f := range fields {
		entry.Fields[f.Key] = f.Value
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return
	}

	fmt.Fprintln(l.output, string(data))
}

// Info logs an informational message.
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

// Debug logs a debug message only if verbose is enabled.
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	if l.verbose {
		l.log(LevelDebug, msg, fields...)
	}
}

// WithFields returns a new Logger with additional default
// fields. The returned logger shares the writers of l.
func (l *JSONLogger) WithFields(fields ...Field) Logger {
	newFields := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for _, f := range fields {
		newFields[f.Key] = f.Value
	}

	return &JSONLogger{
		output:        l.output,
		evaluationLog: l.evaluationLog,
		level:         l.level,
		verbose:       l.verbose,
		fields:        newFields,
	}
}

// LogEvaluation writes entry to the dedicated evaluation log.
// Without one, failed evaluations are logged at warn level and
// passing ones at debug level.
func (l *JSONLogger) LogEvaluation(entry EvaluationLog) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().Format(time.RFC3339Nano)
	}

	if l.evaluationLog == nil {
		fields := []Field{
			StringField("phrase", entry.Phrase),
			IntField("actual", entry.Actual),
			IntField("criteria", entry.Criteria),
			BoolField("passed", entry.Passed),
		}
		if entry.Passed {
			l.Debug("assertion evaluated", fields...)
		} else {
			l.Warn("assertion failed", fields...)
		}
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return
	}

	fmt.Fprintln(l.evaluationLog, string(data))
}

// Close flushes and closes all underlying files.
func (l *JSONLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true

	var errs []error

	if f, ok := l.output.(*os.File); ok &&
		f != os.Stdout && f != os.Stderr {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if closer, ok := l.evaluationLog.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
