package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	defaultLogger *Logger
	mu            sync.RWMutex
)

// Context keys for oracle metadata carried through blocking calls.
type backendIDKeyType struct{}
type shotInfoKeyType struct{}

var (
	backendIDKey = backendIDKeyType{}
	shotInfoKey  = shotInfoKeyType{}
)

// WithBackendID annotates the context with the oracle backend handling the call.
func WithBackendID(ctx context.Context, backendID string) context.Context {
	return context.WithValue(ctx, backendIDKey, backendID)
}

// GetBackendID retrieves the oracle backend ID from context.
func GetBackendID(ctx context.Context) (string, bool) {
	backendID, ok := ctx.Value(backendIDKey).(string)
	return backendID, ok
}

// WithShotInfo annotates the context with shot usage for the current task.
func WithShotInfo(ctx context.Context, info *ShotInfo) context.Context {
	return context.WithValue(ctx, shotInfoKey, info)
}

// GetShotInfo retrieves shot usage from context.
func GetShotInfo(ctx context.Context) (*ShotInfo, bool) {
	info, ok := ctx.Value(shotInfoKey).(*ShotInfo)
	return info, ok
}

// Logger provides the core logging functionality.
type Logger struct {
	mu         sync.Mutex
	severity   Severity
	outputs    []Output
	sampleRate uint32                 // For high-frequency event sampling
	fields     map[string]interface{} // Default fields for all logs
}

// Output interface allows for different logging destinations.
type Output interface {
	Write(LogEntry) error
	Sync() error
	Close() error
}

// Config allows flexible logger configuration.
type Config struct {
	Severity      Severity
	Outputs       []Output
	SampleRate    uint32
	DefaultFields map[string]interface{}
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg Config) *Logger {
	return &Logger{
		severity:   cfg.Severity,
		outputs:    cfg.Outputs,
		sampleRate: cfg.SampleRate,
		fields:     cfg.DefaultFields,
	}
}

// logf is the core logging function that handles all severity levels.
func (l *Logger) logf(ctx context.Context, s Severity, format string, args ...interface{}) {
	// Early severity check for performance
	if s < l.severity {
		return
	}

	// Get caller information
	pc, file, line, _ := runtime.Caller(2)
	fn := runtime.FuncForPC(pc).Name()

	// Create base entry
	entry := LogEntry{
		Time:     time.Now().UnixNano(),
		Severity: s,
		Message:  fmt.Sprintf(format, args...),
		File:     filepath.Base(file),
		Line:     line,
		Function: filepath.Base(fn),
		Fields:   make(map[string]interface{}),
	}

	// Add context values if present
	if ctx != nil {
		if backendID, ok := GetBackendID(ctx); ok {
			entry.BackendID = backendID
		}

		if shotInfo, ok := GetShotInfo(ctx); ok {
			entry.ShotInfo = shotInfo
		}
	}

	// Add default fields
	for k, v := range l.fields {
		if _, exists := entry.Fields[k]; !exists {
			entry.Fields[k] = v
		}
	}

	// Write to all outputs
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, out := range l.outputs {
		if err := out.Write(entry); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
		}
	}
}

// OracleTask logs a completed oracle task at debug level with its shot usage.
func (l *Logger) OracleTask(ctx context.Context, backend string, shots int, latency time.Duration) {
	if l.severity > DEBUG {
		return
	}

	l.Debug(ctx, "Oracle task: backend=%s, shots=%d, latency=%v", backend, shots, latency)
}

// Regular severity-based logging methods.
func (l *Logger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.logf(ctx, DEBUG, format, args...)
}

func (l *Logger) Info(ctx context.Context, format string, args ...interface{}) {
	l.logf(ctx, INFO, format, args...)
}

func (l *Logger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.logf(ctx, WARN, format, args...)
}

func (l *Logger) Error(ctx context.Context, format string, args ...interface{}) {
	l.logf(ctx, ERROR, format, args...)
}

// GetLogger returns the global logger instance.
func GetLogger() *Logger {
	// First try reading without a write lock
	mu.RLock()
	if l := defaultLogger; l != nil {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	// If no logger exists, create one with write lock
	mu.Lock()
	defer mu.Unlock()

	if defaultLogger == nil {
		// Create default logger with reasonable defaults
		defaultLogger = NewLogger(Config{
			Severity: INFO,
			Outputs: []Output{
				NewConsoleOutput(false),
			},
		})
	}

	return defaultLogger
}

// SetLogger allows setting a custom configured logger as the global instance.
func SetLogger(l *Logger) {
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}
