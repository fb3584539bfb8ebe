// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// SetLogger replaces the logger used by the repository and outbound-call helpers.
func SetLogger(l *slog.Logger) {
	if l != nil {
		GlobalLogger = &Logger{Logger: l}
	}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// CorrelationID is the context key carrying the correlation ID of a request.
const CorrelationID LogContextKey = "correlation_id"

// LoggingConfig defines which types of automated logging are enabled.
type LoggingConfig struct {
	EnableCorrelationID bool
	EnableRepoLogging   bool
}

// Config holds the current logging configuration.
var Config = LoggingConfig{
	EnableCorrelationID: true,
	EnableRepoLogging:   true,
}

// GenerateCorrelationID creates a new unique correlation ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if !Config.EnableCorrelationID {
		return ctx
	}
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationID).(string); ok {
		return id
	}
	return ""
}

// RepoLogger provides structured logging for store operations.
type RepoLogger struct {
	store      string
	collection string
	logger     *Logger
}

// NewRepoLogger creates a new RepoLogger for the given store driver and table or collection.
func NewRepoLogger(store, collection string) *RepoLogger {
	return &RepoLogger{store: store, collection: collection}
}

func (l *RepoLogger) log() *Logger {
	if l.logger != nil {
		return l.logger
	}
	return GlobalLogger
}

func (l *RepoLogger) attrs(ctx context.Context, operation string, fields map[string]any) []any {
	attrs := []any{
		slog.String("store", l.store),
		slog.String("collection", l.collection),
		slog.String("operation", operation),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

// LogRead logs a store read. Reads are frequent, so they are logged at debug level.
func (l *RepoLogger) LogRead(ctx context.Context, fields map[string]any) {
	if !Config.EnableRepoLogging {
		return
	}
	l.log().DebugContext(ctx, "repository read", l.attrs(ctx, "read", fields)...)
}

// LogCreate logs a store insert.
func (l *RepoLogger) LogCreate(ctx context.Context, fields map[string]any) {
	if !Config.EnableRepoLogging {
		return
	}
	l.log().InfoContext(ctx, "repository create", l.attrs(ctx, "create", fields)...)
}

// LogUpdate logs a store update.
func (l *RepoLogger) LogUpdate(ctx context.Context, fields map[string]any) {
	if !Config.EnableRepoLogging {
		return
	}
	l.log().InfoContext(ctx, "repository update", l.attrs(ctx, "update", fields)...)
}

// LogError logs a failed store operation.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	if !Config.EnableRepoLogging || err == nil {
		return
	}
	attrs := append(l.attrs(ctx, operation, nil), slog.String("error", err.Error()))
	l.log().ErrorContext(ctx, "repository error", attrs...)
}
