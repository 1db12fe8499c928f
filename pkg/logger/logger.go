package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level represents logging level
type Level = zerolog.Level

// Logger levels
const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
)

// Config holds logger configuration
type Config struct {
	Level      Level
	TimeFormat string
	Output     io.Writer
}

// Setup configures the process-wide zerolog logger.
func Setup(cfg *Config) {
	if cfg == nil {
		cfg = &Config{
			Level:      InfoLevel,
			TimeFormat: time.RFC3339,
			Output:     os.Stdout,
		}
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat
	log.Logger = zerolog.New(cfg.Output).Level(cfg.Level).With().Timestamp().Logger()
}

type ctxKey struct{}

// WithCorrelationID returns a context carrying a child logger tagged with the
// correlation id. The logger lives only as long as the request context, so
// nothing leaks across requests.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	l := log.With().Str("correlation_id", correlationID).Logger()
	return context.WithValue(ctx, ctxKey{}, &l)
}

// FromContext returns the request-scoped logger, falling back to the process
// logger when the context carries none.
func FromContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
		return l
	}
	return &log.Logger
}

// CorrelationID extracts the correlation id from the request-scoped logger,
// or "" when the context carries none.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return id
	}
	return ""
}

type correlationKey struct{}

// WithCorrelationValue stores the raw correlation id alongside the logger so
// downstream callers can read it back without parsing log state.
func WithCorrelationValue(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationKey{}, correlationID)
}
