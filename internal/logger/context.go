package logger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	loggerKey    contextKey = "logger"
)

func NewRequestID() string {
	return uuid.New().String()
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithLogger(ctx, Get().With(slog.String("request_id", requestID)))
}

func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return log
	}
	return Get()
}

func RequestIDFromContext(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// Detach returns a background context that keeps the request's logger and
// id but not its deadline or cancellation. Used for work that outlives the
// request, like click recording after the redirect has been sent.
func Detach(ctx context.Context) context.Context {
	detached := context.Background()
	if reqID := RequestIDFromContext(ctx); reqID != "" {
		detached = context.WithValue(detached, requestIDKey, reqID)
	}
	return WithLogger(detached, FromContext(ctx))
}
