package services

import "context"

type contextKey string

const (
	channelKey   contextKey = "channel"
	operationKey contextKey = "operation"
	requestIDKey contextKey = "request_id"
)

// WithChannel annotates context with the device channel being operated on.
func WithChannel(ctx context.Context, channel int) context.Context {
	return context.WithValue(ctx, channelKey, channel)
}

// ChannelFromContext extracts the channel if present.
func ChannelFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(channelKey).(int)
	return v, ok
}

// WithOperation annotates context with the engine operation name.
func WithOperation(ctx context.Context, op string) context.Context {
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, op)
}

// OperationFromContext returns the operation name if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(operationKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
