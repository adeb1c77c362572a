package payments

import "context"

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// WithCorrelationID stamps the request's correlation ID onto the context so
// it is recorded on every transaction the request creates
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey, id)
}

func correlationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}
