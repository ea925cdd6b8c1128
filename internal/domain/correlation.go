package domain

import "context"

type correlationKey struct{}

// WithCorrelationID tags ctx so that outgoing API calls and logs share id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
