package core

import "context"

// quietKey marks contexts whose callers own stdout.
type quietKey struct{}

// WithSuppressHeader marks ctx so views print no header lines. MCP and HTTP
// handlers wrap every request with it.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey{}, true)
}

func shouldSuppressHeader(ctx context.Context) bool {
	quiet, _ := ctx.Value(quietKey{}).(bool)
	return quiet
}
