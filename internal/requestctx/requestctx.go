// Package requestctx carries the acting caller through a request context.
package requestctx

import (
	"context"
	"strings"
)

// CallerHeader names the caller identity on HTTP requests and gRPC metadata.
const CallerHeader = "X-Caller-ID"

type callerKey struct{}

func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey{}, strings.TrimSpace(caller))
}

// Caller returns the caller stored by WithCaller, or "".
func Caller(ctx context.Context) string {
	s, _ := ctx.Value(callerKey{}).(string)
	return s
}
