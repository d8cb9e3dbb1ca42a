package ghost

import (
	"context"
)

// HeaderName carries the caller ghost id on every protected request
const HeaderName = "X-REPCHECK-GHOST"

type ctxKey struct{}

func ContextWithID(ctx context.Context, ghostID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, ghostID)
}

func IDFromContext(ctx context.Context) (string, bool) {
	ghostID, ok := ctx.Value(ctxKey{}).(string)
	return ghostID, ok && ghostID != ""
}
