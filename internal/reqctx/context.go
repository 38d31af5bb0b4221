package reqctx

import "context"

type ctxKey string

const keyRID ctxKey = "rid"

// WithRID stores the request correlation id used in log lines.
func WithRID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, keyRID, rid)
}

// RID returns correlation id if present.
func RID(ctx context.Context) string {
	v, _ := ctx.Value(keyRID).(string)
	return v
}
