package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records operational events that should survive log filtering,
// such as server lifecycle transitions.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
