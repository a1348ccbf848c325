package repository

import "context"

// KV reads the process-wide config table (bot version, error channel).
// Read-only at runtime; rows are maintained by hand.
type KV interface {
	Get(ctx context.Context, name string) (string, error)
}
