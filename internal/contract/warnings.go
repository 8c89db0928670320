package contract

import (
	"context"
	"sync"

	"github.com/huangsam/incentive/schema"
)

type warningsKey struct{}

// Warnings gathers the ingestion warnings of one load. It is safe for the
// concurrent fetches of that load to report into it.
type Warnings struct {
	mu   sync.Mutex
	list []schema.DataWarning
}

// WithWarnings returns a child context that collects the warnings reported
// under it into the returned Warnings.
func WithWarnings(ctx context.Context) (context.Context, *Warnings) {
	ws := &Warnings{}
	return context.WithValue(ctx, warningsKey{}, ws), ws
}

// ReportWarnings adds ws to the collector carried by ctx. Warnings reported
// outside a collecting context are dropped.
func ReportWarnings(ctx context.Context, ws []schema.DataWarning) {
	if len(ws) == 0 {
		return
	}
	c, ok := ctx.Value(warningsKey{}).(*Warnings)
	if !ok {
		return
	}
	c.mu.Lock()
	c.list = append(c.list, ws...)
	c.mu.Unlock()
}

// List returns a copy of the warnings collected so far.
func (c *Warnings) List() []schema.DataWarning {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.list) == 0 {
		return nil
	}
	return append([]schema.DataWarning(nil), c.list...)
}
