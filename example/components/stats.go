package components

import (
	"context"

	"github.com/pthm/tagview"
)

const statsTemplate = `<dl class="stats">
	<dt>Total</dt><dd>{{.Total}}</dd>
	<dt>Pending</dt><dd>{{.Pending}}</dd>
	<dt>Completed</dt><dd>{{.Completed}}</dd>
</dl>`

// Stats summarises the store.
type Stats struct {
	tagview.Base
	tagview.Splice

	stats TodoStats
}

// Build reads the statistics from the store.
func (c *Stats) Build(_ context.Context, services tagview.Services) error {
	s, err := store(services)
	if err != nil {
		return err
	}
	c.stats = s.Stats()
	return nil
}

func (c *Stats) Compile(ctx context.Context, compiler *tagview.Compiler) (string, error) {
	return compiler.RenderSource(ctx, statsTemplate, c.stats)
}
