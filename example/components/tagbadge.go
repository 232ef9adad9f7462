package components

import (
	"context"

	"github.com/pthm/tagview"
)

// TagBadge labels a todo with one of its tags. The kind is given as an
// attribute or promoted from the tag:
//
//	<ui:tag kind="work"></ui:tag>
//	<tag:urgent></tag:urgent>
type TagBadge struct {
	tagview.Base
	tagview.Splice

	Kind string `arg:"kind"`
}

func (c *TagBadge) Compile(ctx context.Context, compiler *tagview.Compiler) (string, error) {
	return compiler.RenderSource(ctx, `<span class="tag tag-{{.}}">{{.}}</span>`, c.Kind)
}
