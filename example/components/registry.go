package components

import (
	"context"
	"fmt"

	"github.com/pthm/tagview"
)

// Register adds the todo components to reg.
func Register(reg *tagview.Registry) error {
	return reg.Register(
		tagview.Describe(tagview.Descriptor{
			Tags: []string{"todos"},
			New:  func() tagview.Component { return &TodoList{} },
		}),
		tagview.Describe(tagview.Descriptor{
			Tags: []string{"todo"},
			New:  func() tagview.Component { return &TodoItem{} },
		}),
		tagview.Describe(tagview.Descriptor{
			Tags: []string{"tag:{kind}"},
			New:  func() tagview.Component { return &TagBadge{} },
		}),
		tagview.Describe(tagview.Descriptor{
			Tags: []string{"stats"},
			New:  func() tagview.Component { return &Stats{} },
		}),
		tagview.Describe(tagview.Descriptor{
			Render: tagview.RenderStatic,
			Tags:   []string{"brand"},
			New:    func() tagview.Component { return &Brand{} },
		}),
	)
}

// store pulls the todo store from the build services.
func store(services tagview.Services) (TodoStore, error) {
	s, ok := services.Lookup(StoreService)
	if !ok {
		return nil, fmt.Errorf("service %q not registered", StoreService)
	}
	ts, ok := s.(TodoStore)
	if !ok {
		return nil, fmt.Errorf("service %q is a %T, not a TodoStore", StoreService, s)
	}
	return ts, nil
}

// Brand is the site name. It never changes, so it renders once at compile
// time.
type Brand struct {
	tagview.Base
}

func (b *Brand) Compile(context.Context, *tagview.Compiler) (string, error) {
	return `<a class="brand" href="/">Todos</a>`, nil
}
