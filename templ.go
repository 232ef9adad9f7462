package tagview

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/pthm/tagview/lib/nodes"
)

// Templ returns a templ.Component rendering the component identified by a
// name, class identity or tag. It lets templ pages embed tag components:
//
//	templ Page() {
//	    @views.Templ("alert", tagview.Arguments{Content: []string{"Saved"}})
//	}
//
// Rendering goes through Factory.Render, so an unknown component renders
// nothing.
func (c *Compiler) Templ(name string, args Arguments) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, c.factory.Render(ctx, c, name, args, nodes.CacheAuto))
		return err
	})
}

// View returns a templ.Component rendering a view with data.
func (c *Compiler) View(view string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := c.Render(ctx, view, data)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// Raw returns component html as a templ.Component, for example the result
// of Render inside a templ page.
func Raw(html string) templ.Component {
	return templ.Raw(html)
}
