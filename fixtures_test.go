package tagview

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/pthm/tagview/lib/views"
)

const alertClass = "github.com/pthm/tagview.Alert"

// Alert holds content, promotes its type from the tag and renders per
// request.
type Alert struct {
	Base
	InnerContent
	Splice

	Type        string `arg:"type"`
	dismissible bool
}

func (a *Alert) Dismissible() { a.dismissible = true }

func (a *Alert) IsDismissible() bool { return a.dismissible }

func (a *Alert) Compile(ctx context.Context, c *Compiler) (string, error) {
	return c.RenderSource(ctx, `<div class="alert alert-{{.Type}}">{{.Content.HTML}}</div>`, a)
}

// Logo is static: it renders once, at compile time.
type Logo struct {
	Base
}

func (l *Logo) Compile(context.Context, *Compiler) (string, error) {
	return `<img src="/logo.svg" alt="logo">`, nil
}

// Badge takes no content.
type Badge struct {
	Base
	Splice

	Label string `arg:"label"`
}

func (b *Badge) Compile(context.Context, *Compiler) (string, error) {
	return "<span>" + template.HTMLEscapeString(b.Label) + "</span>", nil
}

// Greeting pulls its greeting from services.
type Greeting struct {
	Base
	Splice

	Who      string `arg:"who"`
	greeting string
}

func (g *Greeting) Build(_ context.Context, s Services) error {
	v, ok := s.Lookup("greeting")
	if !ok {
		return errors.New("no greeting service")
	}
	g.greeting = v.(string)
	return nil
}

func (g *Greeting) Compile(context.Context, *Compiler) (string, error) {
	return "<p>" + template.HTMLEscapeString(g.greeting+", "+g.Who) + "</p>", nil
}

// Broken panics while compiling.
type Broken struct {
	Base
	Splice
}

func (b *Broken) Compile(context.Context, *Compiler) (string, error) {
	panic("boom")
}

// Failing returns a compile error.
type Failing struct {
	Base
	Splice
}

func (f *Failing) Compile(context.Context, *Compiler) (string, error) {
	return "", errors.New("template missing")
}

// Counter counts its renders across instances.
type Counter struct {
	Base
	Splice

	calls *int
}

func (c *Counter) Compile(context.Context, *Compiler) (string, error) {
	*c.calls++
	return fmt.Sprintf("<i>%d</i>", *c.calls), nil
}

// Widget names itself.
type Widget struct {
	Base
}

func (w *Widget) ComponentName() string { return "fancy:widget" }

func (w *Widget) Compile(context.Context, *Compiler) (string, error) { return "<b>widget</b>", nil }

// Button always renders a button element.
type Button struct {
	Base
	InnerContent
}

func (b *Button) FixedTag() string { return "button" }

func (b *Button) Compile(context.Context, *Compiler) (string, error) {
	return "<button>" + b.Content().String() + "</button>", nil
}

// testDescriptors registers the fixtures. calls counts Counter renders.
func testDescriptors(calls *int) []Descriptor {
	return []Descriptor{
		{Tags: []string{"alert:{type}"}, New: func() Component { return &Alert{} }},
		{Tags: []string{"logo"}, Render: RenderStatic, New: func() Component { return &Logo{} }},
		{Tags: []string{"badge"}, New: func() Component { return &Badge{} }},
		{Tags: []string{"greeting"}, New: func() Component { return &Greeting{} }},
		{Tags: []string{"broken"}, New: func() Component { return &Broken{} }},
		{Tags: []string{"failing"}, New: func() Component { return &Failing{} }},
		{Tags: []string{"counter"}, New: func() Component { return &Counter{calls: calls} }},
	}
}

func newTestRegistry(t *testing.T, opts ...Option) (*Registry, *int) {
	t.Helper()
	calls := new(int)
	reg := NewRegistry(opts...)
	require.NoError(t, reg.Register(testDescriptors(calls)...))
	return reg, calls
}

func newTestCompiler(t *testing.T, fsys fstest.MapFS, opts ...Option) (*Compiler, *int) {
	t.Helper()
	reg, calls := newTestRegistry(t, opts...)
	loader := views.New()
	if fsys != nil {
		require.NoError(t, loader.AddDir(fsys, "test", 0))
	}
	opts = append([]Option{WithLoader(loader)}, opts...)
	return NewCompiler(NewFactory(reg, opts...), opts...), calls
}
