package tagview

import (
	"context"

	"github.com/pthm/tagview/lib/markup"
	"github.com/pthm/tagview/lib/nodes"
)

// ContentHolder is implemented by components that accept nested content.
// Embed InnerContent to implement it.
//
// Passing content to a component that is not a ContentHolder is a contract
// violation: Create fails with ErrContentNotSupported.
type ContentHolder interface {
	SetContent(content *Content)
}

// InnerContent implements ContentHolder.
type InnerContent struct {
	content *Content
}

// SetContent stores the content. Called by Create.
func (ic *InnerContent) SetContent(content *Content) {
	ic.content = content
}

// Content returns the stored content, never nil.
func (ic *InnerContent) Content() *Content {
	if ic.content == nil {
		ic.content = NewContent()
	}
	return ic.content
}

// Builder is implemented by components with a build step. Build runs after
// Create and before Render and may pull services the component needs.
//
//	func (c *UserCard) Build(ctx context.Context, s tagview.Services) error {
//	    users, ok := s.Lookup("users")
//	    ...
//	}
type Builder interface {
	Build(ctx context.Context, services Services) error
}

// NodeProvider is implemented by components that can be spliced into a
// compiled template as a call rendered per request. Embed Splice to
// implement it.
type NodeProvider interface {
	Node(ctx context.Context, rec *Record, nc *nodes.NodeCompiler) (markup.Node, error)
}

// Splice implements NodeProvider with a call that renders the component
// every time the template executes, cached according to the record.
type Splice struct{}

// Node captures the element behind nc as a component call.
func (Splice) Node(_ context.Context, rec *Record, nc *nodes.NodeCompiler) (markup.Node, error) {
	return nodes.NewComponentNode(rec.Name, nc, nodes.CacheAuto)
}

// FixedTagger is implemented by components that always render the same
// element. The fixed tag replaces the tag of the call site.
type FixedTagger interface {
	FixedTag() string
}

// Namer overrides the name derived from the component type.
type Namer interface {
	ComponentName() string
}

// ArgumentNormalizer may rewrite arguments after tag promotion and before
// they are bound.
type ArgumentNormalizer interface {
	NormalizeArguments(args *Arguments) error
}

// ArgumentBinder binds named arguments without reflection. The generator
// writes implementations; handled is false for names the binder does not
// know, which then fall back to reflective binding.
type ArgumentBinder interface {
	BindArgument(name string, value any) (handled bool, err error)
}

// Services is the service locator handed to build steps.
type Services interface {
	Lookup(name string) (any, bool)
}

// ServiceMap is a Services backed by a map.
type ServiceMap map[string]any

// Lookup returns the service registered under name.
func (m ServiceMap) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Container constructs components by class identity.
type Container interface {
	New(class string) (Component, bool)
}

// HasBuildStep reports whether c declares a build step.
func HasBuildStep(c Component) bool {
	_, ok := c.(Builder)
	return ok
}
