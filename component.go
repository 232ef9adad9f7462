package tagview

import "context"

// Component is a tag-triggered template fragment. Implementations embed Base
// and provide Compile:
//
//	type Alert struct {
//	    tagview.Base
//	    tagview.InnerContent
//	    Type string `arg:"type"`
//	}
//
//	func (a *Alert) Compile(ctx context.Context, c *tagview.Compiler) (string, error) {
//	    return c.RenderSource(ctx, alertTemplate, a)
//	}
//
// Instances are single use: the factory constructs a fresh one for every call
// site, runs Create, the optional Build step, then Render.
type Component interface {
	// Compile produces the component html. It runs at most once per
	// instance.
	Compile(ctx context.Context, c *Compiler) (string, error)

	base() *Base
}

// Base carries the state every component shares. Embed it by value.
type Base struct {
	uniqueID   string
	name       string
	tag        string
	attributes *Attributes
	html       string
	rendered   bool
}

func (b *Base) base() *Base { return b }

// UniqueID returns the identity assigned by Create.
func (b *Base) UniqueID() string {
	return b.uniqueID
}

// Name returns the component name.
func (b *Base) Name() string {
	return b.name
}

// Tag returns the resolved tag, with promoted segments removed.
func (b *Base) Tag() string {
	return b.tag
}

// Attributes returns the attributes of the call site.
func (b *Base) Attributes() *Attributes {
	if b.attributes == nil {
		b.attributes = NewAttributes()
	}
	return b.attributes
}

// Created reports whether Create has run.
func (b *Base) Created() bool {
	return b.uniqueID != ""
}

// Rendered reports whether the html has been produced and memoised.
func (b *Base) Rendered() bool {
	return b.rendered
}
