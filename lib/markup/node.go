// Package markup is the tree representation of a template source file.
//
// A template is HTML interleaved with html/template actions. Parse turns the
// source into a tree of Fragment, Element, Text, Action and Comment nodes;
// passes rewrite the tree; Print turns it back into template source. Printing
// an unmodified tree reproduces the source, apart from the spacing around
// "=" in attributes and actions placed directly against an attribute.
package markup

import "strings"

// Node is a node of a template tree.
type Node interface {
	Print(p *PrintContext)
}

// Fragment is an ordered run of sibling nodes. The root of a parsed template
// is a Fragment.
type Fragment struct {
	Children []Node
}

// Print prints every child in order.
func (f *Fragment) Print(p *PrintContext) {
	for _, child := range f.Children {
		child.Print(p)
	}
}

// Element is an HTML element, including component tags such as <ui:alert>.
type Element struct {
	// Name is the tag name as written, e.g. "ui:alert:warning".
	Name string

	// Attributes holds *Attribute nodes and *Text fragments. Text fragments
	// carry the whitespace and template actions found between attributes.
	Attributes []Node

	// Content is nil for void and self-closing elements.
	Content *Fragment

	SelfClosing bool
	Void        bool

	// Unclosed is set when the source had no end tag for the element.
	Unclosed bool
}

// Print prints the element, its attributes and its content.
func (e *Element) Print(p *PrintContext) {
	p.WriteString("<")
	p.WriteString(e.Name)
	afterText := false
	for _, attr := range e.Attributes {
		switch a := attr.(type) {
		case *Attribute:
			if !afterText && !p.endsWithSpace() {
				p.WriteString(" ")
			}
			a.Print(p)
			afterText = false
		case *Text:
			if a.Content == "" {
				continue
			}
			if !p.endsWithSpace() && !startsWithSpace(a.Content) {
				p.WriteString(" ")
			}
			a.Print(p)
			afterText = true
		default:
			attr.Print(p)
			afterText = false
		}
	}
	if e.SelfClosing {
		p.WriteString("/>")
		return
	}
	p.WriteString(">")
	if e.Void {
		return
	}
	if e.Content != nil {
		e.Content.Print(p)
	}
	if !e.Unclosed {
		p.WriteString("</")
		p.WriteString(e.Name)
		p.WriteString(">")
	}
}

// Attribute returns the first attribute with the given name.
func (e *Element) Attribute(name string) (*Attribute, bool) {
	for _, node := range e.Attributes {
		if a, ok := node.(*Attribute); ok && strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return nil, false
}

// Tag returns the lower-cased element name.
func (e *Element) Tag() string {
	return strings.ToLower(e.Name)
}

// Children returns the element's content nodes.
func (e *Element) Children() []Node {
	if e.Content == nil {
		return nil
	}
	return e.Content.Children
}

// Attribute is a single name[=value] pair inside a start tag.
type Attribute struct {
	Name string

	// Value is the raw value as written, entities are not decoded.
	Value    string
	HasValue bool

	// Quote is the quote character used in the source, or 0 when unquoted.
	Quote byte
}

// Print prints the attribute without a leading separator.
func (a *Attribute) Print(p *PrintContext) {
	p.WriteString(a.Name)
	if !a.HasValue {
		return
	}
	p.WriteString("=")
	if a.Quote != 0 {
		p.WriteByte(a.Quote)
		p.WriteString(a.Value)
		p.WriteByte(a.Quote)
		return
	}
	p.WriteString(a.Value)
}

// Text is literal template text. Content is raw: entities are not decoded.
type Text struct {
	Content string
}

// Print writes the text verbatim.
func (t *Text) Print(p *PrintContext) {
	p.WriteString(t.Content)
}

// IsWhitespace reports whether the text holds nothing but whitespace.
func (t *Text) IsWhitespace() bool {
	return strings.TrimSpace(t.Content) == ""
}

// Action is an html/template action such as {{.Title}} or {{if .Ok}}.
type Action struct {
	Source string
}

// Print writes the action verbatim.
func (a *Action) Print(p *PrintContext) {
	p.WriteString(a.Source)
}

// Comment is an HTML comment or doctype, kept verbatim.
type Comment struct {
	Raw string
}

// Print writes the comment verbatim.
func (c *Comment) Print(p *PrintContext) {
	p.WriteString(c.Raw)
}

func startsWithSpace(s string) bool {
	return s != "" && isSpace(s[0])
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
