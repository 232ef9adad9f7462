// Package nodes turns component elements of a parsed template into splice
// nodes.
//
// A NodeCompiler reduces one element to a Payload: its tag as written, its
// attributes and its content. The Exporter writes the payload into a call of
// the component template function, and a ComponentNode carries that call into
// the printed template. Values holding template actions cannot be captured as
// literals; they are moved into sub-templates named after a hash of their
// body and referenced from the payload. Variables such values read from the
// enclosing scope, $ included, are passed along by the call.
package nodes

import (
	"html"
	"slices"
	"strings"

	"github.com/pthm/tagview/lib/encoding"
	"github.com/pthm/tagview/lib/markup"
)

// DefinePrefix prefixes the names of generated sub-templates.
const DefinePrefix = "tv."

// NodeCompiler captures the arguments of one component element.
type NodeCompiler struct {
	element *markup.Element
	defines []markup.Define
	seen    map[string]struct{}
	vars    []string
}

// NewNodeCompiler returns a NodeCompiler for el.
func NewNodeCompiler(el *markup.Element) *NodeCompiler {
	return &NodeCompiler{
		element: el,
		seen:    map[string]struct{}{},
	}
}

// Element returns the element being compiled.
func (nc *NodeCompiler) Element() *markup.Element {
	return nc.element
}

// Tag returns the tag as written in the template source.
func (nc *NodeCompiler) Tag() string {
	return nc.element.Name
}

// Attributes returns the element attributes in source order. Text fragments
// between attributes, including actions, are not captured.
func (nc *NodeCompiler) Attributes() []Attr {
	var attrs []Attr
	for _, n := range nc.element.Attributes {
		a, ok := n.(*markup.Attribute)
		if !ok {
			continue
		}
		if !a.HasValue {
			attrs = append(attrs, Attr{Name: a.Name, Bare: true})
			continue
		}
		attrs = append(attrs, Attr{Name: a.Name, Value: nc.value(a.Value, true)})
	}
	return attrs
}

// Content returns the element content reduced to values. Every child element
// or splice node is one value and the text between them another. Content
// holding an action is kept whole, since actions may open a block that a
// later sibling closes.
func (nc *NodeCompiler) Content() []Value {
	children := nc.element.Children()
	if len(children) == 0 {
		return nil
	}

	for _, child := range children {
		if _, ok := child.(*markup.Action); ok {
			return nc.values(nc.print(children...))
		}
	}

	var (
		out  []Value
		text []markup.Node
	)
	flush := func() {
		if len(text) == 0 {
			return
		}
		out = append(out, nc.values(nc.print(text...))...)
		text = text[:0]
	}
	for _, child := range children {
		switch child.(type) {
		case *markup.Text, *markup.Comment:
			text = append(text, child)
		default:
			flush()
			out = append(out, nc.values(nc.print(child))...)
		}
	}
	flush()
	return out
}

// Payload returns the tag, attributes and content of the element.
func (nc *NodeCompiler) Payload() Payload {
	p := Payload{
		Tag:        nc.Tag(),
		Attributes: nc.Attributes(),
		Content:    nc.Content(),
	}
	p.Vars = nc.Variables()
	return p
}

// Variables returns the enclosing scope variables the dynamic values read,
// in the order the call passes them.
func (nc *NodeCompiler) Variables() []string {
	return nc.vars
}

// Defines returns the sub-templates created so far, including those of
// nested splice nodes, in the order they must be defined.
func (nc *NodeCompiler) Defines() []markup.Define {
	return nc.defines
}

func (nc *NodeCompiler) print(nodes ...markup.Node) string {
	p := markup.NewPrintContext()
	for _, n := range nodes {
		n.Print(p)
	}
	for _, d := range p.Defines() {
		nc.define(d.Name, d.Body)
	}
	return p.String()
}

func (nc *NodeCompiler) values(body string) []Value {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	return []Value{nc.value(body, false)}
}

// value captures raw source. Literal attribute values are entity-decoded so
// the component receives the text the author meant.
func (nc *NodeCompiler) value(raw string, attribute bool) Value {
	if !strings.Contains(raw, "{{") {
		if attribute {
			return Value{Text: html.UnescapeString(raw)}
		}
		return Value{Text: raw}
	}
	name := DefinePrefix + encoding.SumString(raw)
	free := FreeVariables(raw)
	if len(free) == 0 {
		nc.define(name, raw)
		return Value{Template: name}
	}
	nc.define(name, scoped(raw, free))
	for _, v := range free {
		if !slices.Contains(nc.vars, v) {
			nc.vars = append(nc.vars, v)
		}
	}
	return Value{Template: name, Scoped: true}
}

func (nc *NodeCompiler) define(name, body string) {
	if _, ok := nc.seen[name]; ok {
		return
	}
	nc.seen[name] = struct{}{}
	nc.defines = append(nc.defines, markup.Define{Name: name, Body: body})
}
