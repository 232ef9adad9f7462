package nodes

import (
	"strings"

	"github.com/pthm/tagview/lib/markup"
	"github.com/pthm/tagview/lib/preformat"
)

// ComponentNode is a leaf splice node printing a call of the component
// template function. It has no children of its own.
type ComponentNode struct {
	Name    string
	Payload Payload
	Mode    CacheMode

	defines []markup.Define
	call    string
}

// NewComponentNode captures the element behind nc as a call of component
// name.
func NewComponentNode(name string, nc *NodeCompiler, mode CacheMode) (*ComponentNode, error) {
	payload := nc.Payload()
	call, err := Exporter{}.Call(name, payload, mode)
	if err != nil {
		return nil, err
	}
	return &ComponentNode{
		Name:    name,
		Payload: payload,
		Mode:    mode,
		defines: nc.Defines(),
		call:    call,
	}, nil
}

// Call returns the printed call action.
func (n *ComponentNode) Call() string {
	return n.call
}

// Defines returns the sub-templates the call depends on.
func (n *ComponentNode) Defines() []markup.Define {
	return n.defines
}

// Print writes the call and registers its sub-templates.
func (n *ComponentNode) Print(p *markup.PrintContext) {
	for _, d := range n.defines {
		p.Define(d.Name, d.Body)
	}
	p.WriteString(n.call)
}

// StaticNode is html rendered at compile time and baked into the template.
type StaticNode struct {
	HTML string
}

// NewStaticNode returns a StaticNode holding html.
func NewStaticNode(html string) *StaticNode {
	return &StaticNode{HTML: html}
}

// Print writes the minified html with template delimiters escaped.
func (n *StaticNode) Print(p *markup.PrintContext) {
	p.WriteString(EscapeDelims(Minify(n.HTML)))
}

// Minify normalises the whitespace of html. Markup that cannot be parsed is
// returned unchanged.
func Minify(html string) string {
	root, err := markup.Parse(html)
	if err != nil {
		return html
	}
	preformat.Format(root)
	return markup.Print(root)
}

// EscapeDelims makes literal text safe to embed in template source.
func EscapeDelims(s string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return strings.ReplaceAll(s, "{{", `{{"{{"}}`)
}
