package markup

import (
	"strconv"
	"strings"
)

// Define is a named sub-template emitted after the main template body.
type Define struct {
	Name string
	Body string
}

// PrintContext collects printed output and sub-template definitions.
type PrintContext struct {
	out     strings.Builder
	defines []Define
	seen    map[string]struct{}
}

// NewPrintContext returns an empty PrintContext.
func NewPrintContext() *PrintContext {
	return &PrintContext{seen: map[string]struct{}{}}
}

// WriteString appends s to the output.
func (p *PrintContext) WriteString(s string) {
	p.out.WriteString(s)
}

// WriteByte appends c to the output.
func (p *PrintContext) WriteByte(c byte) {
	p.out.WriteByte(c)
}

// Define registers a sub-template. Registering the same name twice keeps the
// first body; names are derived from the body so both are equal.
func (p *PrintContext) Define(name, body string) {
	if _, ok := p.seen[name]; ok {
		return
	}
	p.seen[name] = struct{}{}
	p.defines = append(p.defines, Define{Name: name, Body: body})
}

// Defines returns the registered sub-templates in registration order.
func (p *PrintContext) Defines() []Define {
	return p.defines
}

// String returns the printed output without sub-template definitions.
func (p *PrintContext) String() string {
	return p.out.String()
}

func (p *PrintContext) endsWithSpace() bool {
	n := p.out.Len()
	if n == 0 {
		return false
	}
	return isSpace(p.out.String()[n-1])
}

// Print returns the source of n. Sub-template definitions registered while
// printing are dropped; use PrintTemplate for a complete template.
func Print(n Node) string {
	p := NewPrintContext()
	n.Print(p)
	return p.String()
}

// PrintTemplate returns the source of n followed by every sub-template
// definition registered while printing it.
func PrintTemplate(n Node) string {
	p := NewPrintContext()
	n.Print(p)
	defines := p.Defines()
	if len(defines) == 0 {
		return p.String()
	}
	var b strings.Builder
	b.WriteString(p.String())
	for _, d := range defines {
		b.WriteString("{{define ")
		b.WriteString(strconv.Quote(d.Name))
		b.WriteString("}}")
		b.WriteString(d.Body)
		b.WriteString("{{end}}")
	}
	return b.String()
}
