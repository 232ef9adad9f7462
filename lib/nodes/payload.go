package nodes

import (
	"fmt"

	"github.com/pthm/tagview/lib/encoding"
)

// Value is one argument value captured from template source. Literal values
// carry Text; values holding template actions name the sub-template that
// produces them at render time. Scoped sub-templates run on a Frame.
type Value struct {
	Text     string `msgpack:"t,omitempty"`
	Template string `msgpack:"d,omitempty"`
	Scoped   bool   `msgpack:"s,omitempty"`
}

// IsDynamic reports whether the value is produced by a sub-template.
func (v Value) IsDynamic() bool {
	return v.Template != ""
}

// Attr is one attribute of a component element.
type Attr struct {
	Name  string `msgpack:"n"`
	Value Value  `msgpack:"v"`

	// Bare is set for attributes written without a value.
	Bare bool `msgpack:"b,omitempty"`
}

// Payload holds the literal arguments of a component call site.
type Payload struct {
	Tag        string  `msgpack:"tag"`
	Attributes []Attr  `msgpack:"attrs,omitempty"`
	Content    []Value `msgpack:"content,omitempty"`

	// Vars names the variables the call passes after its dot.
	Vars []string `msgpack:"vars,omitempty"`
}

// IsDynamic reports whether any value of the payload needs a sub-template.
func (p Payload) IsDynamic() bool {
	for _, a := range p.Attributes {
		if a.Value.IsDynamic() {
			return true
		}
	}
	for _, c := range p.Content {
		if c.IsDynamic() {
			return true
		}
	}
	return false
}

// DecodePayload decodes a payload literal written by the Exporter.
func DecodePayload(literal string) (Payload, error) {
	var p Payload
	if err := encoding.Unmarshal(literal, &p); err != nil {
		return Payload{}, fmt.Errorf("decode component payload: %w", err)
	}
	return p, nil
}
