package tagview

import (
	"html"
	"html/template"
	"iter"
	"slices"
	"strings"
)

// Attributes is an order-preserving set of html attributes.
type Attributes struct {
	names  []string
	values map[string]string
}

// NewAttributes returns attributes built from name, value pairs. A trailing
// name without a value is set as a bare attribute.
func NewAttributes(pairs ...string) *Attributes {
	a := &Attributes{values: make(map[string]string)}
	for i := 0; i < len(pairs); i += 2 {
		value := ""
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		a.Set(pairs[i], value)
	}
	return a
}

// Set sets an attribute, keeping its position if it already exists. Names
// are lower-cased.
func (a *Attributes) Set(name, value string) *Attributes {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return a
	}
	if a.values == nil {
		a.values = make(map[string]string)
	}
	if _, ok := a.values[name]; !ok {
		a.names = append(a.names, name)
	}
	a.values[name] = value
	return a
}

// Get returns an attribute value.
func (a *Attributes) Get(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.values[strings.ToLower(name)]
	return v, ok
}

// Value returns an attribute value or "".
func (a *Attributes) Value(name string) string {
	v, _ := a.Get(name)
	return v
}

// Has reports whether the attribute is set.
func (a *Attributes) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Delete removes attributes.
func (a *Attributes) Delete(names ...string) *Attributes {
	for _, name := range names {
		name = strings.ToLower(name)
		if _, ok := a.values[name]; !ok {
			continue
		}
		delete(a.values, name)
		a.names = slices.DeleteFunc(a.names, func(n string) bool { return n == name })
	}
	return a
}

// Pull returns an attribute value and removes it.
func (a *Attributes) Pull(name string) (string, bool) {
	v, ok := a.Get(name)
	if ok {
		a.Delete(name)
	}
	return v, ok
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.names)
}

// All iterates the attributes in insertion order.
func (a *Attributes) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if a == nil {
			return
		}
		for _, name := range a.names {
			if !yield(name, a.values[name]) {
				return
			}
		}
	}
}

// AddClass appends classes to the class attribute, skipping duplicates.
func (a *Attributes) AddClass(classes ...string) *Attributes {
	current := strings.Fields(a.Value("class"))
	for _, c := range classes {
		for _, field := range strings.Fields(c) {
			if !slices.Contains(current, field) {
				current = append(current, field)
			}
		}
	}
	if len(current) > 0 {
		a.Set("class", strings.Join(current, " "))
	}
	return a
}

// Clone returns a copy.
func (a *Attributes) Clone() *Attributes {
	out := NewAttributes()
	for name, value := range a.All() {
		out.Set(name, value)
	}
	return out
}

// String renders the attributes with a leading space, ready to follow a tag
// name. Empty values render as bare attributes.
func (a *Attributes) String() string {
	if a.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for name, value := range a.All() {
		b.WriteByte(' ')
		b.WriteString(name)
		if value == "" {
			continue
		}
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(value))
		b.WriteByte('"')
	}
	return b.String()
}

// HTMLAttr returns String as a trusted attribute list for html/template.
func (a *Attributes) HTMLAttr() template.HTMLAttr {
	return template.HTMLAttr(strings.TrimPrefix(a.String(), " "))
}

// pairs returns the attributes in order, the form used for hashing.
func (a *Attributes) pairs() [][2]string {
	out := make([][2]string, 0, a.Len())
	for name, value := range a.All() {
		out = append(out, [2]string{name, value})
	}
	return out
}
