package tagview

import (
	"html/template"
	"iter"
	"strings"
)

// Content is the rendered child html of a component. It is consumed as it
// is read: Next, All and String each remove what they return, so content
// supports exactly one forward pass.
type Content struct {
	items []string
}

// NewContent returns content holding items in order.
func NewContent(items ...string) *Content {
	c := &Content{}
	c.Append(items...)
	return c
}

// Len returns the number of unread items.
func (c *Content) Len() int {
	return len(c.items)
}

// Next removes and returns the first unread item.
func (c *Content) Next() (template.HTML, bool) {
	if len(c.items) == 0 {
		return "", false
	}
	item := c.items[0]
	c.items = c.items[1:]
	return template.HTML(item), true
}

// All iterates the unread items, consuming each one.
func (c *Content) All() iter.Seq[template.HTML] {
	return func(yield func(template.HTML) bool) {
		for {
			item, ok := c.Next()
			if !ok || !yield(item) {
				return
			}
		}
	}
}

// Append adds items at the end.
func (c *Content) Append(items ...string) {
	c.items = append(c.items, items...)
}

// Prepend adds items at the start, keeping their order.
func (c *Content) Prepend(items ...string) {
	c.items = append(append(make([]string, 0, len(items)+len(c.items)), items...), c.items...)
}

// Set replaces every item.
func (c *Content) Set(items ...string) {
	c.items = append([]string(nil), items...)
}

// String joins the unread items with line breaks and consumes them.
func (c *Content) String() string {
	s := strings.Join(c.items, "\n")
	c.items = nil
	return s
}

// HTML is String as trusted html.
func (c *Content) HTML() template.HTML {
	return template.HTML(c.String())
}
