package tagview

import (
	"sort"
	"strings"
)

// Arguments are the raw inputs of one component call site.
type Arguments struct {
	// ID, when set, replaces the derived unique id. See UniqueID.
	ID string

	// Tag is the tag as written, for example "ui:alert:warning".
	Tag string

	Attributes *Attributes

	// Content holds rendered child html, one entry per child.
	Content []string

	// Named arguments are bound onto component fields.
	Named map[string]any

	// Positional holds tag segments that were not promoted, keyed by
	// segment position. Each calls the component method of that name.
	Positional map[int]string
}

// SetNamed sets a named argument.
func (a *Arguments) SetNamed(name string, value any) {
	if a.Named == nil {
		a.Named = make(map[string]any)
	}
	a.Named[name] = value
}

// PromoteTag splits the tag on ":". Segment 0 becomes the tag; with a
// namespace the segment after it does. Each further segment is stored as the
// named argument its promotion table position names, or kept positional.
//
// "card:header" with {"card": ["", "slot"]} yields Tag "card" and
// Named["slot"] = "header".
func PromoteTag(args *Arguments, promote Promotions) {
	if args.Tag == "" {
		return
	}
	segments := strings.Split(StripNamespace(args.Tag), ":")
	args.Tag = segments[0]

	table := promote[args.Tag]
	for position, segment := range segments {
		if position < len(table) && table[position] != "" {
			args.SetNamed(table[position], segment)
			if args.Positional != nil {
				delete(args.Positional, position)
			}
			continue
		}
		if position > 0 && segment != "" {
			if args.Positional == nil {
				args.Positional = make(map[int]string)
			}
			args.Positional[position] = segment
		}
	}
}

// namedKeys returns the named argument keys in sorted order.
func (a *Arguments) namedKeys() []string {
	keys := make([]string, 0, len(a.Named))
	for k := range a.Named {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// positions returns the positional indexes in order.
func (a *Arguments) positions() []int {
	idx := make([]int, 0, len(a.Positional))
	for i := range a.Positional {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}
