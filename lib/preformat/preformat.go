// Package preformat normalises whitespace in a parsed template before it is
// printed.
//
// For every run of sibling nodes, whitespace-only text at the start or end of
// the run is dropped and whitespace-only text elsewhere shrinks to a single
// space, or a single line break when it held one. Text inside an element is
// collapsed and given exactly one space against neighbouring elements.
// Attribute lists are tidied the same way. The bodies of pre, textarea,
// script and style are left untouched.
package preformat

import (
	"regexp"
	"strings"

	"github.com/pthm/tagview/lib/markup"
)

var (
	punctuation = regexp.MustCompile(`^[.!]+$`)
	delimiter   = regexp.MustCompile(`^[,;]+$`)
	runs        = regexp.MustCompile(`\s+`)
)

var verbatim = map[string]bool{
	"pre":      true,
	"textarea": true,
	"script":   true,
	"style":    true,
}

// IsPunctuation reports whether s consists only of terminal punctuation.
func IsPunctuation(s string) bool {
	return punctuation.MatchString(s)
}

// IsDelimiter reports whether s consists only of list delimiters.
func IsDelimiter(s string) bool {
	return delimiter.MatchString(s)
}

// Collapse trims s and replaces every run of whitespace with one space.
func Collapse(s string) string {
	return runs.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Format normalises the whole tree in place.
func Format(root *markup.Fragment) {
	Fragment(root, "")
	markup.Traverse(root, enter, leave)
}

func enter(n markup.Node) (markup.Node, markup.Control) {
	switch node := n.(type) {
	case *markup.Element:
		if verbatim[node.Tag()] {
			return n, markup.SkipChildren
		}
	case *markup.Action, *markup.Comment:
		return n, markup.SkipChildren
	}
	return n, markup.Continue
}

func leave(n markup.Node) (markup.Node, markup.Control) {
	el, ok := n.(*markup.Element)
	if !ok {
		return n, markup.Continue
	}
	Attributes(el)
	if el.Content != nil && !verbatim[el.Tag()] {
		Fragment(el.Content, el.Tag())
	}
	return n, markup.Continue
}

// Fragment normalises one level of children. tag is the name of the
// enclosing element, or "" for the template root; text is only balanced
// against its neighbours inside an element.
func Fragment(f *markup.Fragment, tag string) {
	if len(f.Children) == 0 {
		return
	}
	last := len(f.Children) - 1
	kept := make([]markup.Node, 0, len(f.Children))

	for i, n := range f.Children {
		text, ok := n.(*markup.Text)
		if !ok {
			kept = append(kept, n)
			continue
		}
		if text.IsWhitespace() {
			if i == 0 || i == last || text.Content == "" {
				continue
			}
			if strings.Contains(text.Content, "\n") {
				text.Content = "\n"
			} else {
				text.Content = " "
			}
			kept = append(kept, text)
			continue
		}
		if tag != "" {
			var prev, next markup.Node
			if i > 0 {
				prev = f.Children[i-1]
			}
			if i < last {
				next = f.Children[i+1]
			}
			balance(text, prev, next)
		}
		kept = append(kept, text)
	}
	f.Children = kept
}

// balance collapses text and pads it against neighbouring nodes.
func balance(text *markup.Text, prev, next markup.Node) {
	original := text.Content
	content := Collapse(original)
	if content == "" {
		text.Content = content
		return
	}

	switch next.(type) {
	case *markup.Element:
		content += " "
	case *markup.Action, *markup.Comment:
		if endsWithSpace(original) {
			content += " "
		}
	}

	switch prev.(type) {
	case *markup.Element:
		if !startsWithPunctuation(content) {
			content = " " + content
		}
	case *markup.Action, *markup.Comment:
		if startsWithSpace(original) {
			content = " " + content
		}
	}
	text.Content = content
}

// Attributes tidies the attribute list of el. Every text fragment is trimmed
// and followed by one space; a trailing whitespace-only fragment is dropped.
func Attributes(el *markup.Element) {
	if len(el.Attributes) == 0 {
		return
	}
	last := len(el.Attributes) - 1
	kept := el.Attributes[:0]
	for i, n := range el.Attributes {
		text, ok := n.(*markup.Text)
		if !ok {
			kept = append(kept, n)
			continue
		}
		trimmed := strings.TrimSpace(text.Content)
		if i == last {
			if trimmed == "" {
				continue
			}
			text.Content = trimmed
			kept = append(kept, text)
			continue
		}
		text.Content = trimmed + " "
		kept = append(kept, text)
	}
	el.Attributes = kept
}

func startsWithPunctuation(s string) bool {
	if s == "" {
		return false
	}
	head := s[:1]
	return IsPunctuation(head) || IsDelimiter(head)
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s[:1], " \t\r\n\f") == ""
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s[len(s)-1:], " \t\r\n\f") == ""
}
