package markup

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrUnclosedAction is returned when a "{{" has no matching "}}".
var ErrUnclosedAction = errors.New("unclosed template action")

// Placeholders replace actions while the HTML tokenizer runs, so quotes and
// angle brackets inside actions never reach it. Both runes are in the
// private use area.
const (
	placeholderOpen  = "\uE000"
	placeholderClose = "\uE001"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true, "param": true, "keygen": true,
}

// IsVoid reports whether tag is an HTML void element.
func IsVoid(tag string) bool {
	return voidElements[strings.ToLower(tag)]
}

// IsKnownTag reports whether tag is a standard HTML element name.
func IsKnownTag(tag string) bool {
	return atom.Lookup([]byte(strings.ToLower(tag))) != 0
}

// Parse parses template source into a tree.
func Parse(src string) (*Fragment, error) {
	shielded, actions, err := shield(src)
	if err != nil {
		return nil, err
	}
	p := &parser{
		actions: actions,
		root:    &Fragment{},
	}
	return p.parse(shielded)
}

// MustParse is Parse that panics on error.
func MustParse(src string) *Fragment {
	f, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return f
}

type parser struct {
	actions []string
	root    *Fragment
	stack   []*Element
}

func (p *parser) parse(src string) (*Fragment, error) {
	z := html.NewTokenizer(strings.NewReader(src))
	for {
		tt := z.Next()
		raw := string(z.Raw())
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			for _, el := range p.stack {
				el.Unclosed = true
			}
			return p.root, nil
		case html.TextToken:
			p.appendText(raw)
		case html.CommentToken, html.DoctypeToken:
			p.append(&Comment{Raw: p.restore(raw)})
		case html.StartTagToken, html.SelfClosingTagToken:
			el := p.element(raw, tt == html.SelfClosingTagToken)
			p.append(el)
			if !el.SelfClosing && !el.Void {
				el.Content = &Fragment{}
				p.stack = append(p.stack, el)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if !p.close(string(name)) {
				p.appendText(raw)
			}
		}
	}
}

func (p *parser) append(n Node) {
	if len(p.stack) == 0 {
		p.root.Children = append(p.root.Children, n)
		return
	}
	top := p.stack[len(p.stack)-1]
	top.Content.Children = append(top.Content.Children, n)
}

// close pops the stack up to the innermost element named name. Elements
// above it are marked unclosed. It reports false for a stray end tag.
func (p *parser) close(name string) bool {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if !strings.EqualFold(p.stack[i].Name, name) {
			continue
		}
		for _, el := range p.stack[i+1:] {
			el.Unclosed = true
		}
		p.stack = p.stack[:i]
		return true
	}
	return false
}

// appendText splits raw text into Text and Action nodes.
func (p *parser) appendText(raw string) {
	for raw != "" {
		start := strings.Index(raw, placeholderOpen)
		if start < 0 {
			p.append(&Text{Content: raw})
			return
		}
		if start > 0 {
			p.append(&Text{Content: raw[:start]})
		}
		idx, n := p.placeholder(raw[start:])
		if n == 0 {
			p.append(&Text{Content: raw[start:]})
			return
		}
		p.append(&Action{Source: p.actions[idx]})
		raw = raw[start+n:]
	}
}

// placeholder decodes a placeholder at the start of s, returning the action
// index and the placeholder length, or a zero length if s does not start
// with a valid placeholder.
func (p *parser) placeholder(s string) (int, int) {
	if !strings.HasPrefix(s, placeholderOpen) {
		return 0, 0
	}
	end := strings.Index(s, placeholderClose)
	if end < 0 {
		return 0, 0
	}
	idx, err := strconv.Atoi(s[len(placeholderOpen):end])
	if err != nil || idx < 0 || idx >= len(p.actions) {
		return 0, 0
	}
	return idx, end + len(placeholderClose)
}

// restore replaces every placeholder in s with its action source.
func (p *parser) restore(s string) string {
	if !strings.Contains(s, placeholderOpen) {
		return s
	}
	var b strings.Builder
	for s != "" {
		start := strings.Index(s, placeholderOpen)
		if start < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:start])
		idx, n := p.placeholder(s[start:])
		if n == 0 {
			b.WriteString(s[start:])
			break
		}
		b.WriteString(p.actions[idx])
		s = s[start+n:]
	}
	return b.String()
}

// element builds an Element from the raw start tag. The tokenizer's own
// attribute handling is not used: it decodes entities and drops the
// whitespace and actions between attributes.
func (p *parser) element(raw string, selfClosing bool) *Element {
	body := strings.TrimPrefix(raw, "<")
	body = strings.TrimSuffix(body, ">")
	if selfClosing {
		body = strings.TrimSuffix(body, "/")
	}

	end := 0
	for end < len(body) && !isSpace(body[end]) && body[end] != '/' && body[end] != '>' {
		end++
	}
	el := &Element{
		Name:        p.restore(body[:end]),
		SelfClosing: selfClosing,
	}
	el.Void = IsVoid(el.Name)
	el.Attributes = p.attributes(body[end:])
	return el
}

func (p *parser) attributes(s string) []Node {
	var (
		out     []Node
		pending strings.Builder
	)
	flush := func() {
		if pending.Len() > 0 {
			out = append(out, &Text{Content: pending.String()})
			pending.Reset()
		}
	}

	i := 0
	for i < len(s) {
		c := s[i]
		if isSpace(c) || c == '/' {
			pending.WriteByte(c)
			i++
			continue
		}
		if idx, n := p.placeholder(s[i:]); n > 0 {
			pending.WriteString(p.actions[idx])
			i += n
			continue
		}

		flush()
		j := i
		for j < len(s) && !isSpace(s[j]) && s[j] != '=' && s[j] != '/' {
			j++
		}
		attr := &Attribute{Name: p.restore(s[i:j])}
		out = append(out, attr)

		k := j
		for k < len(s) && isSpace(s[k]) {
			k++
		}
		if k >= len(s) || s[k] != '=' {
			i = j
			continue
		}
		k++
		for k < len(s) && isSpace(s[k]) {
			k++
		}
		attr.HasValue = true
		if k < len(s) && (s[k] == '"' || s[k] == '\'') {
			quote := s[k]
			closing := strings.IndexByte(s[k+1:], quote)
			attr.Quote = quote
			if closing < 0 {
				attr.Value = p.restore(s[k+1:])
				i = len(s)
				continue
			}
			attr.Value = p.restore(s[k+1 : k+1+closing])
			i = k + 1 + closing + 1
			continue
		}
		v := k
		for v < len(s) && !isSpace(s[v]) {
			v++
		}
		attr.Value = p.restore(s[k:v])
		i = v
	}
	flush()
	return out
}

// shield replaces every template action in src with a placeholder and
// returns the actions in order.
func shield(src string) (string, []string, error) {
	if !strings.Contains(src, "{{") {
		return src, nil, nil
	}
	var (
		b       strings.Builder
		actions []string
	)
	for {
		start := strings.Index(src, "{{")
		if start < 0 {
			b.WriteString(src)
			return b.String(), actions, nil
		}
		end := actionEnd(src[start:])
		if end < 0 {
			line := 1 + strings.Count(b.String(), "\n") + strings.Count(src[:start], "\n")
			return "", nil, fmt.Errorf("%w at line %d", ErrUnclosedAction, line)
		}
		b.WriteString(src[:start])
		b.WriteString(placeholderOpen)
		b.WriteString(strconv.Itoa(len(actions)))
		b.WriteString(placeholderClose)
		actions = append(actions, src[start:start+end])
		src = src[start+end:]
	}
}

// actionEnd returns the length of the action at the start of s, including
// both delimiters, or -1. Quoted strings, raw strings, rune literals and
// comments may contain "}}".
func actionEnd(s string) int {
	i := 2
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "}}"):
			return i + 2
		case strings.HasPrefix(s[i:], "/*"):
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return -1
			}
			i += 2 + end + 2
		case s[i] == '"' || s[i] == '\'':
			quote := s[i]
			i++
			for i < len(s) && s[i] != quote {
				if s[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(s) {
				return -1
			}
			i++
		case s[i] == '`':
			end := strings.IndexByte(s[i+1:], '`')
			if end < 0 {
				return -1
			}
			i += 1 + end + 1
		default:
			i++
		}
	}
	return -1
}
