package nodes

import (
	"fmt"
	"strings"
)

// Sub-templates run detached from their call site, so the variables a value
// reads from the enclosing scope travel with the call. The call site passes
// them after its dot and the sub-template redeclares them from a Frame.
const (
	frameVar = "$tvFrame"
	rootVar  = "$tvRoot"
)

// variable is one $variable reference inside the actions of a body.
type variable struct {
	name       string
	start, end int
	declared   bool
}

// scanVariables lists the variable references in the actions of body.
// String literals and comments are skipped.
func scanVariables(body string) []variable {
	var vars []variable
	for i := 0; i < len(body); {
		open := strings.Index(body[i:], "{{")
		if open < 0 {
			break
		}
		start := i + open + 2
		end, found := actionVariables(body, start, &vars)
		if !found {
			break
		}
		i = end + 2
	}
	return vars
}

// actionVariables scans one action from start up to its closing delimiter,
// appending the variables it references. It returns the delimiter offset.
func actionVariables(body string, start int, vars *[]variable) (int, bool) {
	first := len(*vars)
	j := start
	for j < len(body) {
		switch ch := body[j]; {
		case strings.HasPrefix(body[j:], "}}"):
			markDeclarations(body, (*vars)[first:])
			return j, true
		case strings.HasPrefix(body[j:], "/*"):
			k := strings.Index(body[j+2:], "*/")
			if k < 0 {
				return 0, false
			}
			j += k + 4
		case ch == '"' || ch == '\'' || ch == '`':
			j = skipQuoted(body, j)
		case ch == '$':
			k := j + 1
			for k < len(body) && isIdentByte(body[k]) {
				k++
			}
			*vars = append(*vars, variable{name: body[j:k], start: j, end: k})
			j = k
		default:
			j++
		}
	}
	return 0, false
}

// markDeclarations flags variables declared with := including both
// variables of "$i, $x :=".
func markDeclarations(body string, vars []variable) {
	for m := len(vars) - 1; m >= 0; m-- {
		rest := strings.TrimLeft(body[vars[m].end:], " \t\r\n")
		switch {
		case strings.HasPrefix(rest, ":="):
			vars[m].declared = true
		case strings.HasPrefix(rest, ",") && m+1 < len(vars) && vars[m+1].declared:
			vars[m].declared = true
		}
	}
}

func skipQuoted(body string, j int) int {
	quote := body[j]
	for k := j + 1; k < len(body); k++ {
		switch body[k] {
		case '\\':
			if quote != '`' {
				k++
			}
		case quote:
			return k + 1
		}
	}
	return len(body)
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// FreeVariables returns the variables body reads without declaring them, in
// order of first use. "$" stands for the root data of the call site.
func FreeVariables(body string) []string {
	vars := scanVariables(body)
	declared := map[string]bool{}
	for _, v := range vars {
		if v.declared {
			declared[v.name] = true
		}
	}
	var free []string
	seen := map[string]bool{}
	for _, v := range vars {
		if v.declared || declared[v.name] || seen[v.name] {
			continue
		}
		seen[v.name] = true
		free = append(free, v.name)
	}
	return free
}

// scoped wraps body so that it runs on a Frame: the free variables are
// redeclared from the frame and the body runs with the call site dot.
func scoped(body string, free []string) string {
	vars := scanVariables(body)
	var rewritten strings.Builder
	last := 0
	for _, v := range vars {
		if v.name != "$" {
			continue
		}
		rewritten.WriteString(body[last:v.start])
		rewritten.WriteString(rootVar)
		last = v.end
	}
	rewritten.WriteString(body[last:])

	var b strings.Builder
	fmt.Fprintf(&b, "{{with %s := .}}", frameVar)
	for _, name := range free {
		local := name
		if name == "$" {
			local = rootVar
		}
		fmt.Fprintf(&b, "{{%s := %s.Var %q}}", local, frameVar, name)
	}
	fmt.Fprintf(&b, "{{range %s.Dot}}%s{{end}}{{end}}", frameVar, rewritten.String())
	return b.String()
}

// Frame is the data of a scoped sub-template: the dot of the call site and
// the variables the call passed along.
type Frame struct {
	dot  any
	vars map[string]any
}

// NewFrame pairs the variable names of a payload with the values the call
// site passed for them.
func NewFrame(dot any, names []string, values []any) (*Frame, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("component call passed %d variables, payload names %d", len(values), len(names))
	}
	f := &Frame{dot: dot, vars: make(map[string]any, len(names))}
	for i, name := range names {
		f.vars[name] = values[i]
	}
	return f, nil
}

// Var returns the value of a captured variable.
func (f *Frame) Var(name string) any {
	return f.vars[name]
}

// Dot returns the call site dot as the single element ranged over.
func (f *Frame) Dot() []any {
	return []any{f.dot}
}
