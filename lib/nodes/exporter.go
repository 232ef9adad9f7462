package nodes

import (
	"strconv"
	"strings"

	"github.com/pthm/tagview/lib/encoding"
)

// FuncName is the template function the compiled call sites invoke.
const FuncName = "component"

// Exporter writes component call sites as template source. The output only
// depends on its inputs, so recompiling unchanged source yields identical
// text.
type Exporter struct {
	// Func is the template function name, FuncName when empty.
	Func string
}

// String returns s as a quoted template string constant.
func (e Exporter) String(s string) string {
	return strconv.Quote(s)
}

// Arguments returns the payload as a quoted literal.
func (e Exporter) Arguments(p Payload) (string, error) {
	literal, err := encoding.Marshal(p)
	if err != nil {
		return "", err
	}
	return strconv.Quote(literal), nil
}

// CacheConstant returns the cache mode as a quoted constant.
func (e Exporter) CacheConstant(mode CacheMode) string {
	return strconv.Quote(mode.String())
}

// Call returns the action invoking the component function, for example
//
//	{{component "alert" "haRhZ..." "auto" .}}
//
// The variables named by the payload follow the dot.
func (e Exporter) Call(name string, p Payload, mode CacheMode) (string, error) {
	args, err := e.Arguments(p)
	if err != nil {
		return "", err
	}
	fn := e.Func
	if fn == "" {
		fn = FuncName
	}

	var b strings.Builder
	b.WriteString("{{")
	b.WriteString(fn)
	b.WriteString(" ")
	b.WriteString(e.String(name))
	b.WriteString(" ")
	b.WriteString(args)
	b.WriteString(" ")
	b.WriteString(e.CacheConstant(mode))
	b.WriteString(" .")
	for _, v := range p.Vars {
		b.WriteString(" ")
		b.WriteString(v)
	}
	b.WriteString("}}")
	return b.String(), nil
}
