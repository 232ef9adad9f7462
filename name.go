package tagview

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
)

var namePattern = regexp.MustCompile(`^[a-z0-9:]+$`)

// ValidateName checks a component name: lower-case alphanumeric with ":"
// separators, not starting with a digit, not starting or ending with ":".
func ValidateName(name string) error {
	reason := ""
	if name == "" || !namePattern.MatchString(name) {
		reason = "must be lower-case alphanumeric"
	}
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		reason = "cannot start with a number"
	}
	if strings.HasPrefix(name, ":") || strings.HasSuffix(name, ":") {
		reason = "must not start or end with a separator"
	}
	if reason != "" {
		return &NameError{Name: name, Reason: reason}
	}
	return nil
}

type nameResult struct {
	name string
	err  error
}

var componentNames sync.Map // reflect.Type -> nameResult

// ComponentName returns the name of a component type: the result of its
// ComponentName method when it implements Namer, otherwise its lower-cased
// type name. The result is memoised per type.
func ComponentName(c Component) (string, error) {
	t := reflect.TypeOf(c)
	if cached, ok := componentNames.Load(t); ok {
		r := cached.(nameResult)
		return r.name, r.err
	}

	var name string
	if n, ok := c.(Namer); ok {
		name = n.ComponentName()
	} else {
		name = strings.ToLower(typeName(t))
	}
	r := nameResult{name: name, err: ValidateName(name)}
	componentNames.Store(t, r)
	return r.name, r.err
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// className returns the class identity of a component: its package path and
// type name.
func className(c Component) string {
	t := reflect.TypeOf(c)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}
