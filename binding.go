package tagview

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// bindArgument assigns one named argument. A nil value calls the method of
// that name; positional tag segments bind this way.
//
// Fields are matched by their `arg:"name"` tag or, case-insensitively, by
// name, and are only assigned while they hold their zero value. When no
// field matches, an exported method without parameters of the same name is
// called.
func bindArgument(c Component, name string, value any) error {
	if b, ok := c.(ArgumentBinder); ok {
		handled, err := b.BindArgument(name, value)
		if handled || err != nil {
			return wrapArgumentError(c, name, err)
		}
	}

	rv := reflect.ValueOf(c)
	if value != nil {
		if field, ok := argumentField(rv, name); ok {
			if !field.IsZero() {
				return nil
			}
			return wrapArgumentError(c, name, assign(field, value))
		}
	}
	if method, ok := argumentMethod(rv, name); ok {
		method.Call(nil)
		return nil
	}
	return &ArgumentError{Component: c.base().name, Argument: name, Err: ErrUndefinedArgument}
}

func wrapArgumentError(c Component, name string, err error) error {
	if err == nil {
		return nil
	}
	return &ArgumentError{Component: c.base().name, Argument: name, Err: err}
}

// argumentField finds the settable field bound to name.
func argumentField(rv reflect.Value, name string) (reflect.Value, bool) {
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	t := rv.Type()
	var fallback []int
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if tag, ok := f.Tag.Lookup("arg"); ok {
			if tag == "-" {
				continue
			}
			if tag == name {
				return rv.FieldByIndex(f.Index), true
			}
		}
		if fallback == nil && strings.EqualFold(f.Name, fieldName(name)) {
			fallback = f.Index
		}
	}
	if fallback != nil {
		return rv.FieldByIndex(fallback), true
	}
	return reflect.Value{}, false
}

// attributeArguments moves attributes that name an `arg` tagged field into
// the named arguments. Other attributes stay with the component.
func attributeArguments(c Component, args *Arguments) {
	rv := reflect.ValueOf(c)
	var names []string
	for name := range args.Attributes.All() {
		if _, exists := args.Named[name]; exists {
			continue
		}
		if taggedField(rv, name) {
			names = append(names, name)
		}
	}
	for _, name := range names {
		value, _ := args.Attributes.Pull(name)
		args.SetNamed(name, value)
	}
}

func taggedField(rv reflect.Value, name string) bool {
	t := rv.Type()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for _, f := range reflect.VisibleFields(t) {
		if f.IsExported() && f.Tag.Get("arg") == name {
			return true
		}
	}
	return false
}

// reserved methods belong to the component machinery and never bind.
var reserved = map[string]bool{
	"UniqueID": true, "Name": true, "Tag": true, "Attributes": true,
	"Created": true, "Rendered": true, "Content": true,
	"FixedTag": true, "ComponentName": true,
}

// argumentMethod finds an exported method without parameters named like
// name, case-insensitively.
func argumentMethod(rv reflect.Value, name string) (reflect.Value, bool) {
	want := fieldName(name)
	t := rv.Type()
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if reserved[m.Name] || !strings.EqualFold(m.Name, want) {
			continue
		}
		method := rv.Method(i)
		if method.Type().NumIn() != 0 {
			continue
		}
		return method, true
	}
	return reflect.Value{}, false
}

// fieldName drops separators so "close-label" matches CloseLabel.
func fieldName(name string) string {
	return strings.NewReplacer("-", "", "_", "", ":", "", ".", "").Replace(name)
}

// assign converts value to the field type.
func assign(field reflect.Value, value any) error {
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(field.Type()) {
		field.Set(v)
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		s, err := ArgString(value)
		if err != nil {
			return err
		}
		field.SetString(s)
	case reflect.Bool:
		b, err := ArgBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := ArgInt(value)
		if err != nil {
			return err
		}
		if field.OverflowInt(int64(n)) {
			return fmt.Errorf("value %d overflows %s", n, field.Type())
		}
		field.SetInt(int64(n))
	case reflect.Float32, reflect.Float64:
		f, err := ArgFloat(value)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		if v.Type().ConvertibleTo(field.Type()) {
			field.Set(v.Convert(field.Type()))
			return nil
		}
		return fmt.Errorf("cannot assign %T to %s", value, field.Type())
	}
	return nil
}

// ArgString coerces an argument value to a string.
func ArgString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(v), nil
	}
	return "", fmt.Errorf("cannot use %T as string", value)
}

// ArgBool coerces an argument value to a bool. The empty string is true, as
// written by a bare attribute.
func ArgBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		if v == "" {
			return true, nil
		}
		return strconv.ParseBool(v)
	}
	n, err := ArgInt(value)
	if err != nil {
		return false, fmt.Errorf("cannot use %T as bool", value)
	}
	return n != 0, nil
}

// ArgInt coerces an argument value to an int.
func ArgInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	}
	return 0, fmt.Errorf("cannot use %T as int", value)
}

// ArgFloat coerces an argument value to a float64.
func ArgFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	n, err := ArgInt(value)
	if err != nil {
		return 0, fmt.Errorf("cannot use %T as float", value)
	}
	return float64(n), nil
}
