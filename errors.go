package tagview

import (
	"errors"
	"fmt"
)

// Sentinel errors for component operations.
var (
	ErrComponentNotFound   = errors.New("tagview: component not found")
	ErrNotInContainer      = errors.New("tagview: component class missing from container")
	ErrNotImplemented      = errors.New("tagview: component does not support this operation")
	ErrContentNotSupported = errors.New("tagview: component does not accept content")
	ErrNotCreated          = errors.New("tagview: component rendered before it was created")
	ErrInvalidName         = errors.New("tagview: invalid component name")
	ErrInvalidTag          = errors.New("tagview: invalid component tag")
	ErrDuplicateName       = errors.New("tagview: duplicate component name")
	ErrTagCollision        = errors.New("tagview: tag claimed by more than one component")
	ErrUndefinedArgument   = errors.New("tagview: undefined argument")
	ErrAlreadyCreated      = errors.New("tagview: component is already created")
	ErrBuildFailed         = errors.New("tagview: component build failed")
)

// NameError reports a component name that violates the naming rules.
type NameError struct {
	Name   string
	Reason string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("tagview: invalid component name %q: %s", e.Name, e.Reason)
}

func (e *NameError) Unwrap() error { return ErrInvalidName }

// TagError reports a tag that violates the tag grammar.
type TagError struct {
	Tag    string
	Reason string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("tagview: invalid tag %q: %s", e.Tag, e.Reason)
}

func (e *TagError) Unwrap() error { return ErrInvalidTag }

// ArgumentError reports an argument no field or method of the component
// accepts, or a value the component could not bind.
type ArgumentError struct {
	Component string
	Argument  string
	Err       error
}

func (e *ArgumentError) Error() string {
	if e.Err == nil || errors.Is(e.Err, ErrUndefinedArgument) {
		return fmt.Sprintf("tagview: %s: undefined argument %q", e.Component, e.Argument)
	}
	return fmt.Sprintf("tagview: %s: argument %q: %v", e.Component, e.Argument, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	if e.Err == nil {
		return ErrUndefinedArgument
	}
	return e.Err
}

// CompileError reports a template that could not be compiled.
type CompileError struct {
	View string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("tagview: compile %s: %v", e.View, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrComponentNotFound) || errors.Is(err, ErrNotInContainer)
}

// IsContractViolation checks if err signals programmer error rather than bad
// data.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContentNotSupported) ||
		errors.Is(err, ErrNotCreated) ||
		errors.Is(err, ErrNotImplemented) ||
		errors.Is(err, ErrAlreadyCreated)
}

// IsInvalidIdentifier checks if err is a name or tag validation error.
func IsInvalidIdentifier(err error) bool {
	return errors.Is(err, ErrInvalidName) || errors.Is(err, ErrInvalidTag)
}
