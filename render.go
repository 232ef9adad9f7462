package tagview

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Render produces the component html, memoised after the first success.
//
// Rendering a component that has not been created is a programmer error and
// panics with ErrNotCreated. Otherwise Render never panics: errors and panics
// from Compile are logged and reported as ok == false, and the failed render
// is not memoised.
func Render(ctx context.Context, c Component, compiler *Compiler) (html string, ok bool) {
	b := c.base()
	if b.uniqueID == "" {
		panic(fmt.Errorf("%w: %T", ErrNotCreated, c))
	}
	if b.rendered {
		return b.html, true
	}

	logger := Logger(ctx).With(zap.String("component", b.name), zap.String("id", b.uniqueID))
	defer func() {
		if r := recover(); r != nil {
			logger.Error("component panicked during compile", zap.Any("panic", r), zap.Stack("stack"))
			html, ok = "", false
		}
	}()

	out, err := c.Compile(ctx, compiler)
	if err != nil {
		logger.Error("component compile failed", zap.Error(err))
		return "", false
	}
	b.html = out
	b.rendered = true
	return out, true
}
