package tagview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/pthm/tagview/lib/nodes"
)

// TestResult holds the result of rendering a component or view for testing.
//
// Provides convenience methods for asserting on HTML content and, for
// requests, status codes and headers.
type TestResult struct {
	HTML       string
	StatusCode int
	Headers    http.Header

	// ID is the unique id of a component rendered with TestRender.
	ID string
}

// TestRender creates and renders a single component without a registry.
//
// Use this for pure unit tests of rendering logic. It runs Create, the
// optional build step with services and Render:
//
//	result, err := tagview.TestRender(&Alert{}, tagview.Arguments{
//	    Tag:     "alert:warning",
//	    Content: []string{"Careful"},
//	}, nil)
//	if !result.HTMLContains("Careful") {
//	    t.Fatal("missing content")
//	}
func TestRender(c Component, args Arguments, services Services) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), c, args, services)
}

// TestRenderWithContext is TestRender with a custom context.
func TestRenderWithContext(ctx context.Context, c Component, args Arguments, services Services) (*TestResult, error) {
	reg := NewRegistry()
	compiler := NewCompiler(NewFactory(reg))

	if err := Create(ctx, c, args, nil, args.ID); err != nil {
		return nil, err
	}
	if b, ok := c.(Builder); ok {
		if services == nil {
			services = ServiceMap{}
		}
		if err := b.Build(ctx, services); err != nil {
			return nil, err
		}
	}
	html, err := c.Compile(ctx, compiler)
	if err != nil {
		return nil, err
	}
	return &TestResult{
		HTML:       html,
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
		ID:         c.base().uniqueID,
	}, nil
}

// TestComponent renders a registered component through a fresh factory, the
// way a compiled template calls it.
//
//	result := tagview.TestComponent(compiler, "ui:alert:warning", tagview.Arguments{})
func TestComponent(compiler *Compiler, identifier string, args Arguments) *TestResult {
	return &TestResult{
		HTML:       compiler.Factory().Render(context.Background(), compiler, identifier, args, nodes.CacheOff),
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
	}
}

// TestView renders a view with data.
//
//	result, err := tagview.TestView(compiler, `<ui:alert>Hi</ui:alert>`, nil)
func TestView(compiler *Compiler, view string, data any) (*TestResult, error) {
	html, err := compiler.Render(context.Background(), view, data)
	if err != nil {
		return nil, err
	}
	return &TestResult{
		HTML:       html,
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
	}, nil
}

// TestRequest serves a request through h and records the response.
//
//	result := tagview.TestRequest(tagview.Handler(compiler, "home.html", nil), "GET", "/")
func TestRequest(h http.Handler, method, url string) *TestResult {
	req := httptest.NewRequest(method, url, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the HTML contains any of the given substrings.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// IsEmpty checks if nothing was rendered.
func (r *TestResult) IsEmpty() bool {
	return strings.TrimSpace(r.HTML) == ""
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// GetHeader returns the value of a header.
func (r *TestResult) GetHeader(key string) string {
	return r.Headers.Get(key)
}
