// Package tagviewecho provides Echo framework integration for tagview.
//
// Use the compiler as the renderer of an Echo instance:
//
//	e := echo.New()
//	tagviewecho.Use(e, compiler)
//	e.GET("/", func(c echo.Context) error {
//	    return c.Render(http.StatusOK, "home.html", data)
//	})
//
// Mount serves single components, for fragments requested by htmx:
//
//	tagviewecho.Mount(e, compiler)
//	// GET /_c/alert:info?id=save renders <alert:info id="save">
package tagviewecho

import (
	"io"
	"maps"
	"net/http"
	"slices"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/tagview"
	"github.com/pthm/tagview/lib/nodes"
)

// Renderer implements echo.Renderer with a compiler. Template names are view
// names resolved by the compiler's loader.
type Renderer struct {
	compiler *tagview.Compiler
}

// NewRenderer returns a renderer backed by compiler.
func NewRenderer(compiler *tagview.Compiler) *Renderer {
	return &Renderer{compiler: compiler}
}

// Render renders the view name with data.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	out, err := r.compiler.Render(c.Request().Context(), name, data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Use installs a Renderer for compiler on e.
func Use(e *echo.Echo, compiler *tagview.Compiler) *Renderer {
	r := NewRenderer(compiler)
	e.Renderer = r
	return r
}

// Option configures Mount and MountGroup.
type Option func(*options)

type options struct {
	path string
	mode nodes.CacheMode
}

// WithPath sets the URL path prefix for component routes.
// Defaults to "/_c/".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithCacheMode sets the cache mode components are rendered with. Defaults
// to nodes.CacheOff.
func WithCacheMode(mode nodes.CacheMode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// Mount serves components on an Echo instance at <path>:tag. Query
// parameters become attributes of the call.
func Mount(e *echo.Echo, compiler *tagview.Compiler, opts ...Option) {
	o := newOptions(opts)
	e.GET(o.path+":tag", componentHandler(compiler, o))
}

// MountGroup serves components on an Echo group, so they share the group's
// middleware (auth, logging, etc.).
//
//	g := e.Group("/app", authMiddleware)
//	tagviewecho.MountGroup(g, compiler)
func MountGroup(g *echo.Group, compiler *tagview.Compiler, opts ...Option) {
	o := newOptions(opts)
	g.GET(o.path+":tag", componentHandler(compiler, o))
}

func newOptions(opts []Option) *options {
	o := &options{path: "/_c/", mode: nodes.CacheOff}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func componentHandler(compiler *tagview.Compiler, o *options) echo.HandlerFunc {
	return func(c echo.Context) error {
		tag := c.Param("tag")
		factory := compiler.Factory()
		if !factory.HasTag(tag) {
			return echo.NewHTTPError(http.StatusNotFound, "unknown component "+tag)
		}

		query := c.QueryParams()
		attrs := tagview.NewAttributes()
		for _, name := range slices.Sorted(maps.Keys(query)) {
			attrs.Set(name, query.Get(name))
		}

		out := factory.Render(c.Request().Context(), compiler, tag,
			tagview.Arguments{Tag: tag, Attributes: attrs}, o.mode)
		return c.HTML(http.StatusOK, out)
	}
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return tagviewecho.Render(c, compiler.View("home.html", data))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
