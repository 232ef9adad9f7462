package tagview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pthm/tagview/lib/encoding"
	"github.com/pthm/tagview/lib/markup"
	"github.com/pthm/tagview/lib/nodes"
	"github.com/pthm/tagview/lib/preformat"
	"github.com/pthm/tagview/lib/views"
)

// Pass rewrites a parsed view before component dispatch.
type Pass func(ctx context.Context, root *markup.Fragment) error

// Compiler turns view source into html/template templates and executes them.
//
// Compiling a view parses it, normalises whitespace, runs the configured
// passes and replaces every element claimed by a component with a splice
// node. The printed result is cached in memory and, with a cache directory,
// on disk. It is safe for concurrent use.
type Compiler struct {
	factory     *Factory
	loader      *views.Loader
	logger      *zap.Logger
	tracer      trace.Tracer
	metrics     *Metrics
	cacheDir    string
	autoRefresh bool
	funcs       template.FuncMap
	globals     map[string]any
	passes      []Pass
	preformat   bool

	mu        sync.RWMutex
	templates map[string]*compiled
}

type compiled struct {
	tmpl   *template.Template
	hash   string
	file   string
	source string
}

// NewCompiler creates a compiler rendering components through factory.
func NewCompiler(factory *Factory, opts ...Option) *Compiler {
	s := newSettings(opts)
	c := &Compiler{
		factory:     factory,
		loader:      s.loader,
		logger:      s.logger,
		tracer:      s.tracer,
		metrics:     s.metrics,
		cacheDir:    s.cacheDir,
		autoRefresh: s.autoRefresh,
		funcs:       s.funcs,
		globals:     s.globals,
		passes:      s.passes,
		preformat:   s.preformat,
		templates:   make(map[string]*compiled),
	}
	if c.loader == nil {
		c.loader = views.New()
	}
	return c
}

// Factory returns the component factory.
func (c *Compiler) Factory() *Factory {
	return c.factory
}

// Loader returns the view loader.
func (c *Compiler) Loader() *views.Loader {
	return c.loader
}

// Render compiles view and executes it with data. view is a file name
// resolved by the loader or, without a template extension, template source.
func (c *Compiler) Render(ctx context.Context, view string, data any) (string, error) {
	ctx, span := c.tracer.Start(ctx, "tagview.Compiler.Render",
		trace.WithAttributes(attribute.String("tagview.view", viewLabel(view))))
	defer span.End()

	t, err := c.Compile(ctx, view)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compile failed")
		return "", err
	}
	out, err := c.execute(ctx, t, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "execute failed")
		return "", &CompileError{View: viewLabel(view), Err: err}
	}
	return out, nil
}

// RenderSource executes template source with data. Components call it from
// Compile.
func (c *Compiler) RenderSource(ctx context.Context, src string, data any) (string, error) {
	t, err := c.compile(ctx, views.View{Name: src, Source: src, Inline: true})
	if err != nil {
		return "", err
	}
	out, err := c.execute(ctx, t, data)
	if err != nil {
		return "", &CompileError{View: viewLabel(src), Err: err}
	}
	return out, nil
}

// Compile returns the parsed template of view, compiling it when it is not
// cached or, with auto refresh, when its source or the component registry
// changed.
func (c *Compiler) Compile(ctx context.Context, view string) (*template.Template, error) {
	v, err := c.loader.Get(view)
	if err != nil {
		return nil, err
	}
	return c.compile(ctx, v)
}

func (c *Compiler) compile(ctx context.Context, v views.View) (*template.Template, error) {
	key := v.Name
	if v.Inline {
		key = "inline:" + encoding.SumString(v.Source)
	}
	hash := c.hash(v)

	c.mu.RLock()
	entry, ok := c.templates[key]
	c.mu.RUnlock()
	if ok && (entry.hash == hash || !c.autoRefresh) {
		return entry.tmpl, nil
	}

	file := c.cacheFile(v, hash)
	src, err := c.readCache(file)
	if err != nil {
		start := time.Now()
		src, err = c.CompileSource(ctx, v.Name, v.Source)
		c.metrics.compiled(start)
		if err != nil {
			return nil, err
		}
		c.writeCache(file, src)
	}

	t, err := c.parse(key, src)
	if err != nil {
		return nil, &CompileError{View: viewLabel(v.Name), Err: err}
	}

	c.mu.Lock()
	c.templates[key] = &compiled{tmpl: t, hash: hash, file: file, source: src}
	c.mu.Unlock()

	c.logger.Debug("compiled view", zap.String("view", viewLabel(v.Name)), zap.String("hash", hash))
	return t, nil
}

// hash identifies the compiled form of v: it changes with the source and
// with the tags the registry claims.
func (c *Compiler) hash(v views.View) string {
	return encoding.SumString(v.Source + "\x00" + c.factory.Registry().Fingerprint())
}

// CompileSource compiles view source into template source. name only labels
// errors.
func (c *Compiler) CompileSource(ctx context.Context, name, src string) (string, error) {
	root, err := markup.Parse(src)
	if err != nil {
		return "", &CompileError{View: viewLabel(name), Err: err}
	}
	if c.preformat {
		preformat.Format(root)
	}
	for _, pass := range c.passes {
		if err := pass(ctx, root); err != nil {
			return "", &CompileError{View: viewLabel(name), Err: err}
		}
	}
	if err := c.dispatch(ctx, root); err != nil {
		return "", &CompileError{View: viewLabel(name), Err: err}
	}
	return markup.PrintTemplate(root), nil
}

// CompiledSource returns the compiled source of a view cached in memory.
func (c *Compiler) CompiledSource(view string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.templates[view]
	if !ok {
		return "", false
	}
	return entry.source, true
}

// parse parses compiled source. The component function registered here is a
// stand-in; execute binds the real one to each render.
func (c *Compiler) parse(name, src string) (*template.Template, error) {
	funcs := template.FuncMap{
		nodes.FuncName: func(string, string, string, any, ...any) (template.HTML, error) {
			return "", errors.New("component called outside a render")
		},
		"global": c.global,
	}
	for k, fn := range c.funcs {
		funcs[k] = fn
	}
	return template.New(name).Funcs(funcs).Parse(src)
}

// execute runs t with data. The cached template is never executed itself:
// each render works on a clone so component calls can be bound to ctx.
func (c *Compiler) execute(ctx context.Context, t *template.Template, data any) (string, error) {
	clone, err := t.Clone()
	if err != nil {
		return "", err
	}
	if scopeFrom(ctx) == nil {
		ctx = NewRenderScope(ctx)
	}
	clone.Funcs(template.FuncMap{nodes.FuncName: c.componentFunc(ctx, clone)})

	var buf bytes.Buffer
	if err := clone.Execute(&buf, c.withGlobals(data)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// componentFunc returns the template function behind compiled call sites.
// Dynamic payload values are produced by executing their sub-template with
// the dot of the call site, or with a frame holding the dot and the
// variables the call passed when the value reads them.
func (c *Compiler) componentFunc(ctx context.Context, t *template.Template) func(string, string, string, any, ...any) (template.HTML, error) {
	return func(name, literal, mode string, dot any, vars ...any) (template.HTML, error) {
		payload, err := nodes.DecodePayload(literal)
		if err != nil {
			return "", fmt.Errorf("component %s: %w", name, err)
		}
		cache, err := nodes.ParseCacheMode(mode)
		if err != nil {
			return "", fmt.Errorf("component %s: %w", name, err)
		}
		frame, err := nodes.NewFrame(dot, payload.Vars, vars)
		if err != nil {
			return "", fmt.Errorf("component %s: %w", name, err)
		}
		args, err := ArgumentsFromPayload(payload, func(v nodes.Value) (string, error) {
			var data any = dot
			if v.Scoped {
				data = frame
			}
			var buf bytes.Buffer
			if err := t.ExecuteTemplate(&buf, v.Template, data); err != nil {
				return "", err
			}
			return buf.String(), nil
		})
		if err != nil {
			return "", fmt.Errorf("component %s: %w", name, err)
		}
		return template.HTML(c.factory.Render(ctx, c, name, args, cache)), nil
	}
}

func (c *Compiler) global(name string) any {
	return c.globals[name]
}

// withGlobals merges the global variables into map data. Keys of data win.
func (c *Compiler) withGlobals(data any) any {
	if len(c.globals) == 0 {
		return data
	}
	if data == nil {
		data = map[string]any{}
	}
	m, ok := data.(map[string]any)
	if !ok {
		return data
	}
	merged := make(map[string]any, len(c.globals)+len(m))
	for k, v := range c.globals {
		merged[k] = v
	}
	for k, v := range m {
		merged[k] = v
	}
	return merged
}

// viewLabel shortens inline source for logs and errors.
func viewLabel(view string) string {
	if views.IsFileName(view) {
		return view
	}
	return "inline:" + encoding.SumString(view)
}

// slug makes a view name safe to use in a file name.
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name))) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
