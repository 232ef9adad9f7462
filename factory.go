package tagview

import (
	"context"
	"fmt"
	"html"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pthm/tagview/lib/markup"
	"github.com/pthm/tagview/lib/nodes"
)

// Factory resolves, constructs, creates and renders components. It is safe
// for concurrent use.
type Factory struct {
	registry  *Registry
	container Container
	services  Services
	logger    *zap.Logger
	tracer    trace.Tracer
	metrics   *Metrics

	mu           sync.Mutex
	instantiated map[string][]string // class -> unique ids
	cache        map[string]string   // unique id -> html
}

// NewFactory creates a factory over reg. Components are constructed by the
// registry unless WithContainer is given.
func NewFactory(reg *Registry, opts ...Option) *Factory {
	s := newSettings(opts)
	f := &Factory{
		registry:     reg,
		container:    s.container,
		services:     s.services,
		logger:       s.logger,
		tracer:       s.tracer,
		metrics:      s.metrics,
		instantiated: make(map[string][]string),
		cache:        make(map[string]string),
	}
	if f.container == nil {
		f.container = reg
	}
	if f.services == nil {
		f.services = ServiceMap{}
	}
	return f
}

// Registry returns the registry the factory resolves from.
func (f *Factory) Registry() *Registry {
	return f.registry
}

// Properties returns the record for a component name, class identity or
// tag.
func (f *Factory) Properties(from string) (*Record, bool) {
	return f.registry.Resolve(from)
}

// HasComponent reports whether from resolves to a component.
func (f *Factory) HasComponent(from string) bool {
	_, ok := f.registry.Resolve(from)
	return ok
}

// HasTag reports whether a component claims tag.
func (f *Factory) HasTag(tag string) bool {
	return f.registry.HasTag(tag)
}

// Instantiated returns the unique ids of every rendered component by class,
// one entry per call site served. Renders answered from a cache are
// recorded too, so repeated ids show deduplicated call sites.
func (f *Factory) Instantiated() map[string][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string][]string, len(f.instantiated))
	for class, ids := range f.instantiated {
		out[class] = append([]string(nil), ids...)
	}
	return out
}

// Render renders the component identified by a name, class identity or tag.
//
// Data problems never panic: an unknown component, a class the container
// cannot construct, unbound arguments, a failed build step or a failed
// render are logged and yield "". Contract violations, such as content
// passed to a component that cannot hold it, panic.
func (f *Factory) Render(ctx context.Context, compiler *Compiler, identifier string, args Arguments, mode nodes.CacheMode) string {
	ctx, span := f.tracer.Start(ctx, "tagview.Factory.Render",
		trace.WithAttributes(attribute.String("tagview.component", identifier)))
	defer span.End()

	out, result := f.render(ctx, span, compiler, identifier, args, mode)
	span.SetAttributes(attribute.String("tagview.result", result))
	f.metrics.render(identifier, result)
	return out
}

func (f *Factory) render(ctx context.Context, span trace.Span, compiler *Compiler, identifier string, args Arguments, mode nodes.CacheMode) (string, string) {
	rec, ok := f.registry.Resolve(identifier)
	if !ok {
		f.logger.Warn("component not found", zap.String("component", identifier))
		span.SetStatus(codes.Error, ErrComponentNotFound.Error())
		return "", "not_found"
	}

	c, ok := f.container.New(rec.Class)
	if !ok {
		f.logger.Error("component class not in container",
			zap.String("component", rec.Name), zap.String("class", rec.Class))
		span.SetStatus(codes.Error, ErrNotInContainer.Error())
		return "", "not_found"
	}

	if mode == nodes.CacheAuto {
		mode = nodes.CacheOff
		if rec.Static {
			mode = nodes.CacheOn
		}
	}

	logger := f.logger.With(zap.String("component", rec.Name))
	ctx = LoggingContext(ctx, logger)

	if err := create(ctx, c, rec.Name, args, rec.Tagged, args.ID); err != nil {
		if IsContractViolation(err) {
			panic(err)
		}
		logger.Error("component create failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return "", "create_failed"
	}
	id := c.base().uniqueID
	span.SetAttributes(attribute.String("tagview.id", id), attribute.String("tagview.cache", mode.String()))

	if out, ok := f.cached(ctx, id, mode); ok {
		f.record(rec.Class, id)
		return out, "cached"
	}

	if b, ok := c.(Builder); ok {
		if err := b.Build(ctx, f.services); err != nil {
			err = fmt.Errorf("%w: %s: %w", ErrBuildFailed, rec.Name, err)
			logger.Error("component build failed", zap.String("id", id), zap.Error(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "build failed")
			return "", "build_failed"
		}
	}

	out, ok := Render(ctx, c, compiler)
	if !ok {
		span.SetStatus(codes.Error, "render failed")
		return "", "render_failed"
	}

	f.store(ctx, rec.Class, id, out, mode)
	return out, "rendered"
}

func (f *Factory) cached(ctx context.Context, id string, mode nodes.CacheMode) (string, bool) {
	var (
		out string
		ok  bool
	)
	switch mode {
	case nodes.CacheOn:
		f.mu.Lock()
		out, ok = f.cache[id]
		f.mu.Unlock()
	case nodes.CacheEphemeral:
		out, ok = scopeFrom(ctx).get(id)
	default:
		return "", false
	}
	outcome := "miss"
	if ok {
		outcome = "hit"
	}
	f.metrics.lookup(mode.String(), outcome)
	return out, ok
}

func (f *Factory) record(class, id string) {
	f.mu.Lock()
	f.instantiated[class] = append(f.instantiated[class], id)
	f.mu.Unlock()
}

func (f *Factory) store(ctx context.Context, class, id, out string, mode nodes.CacheMode) {
	f.record(class, id)
	if mode == nodes.CacheOn {
		f.mu.Lock()
		f.cache[id] = out
		f.mu.Unlock()
	}

	if mode == nodes.CacheEphemeral {
		scopeFrom(ctx).set(id, out)
	}
}

// ClearCache drops every memoised render.
func (f *Factory) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = make(map[string]string)
}

// ComponentNode returns the node replacing the element behind nc in a
// compiled template.
//
// A static component whose arguments are all literal renders now and is
// baked into the template as a StaticNode. Anything else must implement
// NodeProvider; otherwise ComponentNode fails with ErrNotImplemented.
func (f *Factory) ComponentNode(ctx context.Context, compiler *Compiler, identifier string, nc *nodes.NodeCompiler) (markup.Node, error) {
	rec, ok := f.registry.Resolve(identifier)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, identifier)
	}

	payload := nc.Payload()
	if rec.Static && !payload.IsDynamic() {
		args, err := ArgumentsFromPayload(payload, nil)
		if err != nil {
			return nil, err
		}
		return nodes.NewStaticNode(f.Render(ctx, compiler, rec.Name, args, nodes.CacheOn)), nil
	}

	c, ok := f.container.New(rec.Class)
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotInContainer, rec.Name, rec.Class)
	}
	provider, ok := c.(NodeProvider)
	if !ok {
		return nil, fmt.Errorf("%w: %s (%T) cannot render per request; embed tagview.Splice",
			ErrNotImplemented, rec.Name, c)
	}
	return provider.Node(ctx, rec, nc)
}

// ArgumentsFromPayload converts a decoded call site payload into arguments.
// eval produces the text of dynamic values; with a nil eval a dynamic value
// is an error. Dynamic attribute values are entity-decoded, as literal ones
// already are.
func ArgumentsFromPayload(p nodes.Payload, eval func(nodes.Value) (string, error)) (Arguments, error) {
	text := func(v nodes.Value) (string, error) {
		if !v.IsDynamic() {
			return v.Text, nil
		}
		if eval == nil {
			return "", fmt.Errorf("tagview: dynamic value %s needs a template", v.Template)
		}
		return eval(v)
	}

	args := Arguments{Tag: p.Tag, Attributes: NewAttributes()}
	for _, a := range p.Attributes {
		value, err := text(a.Value)
		if err != nil {
			return Arguments{}, fmt.Errorf("attribute %s: %w", a.Name, err)
		}
		if a.Value.IsDynamic() {
			value = html.UnescapeString(value)
		}
		args.Attributes.Set(a.Name, value)
	}
	for _, v := range p.Content {
		value, err := text(v)
		if err != nil {
			return Arguments{}, fmt.Errorf("content: %w", err)
		}
		args.Content = append(args.Content, value)
	}
	return args, nil
}

// renderScope memoises EPHEMERAL renders for one template execution.
type renderScope struct {
	mu   sync.Mutex
	html map[string]string
}

type scopeKey struct{}

// NewRenderScope returns a context whose EPHEMERAL component renders are
// shared until the context is dropped. Compiler.Render opens one per call.
func NewRenderScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeKey{}, &renderScope{html: make(map[string]string)})
}

func scopeFrom(ctx context.Context) *renderScope {
	s, _ := ctx.Value(scopeKey{}).(*renderScope)
	return s
}

func (s *renderScope) get(id string) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := s.html[id]
	return out, ok
}

func (s *renderScope) set(id, out string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.html[id] = out
	s.mu.Unlock()
}
