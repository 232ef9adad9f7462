package tagview

import (
	"html/template"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pthm/tagview/lib/views"
)

const instrumentationName = "github.com/pthm/tagview"

// Option configures a Registry, Factory or Compiler. Each constructor reads
// the settings that apply to it and ignores the rest.
type Option func(*settings)

type settings struct {
	logger      *zap.Logger
	tracer      trace.Tracer
	metrics     *Metrics
	container   Container
	services    Services
	loader      *views.Loader
	cacheDir    string
	autoRefresh bool
	funcs       template.FuncMap
	globals     map[string]any
	passes      []Pass
	preformat   bool
}

func newSettings(opts []Option) *settings {
	s := &settings{
		autoRefresh: true,
		preformat:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(instrumentationName)
	}
	return s
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithTracer sets the tracer used for render spans. The default is the
// global otel tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *settings) { s.tracer = tracer }
}

// WithMetrics registers render and compile metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *settings) { s.metrics = NewMetrics(reg) }
}

// WithContainer sets the container components are constructed from. The
// default is the registry itself.
func WithContainer(c Container) Option {
	return func(s *settings) { s.container = c }
}

// WithServices sets the services handed to component build steps.
func WithServices(services Services) Option {
	return func(s *settings) { s.services = services }
}

// WithLoader sets the view loader.
func WithLoader(l *views.Loader) Option {
	return func(s *settings) { s.loader = l }
}

// WithCacheDir sets the directory compiled templates are written to. An
// empty directory keeps compiled templates in memory only.
func WithCacheDir(dir string) Option {
	return func(s *settings) { s.cacheDir = dir }
}

// WithAutoRefresh controls whether changed view sources are recompiled.
// It is on by default.
func WithAutoRefresh(on bool) Option {
	return func(s *settings) { s.autoRefresh = on }
}

// WithFuncs adds template functions available to every view.
func WithFuncs(funcs template.FuncMap) Option {
	return func(s *settings) {
		if s.funcs == nil {
			s.funcs = template.FuncMap{}
		}
		for name, fn := range funcs {
			s.funcs[name] = fn
		}
	}
}

// WithGlobals sets variables merged into the data of every map-based render.
func WithGlobals(globals map[string]any) Option {
	return func(s *settings) {
		if s.globals == nil {
			s.globals = map[string]any{}
		}
		for k, v := range globals {
			s.globals[k] = v
		}
	}
}

// WithPass appends a compile pass run after whitespace normalisation and
// before component dispatch.
func WithPass(p Pass) Option {
	return func(s *settings) { s.passes = append(s.passes, p) }
}

// WithoutPreformat disables the whitespace normalisation pass.
func WithoutPreformat() Option {
	return func(s *settings) { s.preformat = false }
}
