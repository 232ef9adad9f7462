package tagview

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pthm/tagview/lib/markup"
	"github.com/pthm/tagview/lib/nodes"
)

func TestFactoryRender(t *testing.T) {
	compiler, _ := newTestCompiler(t, nil)
	f := compiler.Factory()
	ctx := context.Background()

	html := f.Render(ctx, compiler, "ui:alert:info", Arguments{Tag: "ui:alert:info", Content: []string{"Hi"}}, nodes.CacheAuto)
	assert.Equal(t, `<div class="alert alert-info">Hi</div>`, html)

	ids := f.Instantiated()[alertClass]
	require.Len(t, ids, 1)
	assert.Len(t, ids[0], IDLength)
}

func TestFactoryRenderFailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	compiler, _ := newTestCompiler(t, nil, WithLogger(zap.New(core)))
	f := compiler.Factory()
	ctx := context.Background()

	tests := []struct {
		name       string
		identifier string
		args       Arguments
		message    string
	}{
		{"not found", "missing", Arguments{}, "component not found"},
		{"undefined argument", "badge", Arguments{Named: map[string]any{"nope": "x"}}, "component create failed"},
		{"build failed", "greeting", Arguments{}, "component build failed"},
		{"compile failed", "failing", Arguments{}, "component compile failed"},
		{"compile panicked", "broken", Arguments{}, "component panicked during compile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := f.Render(ctx, compiler, tt.identifier, tt.args, nodes.CacheOff)
			assert.Empty(t, html)
			assert.Equal(t, 1, logs.FilterMessage(tt.message).Len())
		})
	}
	assert.Empty(t, f.Instantiated())
}

func TestFactoryRenderPanicsOnContractViolation(t *testing.T) {
	compiler, _ := newTestCompiler(t, nil)
	assert.Panics(t, func() {
		compiler.Factory().Render(context.Background(), compiler, "badge", Arguments{Content: []string{"x"}}, nodes.CacheOff)
	})
}

func TestFactoryRenderBuildStep(t *testing.T) {
	compiler, _ := newTestCompiler(t, nil, WithServices(ServiceMap{"greeting": "Hello"}))
	html := compiler.Factory().Render(context.Background(), compiler, "greeting",
		Arguments{Named: map[string]any{"who": "Ada"}}, nodes.CacheOff)
	assert.Equal(t, "<p>Hello, Ada</p>", html)
}

func TestFactoryCacheModes(t *testing.T) {
	ctx := context.Background()

	t.Run("off renders every time", func(t *testing.T) {
		compiler, calls := newTestCompiler(t, nil)
		f := compiler.Factory()
		assert.Equal(t, "<i>1</i>", f.Render(ctx, compiler, "counter", Arguments{}, nodes.CacheOff))
		assert.Equal(t, "<i>2</i>", f.Render(ctx, compiler, "counter", Arguments{}, nodes.CacheOff))
		assert.Equal(t, 2, *calls)
	})

	t.Run("auto is off for runtime components", func(t *testing.T) {
		compiler, calls := newTestCompiler(t, nil)
		f := compiler.Factory()
		f.Render(ctx, compiler, "counter", Arguments{}, nodes.CacheAuto)
		f.Render(ctx, compiler, "counter", Arguments{}, nodes.CacheAuto)
		assert.Equal(t, 2, *calls)
	})

	t.Run("on memoises by unique id", func(t *testing.T) {
		compiler, calls := newTestCompiler(t, nil)
		f := compiler.Factory()
		assert.Equal(t, "<i>1</i>", f.Render(ctx, compiler, "counter", Arguments{}, nodes.CacheOn))
		assert.Equal(t, "<i>1</i>", f.Render(ctx, compiler, "counter", Arguments{}, nodes.CacheOn))
		assert.Equal(t, 1, *calls)

		other := Arguments{Attributes: NewAttributes("id", "second")}
		assert.Equal(t, "<i>2</i>", f.Render(ctx, compiler, "counter", other, nodes.CacheOn))

		f.ClearCache()
		assert.Equal(t, "<i>3</i>", f.Render(ctx, compiler, "counter", Arguments{}, nodes.CacheOn))

		rec, ok := f.Properties("counter")
		require.True(t, ok)
		ids := f.Instantiated()[rec.Class]
		require.Len(t, ids, 4)
		assert.Equal(t, ids[0], ids[1])
		assert.NotEqual(t, ids[0], ids[2])
		assert.Equal(t, ids[0], ids[3])
	})

	t.Run("ephemeral memoises per render scope", func(t *testing.T) {
		compiler, calls := newTestCompiler(t, nil)
		f := compiler.Factory()

		scope := NewRenderScope(ctx)
		f.Render(scope, compiler, "counter", Arguments{}, nodes.CacheEphemeral)
		f.Render(scope, compiler, "counter", Arguments{}, nodes.CacheEphemeral)
		assert.Equal(t, 1, *calls)

		f.Render(NewRenderScope(ctx), compiler, "counter", Arguments{}, nodes.CacheEphemeral)
		assert.Equal(t, 2, *calls)

		// Without a scope nothing is memoised.
		f.Render(ctx, compiler, "counter", Arguments{}, nodes.CacheEphemeral)
		f.Render(ctx, compiler, "counter", Arguments{}, nodes.CacheEphemeral)
		assert.Equal(t, 4, *calls)
	})
}

func TestFactoryComponentNode(t *testing.T) {
	compiler, _ := newTestCompiler(t, nil)
	f := compiler.Factory()
	ctx := context.Background()

	element := func(src string) *nodes.NodeCompiler {
		root := markup.MustParse(src)
		return nodes.NewNodeCompiler(root.Children[0].(*markup.Element))
	}

	t.Run("static component renders now", func(t *testing.T) {
		n, err := f.ComponentNode(ctx, compiler, "logo", element(`<logo></logo>`))
		require.NoError(t, err)
		static, ok := n.(*nodes.StaticNode)
		require.True(t, ok)
		assert.Equal(t, `<img src="/logo.svg" alt="logo">`, static.HTML)
	})

	t.Run("runtime component is spliced", func(t *testing.T) {
		n, err := f.ComponentNode(ctx, compiler, "alert", element(`<ui:alert:info>Hi</ui:alert:info>`))
		require.NoError(t, err)
		call, ok := n.(*nodes.ComponentNode)
		require.True(t, ok)
		assert.Equal(t, "alert", call.Name)
		assert.Equal(t, nodes.CacheAuto, call.Mode)
		assert.Contains(t, call.Call(), `{{component "alert" "`)
	})

	t.Run("static component with dynamic arguments needs a node provider", func(t *testing.T) {
		_, err := f.ComponentNode(ctx, compiler, "logo", element(`<logo size="{{.Size}}"></logo>`))
		assert.ErrorIs(t, err, ErrNotImplemented)
		assert.True(t, IsContractViolation(err))
	})

	t.Run("unknown component", func(t *testing.T) {
		_, err := f.ComponentNode(ctx, compiler, "missing", element(`<missing></missing>`))
		assert.ErrorIs(t, err, ErrComponentNotFound)
		assert.True(t, IsNotFound(err))
	})
}

func TestFactoryContainer(t *testing.T) {
	reg, _ := newTestRegistry(t)
	built := 0
	container := Constructors{alertClass: func() Component {
		built++
		return &Alert{}
	}}
	f := NewFactory(reg, WithContainer(container))
	compiler := NewCompiler(f)

	html := f.Render(context.Background(), compiler, "alert", Arguments{Tag: "alert:info"}, nodes.CacheOff)
	assert.Equal(t, `<div class="alert alert-info"></div>`, html)
	assert.Equal(t, 1, built)

	// Classes the container cannot construct render nothing.
	assert.Empty(t, f.Render(context.Background(), compiler, "badge", Arguments{}, nodes.CacheOff))
}

func TestFactoryProperties(t *testing.T) {
	reg, _ := newTestRegistry(t)
	f := NewFactory(reg)

	rec, ok := f.Properties("view:alert:warning")
	require.True(t, ok)
	assert.Equal(t, "alert", rec.Name)
	assert.True(t, f.HasComponent(alertClass))
	assert.True(t, f.HasTag("ui:counter"))
	assert.False(t, f.HasTag("div"))
	assert.Same(t, reg, f.Registry())
}

func TestFactoryMetricsAndTracing(t *testing.T) {
	promReg := prometheus.NewRegistry()
	compiler, _ := newTestCompiler(t, nil,
		WithMetrics(promReg),
		WithTracer(noop.NewTracerProvider().Tracer("test")))
	f := compiler.Factory()
	ctx := context.Background()

	f.Render(ctx, compiler, "counter", Arguments{}, nodes.CacheOn)
	f.Render(ctx, compiler, "counter", Arguments{}, nodes.CacheOn)
	f.Render(ctx, compiler, "missing", Arguments{}, nodes.CacheOff)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.renders.WithLabelValues("counter", "rendered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.renders.WithLabelValues("counter", "cached")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.renders.WithLabelValues("missing", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.cache.WithLabelValues("on", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.cache.WithLabelValues("on", "miss")))
}

func TestNewMetricsSharesCollectors(t *testing.T) {
	promReg := prometheus.NewRegistry()
	first := NewMetrics(promReg)
	second := NewMetrics(promReg)

	first.render("alert", "rendered")
	assert.Equal(t, 1.0, testutil.ToFloat64(second.renders.WithLabelValues("alert", "rendered")))

	var none *Metrics
	assert.NotPanics(t, func() { none.render("alert", "rendered") })
}

func TestArgumentsFromPayload(t *testing.T) {
	p := nodes.Payload{
		Tag: "ui:alert",
		Attributes: []nodes.Attr{
			{Name: "title", Value: nodes.Value{Text: "a & b"}},
			{Name: "hidden", Bare: true},
			{Name: "class", Value: nodes.Value{Template: "tv.class"}},
		},
		Content: []nodes.Value{{Text: "<b>x</b>"}, {Template: "tv.body"}},
	}

	args, err := ArgumentsFromPayload(p, func(v nodes.Value) (string, error) {
		if v.Template == "tv.class" {
			return "big &amp; bold", nil
		}
		return "<i>y</i>", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ui:alert", args.Tag)
	assert.Equal(t, "a & b", args.Attributes.Value("title"))
	assert.True(t, args.Attributes.Has("hidden"))
	assert.Equal(t, "big & bold", args.Attributes.Value("class"))
	assert.Equal(t, []string{"<b>x</b>", "<i>y</i>"}, args.Content)

	_, err = ArgumentsFromPayload(p, nil)
	assert.Error(t, err)
}
