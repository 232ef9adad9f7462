// Package tagview provides tag-triggered view components for html/template.
//
// A component is a Go type that renders a fragment of html. Registering it
// claims one or more tags; any element using such a tag in a view is replaced
// by the component when the view is compiled.
//
//	<ui:alert type="warning">Disk almost full</ui:alert>
//	<card:header>Settings</card:header>
//
// # Core Concepts
//
// Components embed Base and implement Compile:
//
//	type Alert struct {
//	    tagview.Base
//	    tagview.InnerContent
//	    tagview.Splice
//	    Type string `arg:"type"`
//	}
//
//	func (a *Alert) Compile(ctx context.Context, c *tagview.Compiler) (string, error) {
//	    return c.RenderSource(ctx, alertTemplate, a)
//	}
//
// Optional behaviour is declared by implementing capability interfaces:
//   - ContentHolder (embed InnerContent): the component accepts nested content
//   - Builder: a build step runs between Create and Render with Services
//   - NodeProvider (embed Splice): the component renders per request
//   - FixedTagger, Namer, ArgumentNormalizer, ArgumentBinder
//
// # Registration
//
// Components are registered explicitly with a Descriptor:
//
//	reg := tagview.NewRegistry(tagview.WithLogger(logger))
//	reg.MustRegister(tagview.Describe(tagview.Descriptor{
//	    Tags: []string{"alert:{type}"},
//	    New:  func() tagview.Component { return &Alert{} },
//	}))
//
// Tags may carry ":"-separated segments. "{type}" promotes the segment
// written at that position into the "type" argument, so <alert:warning>
// binds Type = "warning". A bare segment calls the method of that name.
// The ui: and view: namespaces are stripped before lookup.
//
// Registration records may also come from a YAML manifest, see Manifest.
//
// # Compilation
//
// A Compiler parses view source, normalises its whitespace, runs extra
// passes and replaces component elements:
//   - static components with literal arguments render once, at compile
//     time, into the template
//   - other components become a call of the "component" template function
//     carrying their arguments as an encoded payload
//
// Compiled templates are cached in memory and, with WithCacheDir, on disk.
//
// # Rendering
//
//	views := tagview.NewCompiler(tagview.NewFactory(reg), tagview.WithLoader(loader))
//	html, err := views.Render(ctx, "home.html", data)
//
// Every render goes through the Factory: it resolves the component, lets the
// container construct it, runs Create, the build step and Render, and
// memoises the result according to the cache mode of the call site. Missing
// components and failing renders are logged and render nothing.
//
// # Errors
//
// Sentinel errors classify failures: IsNotFound, IsContractViolation and
// IsInvalidIdentifier. Contract violations, such as content passed to a
// component that cannot hold it, panic from the Factory.
package tagview
