package tagview

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// RenderMode is the declared render strategy of a component.
type RenderMode string

const (
	RenderLive    RenderMode = "live"
	RenderRuntime RenderMode = "runtime"
	RenderStatic  RenderMode = "static"
)

// Descriptor declares a component for registration.
//
//	reg.MustRegister(tagview.Describe(tagview.Descriptor{
//	    Tags: []string{"alert:{type}"},
//	    New:  func() tagview.Component { return &Alert{} },
//	}))
//
// Tags may carry ":"-separated segments. A "{field}" segment promotes the
// segment written in the template into that argument; a bare word calls the
// method of that name when the segment is present.
type Descriptor struct {
	// Name defaults to ComponentName of the constructed component.
	Name string

	// Class defaults to the package path and type name of the constructed
	// component.
	Class string

	Render RenderMode

	// Static is shorthand for Render: RenderStatic.
	Static bool

	Priority int
	Tags     []string

	// New constructs a fresh instance for every call site.
	New func() Component

	// SourceDir is searched for co-located assets. Describe fills it with
	// the directory of the calling file.
	SourceDir string
}

// Describe returns d with SourceDir set to the directory of the caller's
// source file when it is empty.
func Describe(d Descriptor) Descriptor {
	if d.SourceDir == "" {
		if _, file, _, ok := runtime.Caller(1); ok {
			d.SourceDir = filepath.Dir(file)
		}
	}
	return d
}

// record validates the descriptor and builds its Record.
func (d Descriptor) record(logger *zap.Logger) (*Record, error) {
	var sample Component
	if d.New != nil {
		sample = d.New()
		if sample == nil {
			return nil, fmt.Errorf("tagview: descriptor %q: constructor returned nil", d.Name)
		}
	}

	name := d.Name
	if name == "" {
		if sample == nil {
			return nil, fmt.Errorf("tagview: descriptor needs a Name or a constructor")
		}
		var err error
		if name, err = ComponentName(sample); err != nil {
			return nil, err
		}
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	class := d.Class
	if class == "" {
		if sample != nil {
			class = className(sample)
		} else {
			class = name
		}
	}

	static := d.Static
	switch d.Render {
	case "", RenderLive, RenderRuntime:
	case RenderStatic:
		static = true
	default:
		return nil, fmt.Errorf("tagview: component %s: unknown render mode %q", name, d.Render)
	}

	rec := &Record{
		Name:     name,
		Class:    class,
		Static:   static,
		Priority: d.Priority,
		Tagged:   Promotions{},
	}
	for _, raw := range d.Tags {
		base, promotion, err := parseTag(raw)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", name, err)
		}
		if !IsNamespaced(strings.ToLower(strings.TrimSpace(raw))) && !IsKnownTag(base) {
			logger.Warn("unknown tag", zap.String("component", name), zap.String("tag", raw))
		}
		if sample != nil {
			checkPromotion(logger, sample, name, raw, promotion)
		}
		if _, seen := rec.Tagged[base]; !seen {
			rec.Tags = append(rec.Tags, base)
		}
		rec.Tagged[base] = promotion
	}
	if d.SourceDir != "" {
		rec.Assets = discoverAssets(d.SourceDir, name)
	}
	return rec, nil
}

// parseTag splits a declared tag into its base and promotion table.
func parseTag(raw string) (string, []string, error) {
	tag := StripNamespace(raw)
	plain := strings.NewReplacer("{", "", "}", "").Replace(tag)
	if err := ValidateTag(plain); err != nil {
		return "", nil, err
	}

	segments := strings.Split(tag, ":")
	promotion := make([]string, len(segments))
	for i, segment := range segments {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			promotion[i] = strings.TrimSpace(segment[1 : len(segment)-1])
		}
	}
	if strings.ContainsAny(segments[0], "{}") {
		return "", nil, &TagError{Tag: raw, Reason: "the base tag cannot be promoted"}
	}
	return segments[0], promotion, nil
}

// checkPromotion warns about promoted fields and subtype methods the
// component does not declare.
func checkPromotion(logger *zap.Logger, c Component, name, raw string, promotion []string) {
	segments := strings.Split(StripNamespace(raw), ":")
	for i := 1; i < len(segments); i++ {
		if promotion[i] != "" {
			if _, ok := argumentField(reflect.ValueOf(c), promotion[i]); !ok {
				logger.Warn("promoted field not found",
					zap.String("component", name), zap.String("tag", raw), zap.String("field", promotion[i]))
			}
			continue
		}
		if _, ok := argumentMethod(reflect.ValueOf(c), segments[i]); !ok {
			logger.Warn("subtype method not found",
				zap.String("component", name), zap.String("tag", raw), zap.String("method", segments[i]))
		}
	}
}

// discoverAssets lists .css and .js files in dir whose name starts with the
// component name.
func discoverAssets(dir, name string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var assets []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".css" && ext != ".js" {
			continue
		}
		if strings.HasPrefix(e.Name(), name) {
			assets = append(assets, filepath.Join(dir, e.Name()))
		}
	}
	return assets
}
