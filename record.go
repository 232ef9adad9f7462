package tagview

import "slices"

// Promotions maps a base tag to the bindings of its ":"-separated segments.
// Position i names the argument segment i is stored in; "" means the segment
// is not promoted and is passed on as a positional argument.
type Promotions map[string][]string

// Record is the static metadata of one registered component.
// Records are immutable once registered.
type Record struct {
	Name  string
	Class string

	// Static components render at compile time into the template cache.
	Static bool

	// Priority decides which component keeps a tag both declare; higher
	// wins.
	Priority int

	// Tags holds the base tags that trigger the component.
	Tags []string

	// Shadowed holds declared tags a higher priority component claims.
	Shadowed []string

	Tagged Promotions

	// Assets are co-located stylesheets and scripts.
	Assets []string
}

func (r *Record) String() string {
	return r.Name
}

// TargetsTag reports whether tag, after namespace and subtype stripping, is
// one of the record's tags.
func (r *Record) TargetsTag(tag string) bool {
	return slices.Contains(r.Tags, BaseTag(tag))
}

// Promotion returns the promotion table of a base tag.
func (r *Record) Promotion(tag string) []string {
	return r.Tagged[BaseTag(tag)]
}

// shadow moves tags from Tags to Shadowed. It is only called on records
// that have not been published yet.
func (r *Record) shadow(tags []string) {
	if len(tags) == 0 {
		return
	}
	r.Tags = slices.DeleteFunc(slices.Clone(r.Tags), func(t string) bool { return slices.Contains(tags, t) })
	r.Shadowed = append(slices.Clone(r.Shadowed), tags...)
	tagged := make(Promotions, len(r.Tagged))
	for tag, p := range r.Tagged {
		if !slices.Contains(tags, tag) {
			tagged[tag] = p
		}
	}
	r.Tagged = tagged
}

// withShadowed returns a copy of r with tags shadowed. Published records are
// never changed in place.
func (r *Record) withShadowed(tags []string) *Record {
	c := *r
	c.shadow(tags)
	return &c
}

// RenderMode returns "static" or "runtime".
func (r *Record) RenderMode() RenderMode {
	if r.Static {
		return RenderStatic
	}
	return RenderRuntime
}
