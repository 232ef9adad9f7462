package tagview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegistryResolve(t *testing.T) {
	reg, _ := newTestRegistry(t)

	byName, ok := reg.Resolve("alert")
	require.True(t, ok)
	byClass, ok := reg.Resolve(alertClass)
	require.True(t, ok)
	byTag, ok := reg.Resolve("ui:alert:warning")
	require.True(t, ok)

	assert.Same(t, byName, byClass)
	assert.Same(t, byName, byTag)
	assert.Equal(t, "alert", byName.Name)
	assert.Equal(t, alertClass, byName.Class)
	assert.Equal(t, []string{"alert"}, byName.Tags)
	assert.Equal(t, []string{"", "type"}, byName.Promotion("alert:warning"))
	assert.True(t, byName.TargetsTag("view:alert"))
	assert.Equal(t, RenderRuntime, byName.RenderMode())

	_, ok = reg.Resolve("missing")
	assert.False(t, ok)
	assert.True(t, reg.HasComponent("logo"))
	assert.False(t, reg.HasComponent("ui:logo"))
	assert.True(t, reg.HasTag("ui:logo"))

	logo, ok := reg.ResolveTag("logo")
	require.True(t, ok)
	assert.True(t, logo.Static)
	assert.Equal(t, RenderStatic, logo.RenderMode())
}

func TestRegistryRecordsKeepOrder(t *testing.T) {
	reg, _ := newTestRegistry(t)

	var names []string
	for _, rec := range reg.Records() {
		names = append(names, rec.Name)
	}
	assert.Equal(t, []string{"alert", "logo", "badge", "greeting", "broken", "failing", "counter"}, names)
	assert.Equal(t, "badge", reg.Tags()["badge"])
}

func TestRegistryTagCollision(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	reg := NewRegistry(WithLogger(zap.New(core)))

	require.NoError(t, reg.Register(Descriptor{Name: "one", Class: "x.One", Tags: []string{"box"}, Priority: 1}))

	err := reg.Register(Descriptor{Name: "two", Class: "x.Two", Tags: []string{"box"}, Priority: 1})
	assert.ErrorIs(t, err, ErrTagCollision)
	assert.False(t, reg.HasComponent("two"))

	require.NoError(t, reg.Register(Descriptor{Name: "three", Class: "x.Three", Tags: []string{"box"}, Priority: 5}))
	name, _ := reg.Name("box")
	assert.Equal(t, "three", name)
	assert.Equal(t, 1, logs.FilterMessage("tag taken over by higher priority component").Len())

	require.NoError(t, reg.Register(Descriptor{Name: "four", Class: "x.Four", Tags: []string{"box"}, Priority: 2}))
	name, _ = reg.Name("box")
	assert.Equal(t, "three", name)
	assert.Equal(t, 1, logs.FilterMessage("tag kept by higher priority component").Len())

	// The losers stay reachable by name but no longer target the tag.
	for _, name := range []string{"one", "four"} {
		rec, ok := reg.Resolve(name)
		require.True(t, ok)
		assert.False(t, rec.TargetsTag("box"), name)
		assert.Empty(t, rec.Tags, name)
		assert.Equal(t, []string{"box"}, rec.Shadowed, name)
	}
	winner, ok := reg.Resolve("box")
	require.True(t, ok)
	assert.True(t, winner.TargetsTag("box"))
	assert.Empty(t, winner.Shadowed)
}

func TestRegistryTagsResolveToTheirRecord(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(
		Descriptor{Name: "card", Class: "x.Card", Tags: []string{"card:{slot}", "panel"}},
		Descriptor{Name: "fancy", Class: "x.Fancy", Tags: []string{"panel", "fancy"}, Priority: 3},
	))

	for _, rec := range reg.Records() {
		byName, ok := reg.Resolve(rec.Name)
		require.True(t, ok)
		byClass, ok := reg.Resolve(rec.Class)
		require.True(t, ok)
		assert.Same(t, byName, byClass)
		for _, tag := range rec.Tags {
			byTag, ok := reg.Resolve("ui:" + tag + ":x")
			require.True(t, ok, tag)
			assert.Same(t, byName, byTag, tag)
		}
	}

	card, _ := reg.Resolve("card")
	assert.Equal(t, []string{"card"}, card.Tags)
	assert.Equal(t, []string{"panel"}, card.Shadowed)
	assert.Nil(t, card.Promotion("panel"))
	assert.Equal(t, []string{"", "slot"}, card.Promotion("card"))
}

func TestRegistryRejects(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
		is   error
	}{
		{"invalid name", Descriptor{Name: "Bad Name"}, ErrInvalidName},
		{"leading digit", Descriptor{Name: "1abc"}, ErrInvalidName},
		{"invalid tag", Descriptor{Name: "cat", Tags: []string{"9lives"}}, ErrInvalidTag},
		{"promoted base", Descriptor{Name: "cat", Tags: []string{"{kind}:cat"}}, ErrInvalidTag},
		{"duplicate name", Descriptor{Name: "alert", Class: "x.Other"}, ErrDuplicateName},
		{"duplicate class", Descriptor{Name: "other", Class: alertClass}, ErrDuplicateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, _ := newTestRegistry(t)
			assert.ErrorIs(t, reg.Register(tt.desc), tt.is)
		})
	}

	t.Run("unknown render mode", func(t *testing.T) {
		reg := NewRegistry()
		assert.Error(t, reg.Register(Descriptor{Name: "cat", Render: "sometimes"}))
	})

	t.Run("must register panics", func(t *testing.T) {
		reg := NewRegistry()
		assert.Panics(t, func() { reg.MustRegister(Descriptor{Name: "Bad"}) })
	})
}

func TestRegistryWarnsAboutMissingPromotionTargets(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	reg := NewRegistry(WithLogger(zap.New(core)))

	require.NoError(t, reg.Register(Descriptor{
		Tags: []string{"badge:{color}:shiny"},
		New:  func() Component { return &Badge{} },
	}))
	assert.Equal(t, 1, logs.FilterMessage("promoted field not found").Len())
	assert.Equal(t, 1, logs.FilterMessage("subtype method not found").Len())
}

func TestRegistryContainer(t *testing.T) {
	reg, _ := newTestRegistry(t)

	c, ok := reg.New(alertClass)
	require.True(t, ok)
	assert.IsType(t, &Alert{}, c)

	_, ok = reg.New("x.Missing")
	assert.False(t, ok)
}

func TestRegistryFingerprint(t *testing.T) {
	reg, _ := newTestRegistry(t)
	before := reg.Fingerprint()
	assert.Equal(t, before, reg.Fingerprint())

	require.NoError(t, reg.Register(Descriptor{Name: "extra", Tags: []string{"extra"}}))
	assert.NotEqual(t, before, reg.Fingerprint())
}

func TestDescribeSetsSourceDir(t *testing.T) {
	d := Describe(Descriptor{Name: "cat"})
	assert.NotEmpty(t, d.SourceDir)
}
