package tagview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alertPromotions = Promotions{"alert": {"", "type"}}

func TestPromoteTag(t *testing.T) {
	tests := []struct {
		name       string
		tag        string
		promote    Promotions
		wantTag    string
		named      map[string]any
		positional map[int]string
	}{
		{
			name:    "promoted segment",
			tag:     "card:header",
			promote: Promotions{"card": {"", "slot"}},
			wantTag: "card",
			named:   map[string]any{"slot": "header"},
		},
		{
			name:       "namespace and positional segment",
			tag:        "ui:alert:warning:dismissible",
			promote:    alertPromotions,
			wantTag:    "alert",
			named:      map[string]any{"type": "warning"},
			positional: map[int]string{2: "dismissible"},
		},
		{
			name:       "no promotion table",
			tag:        "alert:warning",
			wantTag:    "alert",
			positional: map[int]string{1: "warning"},
		},
		{
			name:    "plain tag",
			tag:     "alert",
			promote: alertPromotions,
			wantTag: "alert",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := Arguments{Tag: tt.tag}
			PromoteTag(&args, tt.promote)
			assert.Equal(t, tt.wantTag, args.Tag)
			assert.Equal(t, tt.named, args.Named)
			assert.Equal(t, tt.positional, args.Positional)
		})
	}
}

func TestCreateBindsArguments(t *testing.T) {
	a := &Alert{}
	err := Create(context.Background(), a, Arguments{
		Tag:        "ui:alert:warning:dismissible",
		Attributes: NewAttributes("class", "wide"),
		Content:    []string{"Careful"},
	}, alertPromotions, "")
	require.NoError(t, err)

	assert.True(t, a.Created())
	assert.False(t, a.Rendered())
	assert.Equal(t, "alert", a.Name())
	assert.Equal(t, "alert", a.Tag())
	assert.Equal(t, "warning", a.Type)
	assert.True(t, a.IsDismissible())
	assert.Equal(t, "wide", a.Attributes().Value("class"))
	assert.Equal(t, 1, a.Content().Len())
	assert.Len(t, a.UniqueID(), IDLength)
}

func TestCreateMovesArgumentAttributes(t *testing.T) {
	a := &Alert{}
	require.NoError(t, Create(context.Background(), a, Arguments{
		Tag:        "alert",
		Attributes: NewAttributes("type", "info", "id", "main"),
	}, alertPromotions, ""))

	assert.Equal(t, "info", a.Type)
	assert.False(t, a.Attributes().Has("type"))
	assert.Equal(t, "main", a.Attributes().Value("id"))
}

func TestCreateKeepsPresetFields(t *testing.T) {
	a := &Alert{Type: "preset"}
	require.NoError(t, Create(context.Background(), a, Arguments{
		Named: map[string]any{"type": "info"},
	}, nil, ""))
	assert.Equal(t, "preset", a.Type)
}

func TestCreateFixedTag(t *testing.T) {
	b := &Button{}
	require.NoError(t, Create(context.Background(), b, Arguments{Tag: "ui:action", Content: []string{"Go"}}, nil, ""))
	assert.Equal(t, "button", b.Tag())
}

func TestCreateErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("content without holder", func(t *testing.T) {
		err := Create(ctx, &Badge{}, Arguments{Content: []string{"x"}}, nil, "")
		assert.ErrorIs(t, err, ErrContentNotSupported)
		assert.True(t, IsContractViolation(err))
	})

	t.Run("undefined argument", func(t *testing.T) {
		b := &Badge{}
		err := Create(ctx, b, Arguments{Named: map[string]any{"label": "New", "nope": "x"}}, nil, "")
		require.Error(t, err)

		var ae *ArgumentError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "badge", ae.Component)
		assert.Equal(t, "nope", ae.Argument)
		assert.ErrorIs(t, err, ErrUndefinedArgument)
		assert.False(t, IsContractViolation(err))

		// Other arguments are still bound.
		assert.Equal(t, "New", b.Label)
		assert.True(t, b.Created())
	})

	t.Run("unconvertible value", func(t *testing.T) {
		err := Create(ctx, &Badge{}, Arguments{Named: map[string]any{"label": []int{1}}}, nil, "")
		var ae *ArgumentError
		require.True(t, errors.As(err, &ae))
		assert.NotErrorIs(t, err, ErrUndefinedArgument)
	})

	t.Run("invalid tag", func(t *testing.T) {
		err := Create(ctx, &Badge{}, Arguments{Tag: "9lives"}, nil, "")
		assert.ErrorIs(t, err, ErrInvalidTag)
	})

	t.Run("created twice", func(t *testing.T) {
		b := &Badge{}
		require.NoError(t, Create(ctx, b, Arguments{}, nil, ""))
		err := Create(ctx, b, Arguments{}, nil, "")
		assert.ErrorIs(t, err, ErrAlreadyCreated)
		assert.True(t, IsContractViolation(err))
	})
}

func TestUniqueID(t *testing.T) {
	args := func() Arguments {
		return Arguments{
			Tag:        "alert",
			Attributes: NewAttributes("class", "wide"),
			Named:      map[string]any{"b": 2, "a": "x"},
			Positional: map[int]string{2: "dismissible", 1: "warning"},
		}
	}

	first, err := UniqueID("alert", args(), "")
	require.NoError(t, err)
	second, err := UniqueID("alert", args(), "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, IDLength)

	other := args()
	other.Attributes.Set("class", "narrow")
	third, err := UniqueID("alert", other, "")
	require.NoError(t, err)
	assert.NotEqual(t, first, third)

	renamed, err := UniqueID("notice", args(), "")
	require.NoError(t, err)
	assert.NotEqual(t, first, renamed)

	explicit, err := UniqueID("alert", args(), "ABCDEF0123456789")
	require.NoError(t, err)
	assert.Equal(t, "abcdef0123456789", explicit)

	hashed, err := UniqueID("alert", args(), "main")
	require.NoError(t, err)
	assert.Len(t, hashed, IDLength)
	assert.NotEqual(t, "main", hashed)

	assert.True(t, IsExplicitID("abcdefABCDEF0123"))
	assert.False(t, IsExplicitID("abcdef-abcdef-01"))
	assert.False(t, IsExplicitID("short"))
}

func TestRenderLifecycle(t *testing.T) {
	compiler, _ := newTestCompiler(t, nil)
	ctx := context.Background()

	t.Run("before create panics", func(t *testing.T) {
		var err error
		func() {
			defer func() { err, _ = recover().(error) }()
			Render(ctx, &Alert{}, compiler)
		}()
		assert.ErrorIs(t, err, ErrNotCreated)
	})

	t.Run("renders and memoises", func(t *testing.T) {
		a := &Alert{}
		require.NoError(t, Create(ctx, a, Arguments{Tag: "alert:warning", Content: []string{"Careful"}}, alertPromotions, ""))

		html, ok := Render(ctx, a, compiler)
		require.True(t, ok)
		assert.Equal(t, `<div class="alert alert-warning">Careful</div>`, html)
		assert.True(t, a.Rendered())

		// Content was consumed by the first render; the memoised html is
		// returned regardless.
		again, ok := Render(ctx, a, compiler)
		assert.True(t, ok)
		assert.Equal(t, html, again)
	})

	t.Run("compile is called once", func(t *testing.T) {
		calls := 0
		c := &Counter{calls: &calls}
		require.NoError(t, Create(ctx, c, Arguments{}, nil, ""))
		Render(ctx, c, compiler)
		Render(ctx, c, compiler)
		assert.Equal(t, 1, calls)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		b := &Broken{}
		require.NoError(t, Create(ctx, b, Arguments{}, nil, ""))
		html, ok := Render(ctx, b, compiler)
		assert.False(t, ok)
		assert.Empty(t, html)
	})

	t.Run("error is not memoised", func(t *testing.T) {
		f := &Failing{}
		require.NoError(t, Create(ctx, f, Arguments{}, nil, ""))
		_, ok := Render(ctx, f, compiler)
		assert.False(t, ok)
		assert.False(t, f.Rendered())
	})
}

func TestTestRender(t *testing.T) {
	result, err := TestRender(&Greeting{}, Arguments{Named: map[string]any{"who": "Ada"}}, ServiceMap{"greeting": "Hello"})
	require.NoError(t, err)
	assert.True(t, result.HTMLContains("Hello, Ada"))
	assert.True(t, result.IsOK())
	assert.Len(t, result.ID, IDLength)

	_, err = TestRender(&Greeting{}, Arguments{}, nil)
	assert.Error(t, err)
}
