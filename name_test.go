package tagview

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name   string
		reason string
	}{
		{"alert", ""},
		{"card:header", ""},
		{"h1", ""},
		{"", "must be lower-case alphanumeric"},
		{"Alert", "must be lower-case alphanumeric"},
		{"al-ert", "must be lower-case alphanumeric"},
		{"1alert", "cannot start with a number"},
		{":alert", "must not start or end with a separator"},
		{"alert:", "must not start or end with a separator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.name)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			var ne *NameError
			require.True(t, errors.As(err, &ne))
			assert.Equal(t, tt.reason, ne.Reason)
			assert.ErrorIs(t, err, ErrInvalidName)
			assert.True(t, IsInvalidIdentifier(err))
		})
	}
}

func TestValidateTag(t *testing.T) {
	tests := []struct {
		tag    string
		reason string
	}{
		{"alert", ""},
		{"ui:alert:warning", ""},
		{"x-card", ""},
		{"", "tags cannot be empty"},
		{":alert", "tags cannot start with a separator"},
		{"1alert", "tags must start with a letter"},
		{"al ert", "tag contains invalid characters"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			err := ValidateTag(tt.tag)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			var te *TagError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.reason, te.Reason)
			assert.ErrorIs(t, err, ErrInvalidTag)
		})
	}
}

func TestBaseTag(t *testing.T) {
	tests := map[string]string{
		"alert":            "alert",
		"ui:alert:warning": "alert",
		"View:Card":        "card",
		" UI:Box ":         "box",
		"card:header":      "card",
	}
	for in, want := range tests {
		assert.Equal(t, want, BaseTag(in), in)
	}
	assert.True(t, IsNamespaced("ui:alert"))
	assert.False(t, IsNamespaced("alert:ui"))
	assert.Equal(t, "alert:warning", StripNamespace("ui:alert:warning"))
}

func TestComponentName(t *testing.T) {
	name, err := ComponentName(&Alert{})
	require.NoError(t, err)
	assert.Equal(t, "alert", name)

	name, err = ComponentName(&Widget{})
	require.NoError(t, err)
	assert.Equal(t, "fancy:widget", name)

	assert.Equal(t, alertClass, className(&Alert{}))
}
