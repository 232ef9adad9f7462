package nodes

import (
	"fmt"
	"strings"
)

// CacheMode controls how the factory caches a rendered component.
type CacheMode int

const (
	// CacheAuto caches static components and renders live ones each time.
	CacheAuto CacheMode = iota

	// CacheOn caches the rendered html by unique id for the factory lifetime.
	CacheOn

	// CacheOff renders on every call.
	CacheOff

	// CacheEphemeral caches for the duration of one template execution.
	CacheEphemeral
)

var cacheModeNames = [...]string{
	CacheAuto:      "auto",
	CacheOn:        "on",
	CacheOff:       "off",
	CacheEphemeral: "ephemeral",
}

func (m CacheMode) String() string {
	if m < 0 || int(m) >= len(cacheModeNames) {
		return fmt.Sprintf("CacheMode(%d)", int(m))
	}
	return cacheModeNames[m]
}

// ParseCacheMode parses the name of a cache mode. The empty string is
// CacheAuto.
func ParseCacheMode(s string) (CacheMode, error) {
	if s == "" {
		return CacheAuto, nil
	}
	for i, name := range cacheModeNames {
		if strings.EqualFold(s, name) {
			return CacheMode(i), nil
		}
	}
	return CacheAuto, fmt.Errorf("unknown cache mode %q", s)
}
