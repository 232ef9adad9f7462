package tagview

import (
	"strings"

	"github.com/pthm/tagview/lib/encoding"
)

// IDLength is the length of a component unique id.
const IDLength = 16

// IsExplicitID reports whether id is a 16 character alphanumeric id that
// Create uses verbatim.
func IsExplicitID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// identity is the canonical form of a call site that unique ids hash.
type identity struct {
	Name       string         `msgpack:"name"`
	Tag        string         `msgpack:"tag"`
	Attributes [][2]string    `msgpack:"attributes"`
	Content    []string       `msgpack:"content"`
	Named      map[string]any `msgpack:"named"`
	Positional []segment      `msgpack:"positional"`
}

type segment struct {
	Position int    `msgpack:"p"`
	Value    string `msgpack:"v"`
}

// UniqueID derives the id of a call site. An explicit id is lower-cased and
// used as is; any other non-empty id is hashed. Otherwise the id is the
// 64-bit xxhash of the canonical msgpack encoding of the arguments, so equal
// arguments always yield equal ids. It is a cache key, not a secret.
func UniqueID(name string, args Arguments, explicit string) (string, error) {
	if IsExplicitID(explicit) {
		return strings.ToLower(explicit), nil
	}
	if explicit != "" {
		return encoding.SumString(explicit), nil
	}
	var positional []segment
	for _, i := range args.positions() {
		positional = append(positional, segment{Position: i, Value: args.Positional[i]})
	}
	return encoding.Hash(identity{
		Name:       name,
		Tag:        args.Tag,
		Attributes: args.Attributes.pairs(),
		Content:    args.Content,
		Named:      args.Named,
		Positional: positional,
	})
}
