// Package encoding serializes component arguments.
//
// Two forms are produced from the same msgpack representation:
//   - Canonical bytes: msgpack with sorted map keys, used as hash input for
//     component unique ids.
//   - Literals: base64 (URL alphabet, unpadded) of the canonical bytes, safe
//     to embed as a string constant in compiled template source.
package encoding

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel errors for literal decoding.
var (
	ErrInvalidFormat = errors.New("invalid literal format")
	ErrEmptyLiteral  = errors.New("empty literal")
)

// Canonical returns the msgpack encoding of v with map keys sorted, so equal
// values always produce equal bytes.
func Canonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal encodes v as a literal string.
func Marshal(v any) (string, error) {
	packed, err := Canonical(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(packed), nil
}

// Unmarshal decodes a literal produced by Marshal into v.
func Unmarshal(literal string, v any) error {
	if literal == "" {
		return ErrEmptyLiteral
	}
	packed, err := base64.RawURLEncoding.DecodeString(literal)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := msgpack.Unmarshal(packed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return nil
}

// Sum returns the 64-bit xxhash of data as 16 lower-case hex characters.
func Sum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// SumString is Sum for strings.
func SumString(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

// Hash returns Sum of the canonical encoding of v.
func Hash(v any) (string, error) {
	packed, err := Canonical(v)
	if err != nil {
		return "", err
	}
	return Sum(packed), nil
}
