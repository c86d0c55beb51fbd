// Package codec encodes the content of storage proxies into the bytes kept in
// a native store. The encoding of an item is owned by the proxy that writes it,
// the native store only sees opaque values.
//
// Two codecs are available:
//
//   - jsonCodec: human-readable values, compatible with values written by other
//     tools. Numbers decode as float64.
//
//   - gobCodec: Go's gob format. Preserves integer types, but only Go programs
//     can read the values.
//
// All codecs are stateless and safe for concurrent use.
package codec

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

func init() {
	// content is stored as interface values, gob needs the container types
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// ICodec is the interface for all value codecs.
type ICodec interface {
	// Name returns the name used in the configuration.
	Name() string
	// Encode encodes content (a map or a slice) into bytes.
	Encode(content any) ([]byte, error)
	// Decode decodes bytes into the value pointed to by out.
	Decode(b []byte, out any) error
}

// New returns the codec with the given name (json, gob).
func New(name string) (ICodec, error) {
	switch name {
	case "json", "":
		return NewJSONCodec(), nil
	case "gob":
		return NewGOBCodec(), nil
	default:
		return nil, fmt.Errorf("invalid codec %s", name)
	}
}

// --------------------------------------------------------------------------
// JSON
// --------------------------------------------------------------------------

// NewJSONCodec creates a new codec using json encoding
func NewJSONCodec() ICodec {
	return jsonCodec{}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(content any) ([]byte, error) {
	return json.Marshal(content)
}

func (jsonCodec) Decode(b []byte, out any) error {
	return json.Unmarshal(b, out)
}

// --------------------------------------------------------------------------
// GOB
// --------------------------------------------------------------------------

// NewGOBCodec creates a new codec using Go's binary gob format
func NewGOBCodec() ICodec {
	return gobCodec{}
}

type gobCodec struct{}

func (gobCodec) Name() string { return "gob" }

func (gobCodec) Encode(content any) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(content); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodec) Decode(b []byte, out any) error {
	dec := gob.NewDecoder(bytes.NewReader(b))
	return dec.Decode(out)
}
