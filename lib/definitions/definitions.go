// Package definitions loads storage descriptors from YAML files.
//
// A definitions file lists descriptors by caller key:
//
//	descriptors:
//	  - key: prefs
//	    type: object          # object (default) | array | plain
//	    kind: local           # local (default) | session
//	    initialContent:
//	      theme: dark
//	  - key: recentPosts
//	    type: array
//	    kind: session
//	    items: []
//	  - key: settings
//	    type: plain
//	    properties:
//	      pageSize: 20
//
// Keys are normalized, so "recentPosts" registers "storage:recent-posts".
// Initial content is seeded by a generated producer function. A literal
// initialState entry is kept as it is: it is data and not a function, which
// makes provisioning of that descriptor fail with a configuration error.
package definitions

import (
	"fmt"
	"github.com/ValentinKolb/storagefor/lib/codec"
	"github.com/ValentinKolb/storagefor/lib/descriptor"
	"github.com/ValentinKolb/storagefor/lib/keys"
	"github.com/ValentinKolb/storagefor/lib/proxy"
	"github.com/ValentinKolb/storagefor/lib/store"
	"gopkg.in/yaml.v3"
	"maps"
	"os"
)

// File is the top-level structure of a definitions file.
type File struct {
	Descriptors []Definition `yaml:"descriptors"`
}

// Definition describes one descriptor.
type Definition struct {
	Key            string         `yaml:"key"`
	Type           string         `yaml:"type"`
	Kind           string         `yaml:"kind"`
	InitialContent map[string]any `yaml:"initialContent"`
	Items          []any          `yaml:"items"`
	Properties     map[string]any `yaml:"properties"`
	InitialState   any            `yaml:"initialState"`
}

// LoadFile reads and parses a definitions file.
func LoadFile(path string, c codec.ICodec) ([]*descriptor.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	return Parse(data, c)
}

// Parse parses definitions and builds their descriptors.
func Parse(data []byte, c codec.ICodec) ([]*descriptor.Descriptor, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}

	out := make([]*descriptor.Descriptor, 0, len(f.Descriptors))
	for i, def := range f.Descriptors {
		d, err := def.Build(c)
		if err != nil {
			return nil, fmt.Errorf("descriptor %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// Build creates the descriptor of a definition.
func (def Definition) Build(c codec.ICodec) (*descriptor.Descriptor, error) {
	if def.Key == "" {
		return nil, fmt.Errorf("key is required")
	}
	canonical, err := keys.Canonical(def.Key)
	if err != nil {
		return nil, err
	}

	kind := store.KindLocal
	if def.Kind != "" {
		k, err := store.ParseKind(def.Kind)
		if err != nil {
			return nil, err
		}
		kind = k
	}

	opts := []descriptor.Option{descriptor.WithKind(kind)}
	switch {
	case def.InitialState != nil:
		opts = append(opts, descriptor.WithInitialState(def.InitialState))
	case def.InitialContent != nil || def.Items != nil:
		opts = append(opts, descriptor.WithInitialState(seed(def.InitialContent, def.Items)))
	}

	switch def.Type {
	case "", "object":
		return proxy.ObjectDescriptor(canonical, c, opts...), nil
	case "array":
		return proxy.ArrayDescriptor(canonical, c, opts...), nil
	case "plain":
		return descriptor.NewPlain(descriptor.NameFor(canonical), def.Properties, opts...), nil
	default:
		return nil, fmt.Errorf("invalid type %q. must be one of object, array, plain", def.Type)
	}
}

// seed returns a producer handing out a fresh copy of the content per call.
func seed(content map[string]any, items []any) descriptor.InitialStateFunc {
	return func(any) descriptor.State {
		s := descriptor.State(maps.Clone(content))
		if s == nil {
			s = descriptor.State{}
		}
		if items != nil {
			s[proxy.ItemsField] = append([]any{}, items...)
		}
		return s
	}
}
