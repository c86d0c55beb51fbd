// Package keys normalizes caller supplied storage keys and derives the identity
// keys of data entities. Both kinds of keys end up as cache keys of the provider.
package keys

import (
	"github.com/ValentinKolb/storagefor/lib/common"
	"reflect"
	"regexp"
	"strings"
)

// --------------------------------------------------------------------------
// Key normalization
// --------------------------------------------------------------------------

var (
	camelBoundary = regexp.MustCompile(`([a-z\d])([A-Z])`)
	separators    = regexp.MustCompile(`[ _]`)
)

// Normalize case-folds and hyphenates a key so spelling variants of the same
// logical key collapse to one canonical key:
//
//	Normalize("MyKey")    == "my-key"
//	Normalize("my_key")   == "my-key"
//	Normalize("innerHTML") == "inner-html"
func Normalize(raw string) string {
	decamelized := strings.ToLower(camelBoundary.ReplaceAllString(raw, "${1}_${2}"))
	return separators.ReplaceAllString(decamelized, "-")
}

// Canonical normalizes a key and checks that it can be used as a cache key.
// Identity keys contain a ':' and share the cache with canonical keys, so a
// canonical key containing ':' is rejected with common.ErrConfiguration.
func Canonical(raw string) (string, error) {
	canonical := Normalize(raw)
	if strings.Contains(canonical, IdentitySeparator) {
		return "", common.ConfigurationErrorf("storage key %q must not contain %q", raw, IdentitySeparator)
	}
	return canonical, nil
}

// --------------------------------------------------------------------------
// Entity identity
// --------------------------------------------------------------------------

// IdentitySeparator joins type and id in identity keys.
const IdentitySeparator = ":"

// Entity is a data record that storage can be attached to.
type Entity interface {
	// EntityType returns the type discriminator (e.g. "post").
	EntityType() string
	// EntityID returns the id of the record (e.g. "7").
	EntityID() string
}

// Ref is a plain Entity value.
type Ref struct {
	Type string
	ID   string
}

func (r Ref) EntityType() string { return r.Type }
func (r Ref) EntityID() string   { return r.ID }

// String returns the identity key of the reference, without validation.
func (r Ref) String() string { return r.Type + IdentitySeparator + r.ID }

// DeriveIdentity returns the identity key "{type}:{id}" of an entity.
// It fails with common.ErrInvalidEntity if the type or the id is empty.
func DeriveIdentity(e Entity) (string, error) {
	if IsUnset(e) {
		return "", common.InvalidEntityf("the entity must not be nil")
	}
	typ, id := e.EntityType(), e.EntityID()
	if typ == "" || id == "" {
		return "", common.InvalidEntityf("the entity must have a type and an id (type=%q, id=%q)", typ, id)
	}
	return typ + IdentitySeparator + id, nil
}

// ParseRef parses an identity key of the form "type:id".
func ParseRef(s string) (Ref, error) {
	typ, id, ok := strings.Cut(s, IdentitySeparator)
	if !ok || typ == "" || id == "" {
		return Ref{}, common.InvalidEntityf("invalid entity reference %q, expected type:id", s)
	}
	return Ref{Type: typ, ID: id}, nil
}

// IsUnset reports whether v is nil or a typed nil (e.g. a nil *Post stored in
// an interface). Unset entity values are passed through by the provider.
func IsUnset(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
