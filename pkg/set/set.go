// Package set provides an unordered, duplicate-free collection
// of arbitrary values. Iteration follows insertion order, which
// keeps rendered output stable between runs.
package set

import (
	"fmt"
	"math"
	"reflect"

	"github.com/google/go-cmp/cmp"

	"digital.vasic.setmatch/pkg/inspect"
)

const (
	// Prefix opens a rendered set.
	Prefix = "Set(["
	// Suffix closes a rendered set.
	Suffix = "])"
)

// Set holds unique values. Comparable values are indexed by hash;
// other values (slices, maps, funcs) are compared structurally.
// A Set is not safe for concurrent mutation.
type Set struct {
	index  map[any]int
	values []any
	// unhashed lists positions of values that cannot be map keys.
	unhashed []int
}

// New creates a Set holding the given values. Duplicates are
// dropped, keeping the first occurrence.
func New(values ...any) *Set {
	s := &Set{index: make(map[any]int, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// FromSlice builds a Set from any slice or array value.
func FromSlice(v any) (*Set, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf(
			"cannot build a set from %T: not array-like", v,
		)
	}

	s := &Set{index: make(map[any]int, rv.Len())}
	for i := 0; i < rv.Len(); i++ {
		s.Add(rv.Index(i).Interface())
	}
	return s, nil
}

// Add inserts v and reports whether it was not already present.
func (s *Set) Add(v any) bool {
	if s.Has(v) {
		return false
	}
	if s.index == nil {
		s.index = make(map[any]int)
	}

	pos := len(s.values)
	s.values = append(s.values, v)
	if hashable(v) {
		s.index[indexKey(v)] = pos
	} else {
		s.unhashed = append(s.unhashed, pos)
	}
	return true
}

// Has reports whether v is a member.
func (s *Set) Has(v any) bool {
	if s == nil {
		return false
	}
	if hashable(v) {
		_, ok := s.index[indexKey(v)]
		return ok
	}
	for _, pos := range s.unhashed {
		if equivalent(s.values[pos], v) {
			return true
		}
	}
	return false
}

// Size returns the number of members.
func (s *Set) Size() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// ForEach visits members in insertion order until fn returns
// false.
func (s *Set) ForEach(fn func(v any) bool) {
	if s == nil {
		return
	}
	for _, v := range s.values {
		if !fn(v) {
			return
		}
	}
}

// Values returns the members in insertion order.
func (s *Set) Values() []any {
	if s == nil {
		return []any{}
	}
	out := make([]any, len(s.values))
	copy(out, s.values)
	return out
}

// Equal reports whether both sets hold the same members,
// regardless of insertion order.
func (s *Set) Equal(other *Set) bool {
	if s.Size() != other.Size() {
		return false
	}
	equal := true
	s.ForEach(func(v any) bool {
		equal = other.Has(v)
		return equal
	})
	return equal
}

// Inspect renders the set for diagnostics.
func (s *Set) Inspect(depth int, cfg inspect.Config) string {
	items := make([]string, 0, s.Size())
	s.ForEach(func(v any) bool {
		items = append(items, inspect.At(v, depth-1, cfg))
		return true
	})
	return inspect.Collection(Prefix, Suffix, items, depth, cfg)
}

// String renders the set with the process-wide inspect defaults.
func (s *Set) String() string {
	return inspect.Value(s, inspect.Default())
}

func hashable(v any) (ok bool) {
	if v == nil {
		return true
	}
	if !reflect.TypeOf(v).Comparable() {
		return false
	}
	// Structs and arrays holding interfaces are only comparable
	// when the dynamic values are, so probe with a real lookup.
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = map[any]struct{}{v: {}}
	return true
}

// nanKey stands in for NaN, which never equals itself as a map
// key. NaN nested inside structs or arrays is not normalised.
type nanKey struct{ t reflect.Type }

func indexKey(v any) any {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) {
			return nanKey{reflect.TypeOf(v)}
		}
	case float32:
		if math.IsNaN(float64(f)) {
			return nanKey{reflect.TypeOf(v)}
		}
	}
	return v
}

var allowUnexported = cmp.Exporter(func(reflect.Type) bool { return true })

func equivalent(a, b any) bool {
	return cmp.Equal(a, b, allowUnexported)
}
