package assertion

import (
	"reflect"

	"digital.vasic.setmatch/pkg/diff"
	"digital.vasic.setmatch/pkg/inspect"
	"digital.vasic.setmatch/pkg/set"
)

// Built-in subject type names.
const (
	TypeAny       = "any"
	TypeBoolean   = "boolean"
	TypeNumber    = "number"
	TypeString    = "string"
	TypeArrayLike = "array-like"
	TypeSet       = "Set"
)

// Type describes a kind of subject. Assertions are registered
// per type and looked up along the Base chain, so an assertion
// registered for "any" applies to every subject.
type Type struct {
	Name string
	// Base is the parent type name. Only "any" has none.
	Base string
	// Identify reports whether v belongs to this type.
	Identify func(v any) bool
	// Equal overrides "to equal" for subjects of this type.
	Equal func(actual, expected any) bool
	// Inspect overrides how subjects render in messages.
	Inspect func(v any, depth int, cfg inspect.Config) string
	// Diff builds the "to equal" report; nil means no report.
	Diff func(actual, expected any) *diff.Report
	// Prefix and Suffix frame collection reports.
	Prefix string
	Suffix string
}

func builtinTypes() []Type {
	return []Type{
		{
			Name:     TypeAny,
			Identify: func(any) bool { return true },
		},
		{
			Name: TypeBoolean,
			Base: TypeAny,
			Identify: func(v any) bool {
				_, ok := v.(bool)
				return ok
			},
		},
		{
			Name: TypeNumber,
			Base: TypeAny,
			Identify: func(v any) bool {
				_, ok := toNumber(v)
				return ok
			},
		},
		{
			Name: TypeString,
			Base: TypeAny,
			Identify: func(v any) bool {
				_, ok := v.(string)
				return ok
			},
		},
		{
			Name: TypeArrayLike,
			Base: TypeAny,
			Identify: func(v any) bool {
				_, ok := elements(v)
				return ok
			},
			Prefix: "[",
			Suffix: "]",
		},
		{
			Name: TypeSet,
			Base: TypeAny,
			Identify: func(v any) bool {
				_, ok := v.(*set.Set)
				return ok
			},
			Equal: func(actual, expected any) bool {
				other, ok := asSet(expected)
				return ok && actual.(*set.Set).Equal(other)
			},
			Inspect: func(v any, depth int, cfg inspect.Config) string {
				return v.(*set.Set).Inspect(depth, cfg)
			},
			Diff: func(actual, expected any) *diff.Report {
				other, ok := asSet(expected)
				if !ok {
					return nil
				}
				return diff.Sets(actual.(*set.Set), other)
			},
			Prefix: set.Prefix,
			Suffix: set.Suffix,
		},
	}
}

func toNumber(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// elements returns the items of a slice or array.
func elements(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asSet accepts a Set or anything array-like.
func asSet(v any) (*set.Set, bool) {
	if s, ok := v.(*set.Set); ok {
		return s, s != nil
	}
	if _, ok := elements(v); !ok {
		return nil, false
	}
	s, err := set.FromSlice(v)
	return s, err == nil
}
