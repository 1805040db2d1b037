package matcher

import (
	"context"
	"reflect"

	"github.com/google/go-cmp/cmp"

	"digital.vasic.setmatch/pkg/set"
)

// DeepMatchFunc compares an actual element with a literal.
type DeepMatchFunc func(actual, expected any) bool

type deepFunc func(ctx context.Context, actual, expected any) bool

// DeepMatch reports whether actual satisfies expected. Maps in
// expected need only a subset of the actual keys, numbers compare
// by value across numeric types, and predicates nested inside
// expected are invoked.
func DeepMatch(actual, expected any) bool {
	return deepMatch(context.Background(), actual, expected, false)
}

// DeepMatchExhaustive is DeepMatch where maps and sets must carry
// exactly the expected members.
func DeepMatchExhaustive(actual, expected any) bool {
	return deepMatch(context.Background(), actual, expected, true)
}

func defaultDeep(exhaustive bool) deepFunc {
	return func(ctx context.Context, actual, expected any) bool {
		return deepMatch(ctx, actual, expected, exhaustive)
	}
}

var allowUnexported = cmp.Exporter(func(reflect.Type) bool { return true })

func deepMatch(ctx context.Context, actual, expected any, exhaustive bool) bool {
	switch exp := expected.(type) {
	case nil:
		return isNil(actual)
	case Criterion:
		return exp.check(ctx, actual, defaultDeep(exhaustive)) == nil
	case Predicate, func(context.Context, any) error, func(any) error, func(any) bool:
		return CriterionFor(exp).check(ctx, actual, defaultDeep(exhaustive)) == nil
	case *set.Set:
		return matchSet(actual, exp, exhaustive)
	}

	if equal, ok := numbersEqual(actual, expected); ok {
		return equal
	}

	av := reflect.ValueOf(actual)
	ev := reflect.ValueOf(expected)

	switch ev.Kind() {
	case reflect.Map:
		if av.Kind() != reflect.Map {
			return false
		}
		if exhaustive && av.Len() != ev.Len() {
			return false
		}
		iter := ev.MapRange()
		for iter.Next() {
			v, ok := mapIndex(av, iter.Key())
			if !ok {
				return false
			}
			if !deepMatch(ctx, v.Interface(), iter.Value().Interface(), exhaustive) {
				return false
			}
		}
		return true
	case reflect.Slice, reflect.Array:
		if av.Kind() != reflect.Slice && av.Kind() != reflect.Array {
			return false
		}
		if av.Len() != ev.Len() {
			return false
		}
		for i := 0; i < ev.Len(); i++ {
			if !deepMatch(ctx, av.Index(i).Interface(), ev.Index(i).Interface(), exhaustive) {
				return false
			}
		}
		return true
	}

	return cmp.Equal(actual, expected, allowUnexported)
}

func matchSet(actual any, expected *set.Set, exhaustive bool) bool {
	got, ok := actual.(*set.Set)
	if !ok {
		return false
	}
	if exhaustive {
		return got.Equal(expected)
	}
	all := true
	expected.ForEach(func(v any) bool {
		all = got.Has(v)
		return all
	})
	return all
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice,
		reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// mapIndex looks k up in m. A key of another type only matches
// when it is assignable to the map's key type or when both are
// numbers of equal value.
func mapIndex(m, k reflect.Value) (reflect.Value, bool) {
	keyType := m.Type().Key()
	if k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.Type().AssignableTo(keyType) {
		v := m.MapIndex(k)
		return v, v.IsValid()
	}
	if numberClass(k.Kind()) == classNone || numberClass(keyType.Kind()) == classNone {
		return reflect.Value{}, false
	}
	iter := m.MapRange()
	for iter.Next() {
		if equal, _ := numbersEqual(iter.Key().Interface(), k.Interface()); equal {
			return iter.Value(), true
		}
	}
	return reflect.Value{}, false
}

type numClass int

const (
	classNone numClass = iota
	classInt
	classUint
	classFloat
)

func numberClass(k reflect.Kind) numClass {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64:
		return classInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return classUint
	case reflect.Float32, reflect.Float64:
		return classFloat
	}
	return classNone
}

// numbersEqual compares two numbers by value across numeric
// types. Integers compare exactly; float64 is used only when a
// side is a float. ok is false unless both are numbers.
func numbersEqual(a, b any) (equal, ok bool) {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	ac, bc := numberClass(av.Kind()), numberClass(bv.Kind())
	if ac == classNone || bc == classNone {
		return false, false
	}

	switch {
	case ac == classFloat || bc == classFloat:
		return toFloat(av, ac) == toFloat(bv, bc), true
	case ac == classInt && bc == classInt:
		return av.Int() == bv.Int(), true
	case ac == classUint && bc == classUint:
		return av.Uint() == bv.Uint(), true
	case ac == classInt:
		return av.Int() >= 0 && uint64(av.Int()) == bv.Uint(), true
	default:
		return bv.Int() >= 0 && uint64(bv.Int()) == av.Uint(), true
	}
}

func toFloat(v reflect.Value, c numClass) float64 {
	switch c {
	case classInt:
		return float64(v.Int())
	case classUint:
		return float64(v.Uint())
	}
	return v.Float()
}
