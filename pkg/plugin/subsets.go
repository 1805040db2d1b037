package plugin

import (
	"context"

	"digital.vasic.setmatch/pkg/assertion"
	"digital.vasic.setmatch/pkg/set"
)

// Subsets returns the plugin adding containment between sets:
//
//	to be a subset of <array-like>
//	to be a superset of <array-like>
func Subsets() Plugin {
	return New("subsets", "1.0.0", func(engine assertion.Engine) error {
		if err := engine.Register("to be a subset of", assertion.TypeSet, evaluateSubset); err != nil {
			return err
		}
		return engine.Register("to be a superset of", assertion.TypeSet, evaluateSuperset)
	})
}

func evaluateSubset(_ context.Context, call assertion.Call, subject any) error {
	other, err := otherSet(call)
	if err != nil {
		return err
	}
	if !containsAll(other, subject.(*set.Set)) {
		return call.Fail()
	}
	return nil
}

func evaluateSuperset(_ context.Context, call assertion.Call, subject any) error {
	other, err := otherSet(call)
	if err != nil {
		return err
	}
	if !containsAll(subject.(*set.Set), other) {
		return call.Fail()
	}
	return nil
}

func otherSet(call assertion.Call) (*set.Set, error) {
	if len(call.Args) != 1 {
		return nil, call.Invalid("expected exactly one argument, got %d", len(call.Args))
	}
	if s, ok := call.Args[0].(*set.Set); ok {
		return s, nil
	}
	s, err := set.FromSlice(call.Args[0])
	if err != nil {
		return nil, call.Invalid("%v", err)
	}
	return s, nil
}

// containsAll reports whether every value of sub is in super.
func containsAll(super, sub *set.Set) bool {
	all := true
	sub.ForEach(func(v any) bool {
		all = super.Has(v)
		return all
	})
	return all
}
