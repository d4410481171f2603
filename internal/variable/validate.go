package variable

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/coposim/coposim/internal/units"
)

// numberOf extracts the numeric magnitude of a known, non-null number value.
func numberOf(v cty.Value) (*big.Float, bool) {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.Number) {
		return nil, false
	}
	return v.AsBigFloat(), true
}

// normalize converts a candidate to the descriptor's own unit. Plain values
// pass through untouched; quantity capsules are unwrapped and re-expressed
// in the variable's unit, yielding a plain number.
func (v *Variable) normalize(val cty.Value) (cty.Value, error) {
	q, ok := units.QuantityFromValue(val)
	if !ok {
		return val, nil
	}
	if v.spec.Unit.IsZero() {
		return cty.NilVal, &ValidationError{Variable: v.name,
			Reason: fmt.Sprintf("carries unit %s but variable declares no unit", q.Unit())}
	}
	converted, err := q.In(v.spec.Unit)
	if err != nil {
		return cty.NilVal, &ValidationError{Variable: v.name, Reason: err.Error()}
	}
	return cty.NumberVal(converted.Magnitude()), nil
}

// checkValid tests a (already unit-normalized) candidate against the
// declared domain, short-circuiting on the first failed constraint. The
// shape argument is the remaining array shape to satisfy; element checks
// recurse with the tail of the shape.
func (v *Variable) checkValid(val cty.Value, shape []int) (bool, string) {
	if len(shape) > 0 {
		if val == cty.NilVal || val.IsNull() || !val.CanIterateElements() {
			return false, fmt.Sprintf("array shape must be %v", v.spec.ArrayShape)
		}
		if val.LengthInt() != shape[0] {
			return false, fmt.Sprintf("array shape must be %v", v.spec.ArrayShape)
		}
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if ok, reason := v.checkValid(elem, shape[1:]); !ok {
				return false, reason
			}
		}
		return true, ""
	}

	if val == cty.NilVal || val.IsNull() {
		if !v.allowNone() {
			return false, "may not be null"
		}
		return true, ""
	}

	if !v.spec.Datatype.Equals(cty.DynamicPseudoType) && !val.Type().Equals(v.spec.Datatype) {
		// Only lossless conversions count as a type match, so e.g. a
		// string does not pass for a number.
		conv := convert.GetConversion(val.Type(), v.spec.Datatype)
		if conv == nil {
			return false, fmt.Sprintf("must be of type %s", v.spec.Datatype.FriendlyName())
		}
		converted, err := conv(val)
		if err != nil {
			return false, fmt.Sprintf("must be of type %s", v.spec.Datatype.FriendlyName())
		}
		val = converted
	}

	if v.spec.LowerBound != cty.NilVal {
		f, ok := numberOf(val)
		bound, _ := numberOf(v.spec.LowerBound)
		if !ok || f.Cmp(bound) < 0 {
			return false, fmt.Sprintf("must be >= %v", bound)
		}
	}
	if v.spec.StrictLowerBound != cty.NilVal {
		f, ok := numberOf(val)
		bound, _ := numberOf(v.spec.StrictLowerBound)
		if !ok || f.Cmp(bound) <= 0 {
			return false, fmt.Sprintf("must be > %v", bound)
		}
	}
	if v.spec.UpperBound != cty.NilVal {
		f, ok := numberOf(val)
		bound, _ := numberOf(v.spec.UpperBound)
		if !ok || f.Cmp(bound) > 0 {
			return false, fmt.Sprintf("must be <= %v", bound)
		}
	}
	if v.spec.StrictUpperBound != cty.NilVal {
		f, ok := numberOf(val)
		bound, _ := numberOf(v.spec.StrictUpperBound)
		if !ok || f.Cmp(bound) >= 0 {
			return false, fmt.Sprintf("must be < %v", bound)
		}
	}
	if v.spec.Quantum != cty.NilVal {
		f, ok := numberOf(val)
		quantum, _ := numberOf(v.spec.Quantum)
		if !ok || !new(big.Float).Quo(f, quantum).IsInt() {
			return false, fmt.Sprintf("must be an integer multiple of %v", quantum)
		}
	}
	if len(v.spec.Levels) > 0 {
		member := false
		for _, level := range v.spec.Levels {
			if val.RawEquals(level) {
				member = true
				break
			}
		}
		if !member {
			return false, fmt.Sprintf("must be one of %v", v.spec.Levels)
		}
	}

	return true, ""
}

// AssertValid returns nil when the candidate lies within the variable's
// declared domain, and a *ValidationError naming the violated constraint
// otherwise. Quantity values are converted to the variable's unit first.
func (v *Variable) AssertValid(val cty.Value) error {
	normalized, err := v.normalize(val)
	if err != nil {
		return err
	}
	if ok, reason := v.checkValid(normalized, v.spec.ArrayShape); !ok {
		return &ValidationError{Variable: v.name, Reason: reason}
	}
	return nil
}

// IsValid reports whether AssertValid would accept the candidate.
func (v *Variable) IsValid(val cty.Value) bool {
	return v.AssertValid(val) == nil
}
