package units

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// Quantity is a number together with the unit it is expressed in. It is the
// form in which callers may hand dimensional values to a variable
// descriptor; the descriptor converts it to its own unit before validating.
type Quantity struct {
	value *big.Float
	unit  Unit
}

// QuantityType is the cty capsule type under which a Quantity travels
// through the engine's cty.Value plumbing.
var QuantityType = cty.Capsule("quantity", reflect.TypeOf(Quantity{}))

// NewQuantity builds a Quantity from a float64 magnitude.
func NewQuantity(value float64, unit Unit) Quantity {
	return Quantity{value: big.NewFloat(value), unit: unit}
}

// Magnitude returns the numeric part of the quantity.
func (q Quantity) Magnitude() *big.Float { return q.value }

// Unit returns the unit the magnitude is expressed in.
func (q Quantity) Unit() Unit { return q.unit }

// In re-expresses the quantity in another unit of the same dimension.
func (q Quantity) In(to Unit) (Quantity, error) {
	x, err := q.unit.Convert(q.value, to)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{value: x, unit: to}, nil
}

func (q Quantity) String() string {
	return fmt.Sprintf("%s %s", q.value.Text('g', -1), q.unit)
}

// Value wraps the quantity in a cty capsule value.
func (q Quantity) Value() cty.Value {
	return cty.CapsuleVal(QuantityType, &q)
}

// QuantityFromValue unwraps a capsule value produced by Quantity.Value.
// The second return is false when v is not a quantity capsule.
func QuantityFromValue(v cty.Value) (Quantity, bool) {
	if v == cty.NilVal || v.IsNull() || !v.Type().Equals(QuantityType) {
		return Quantity{}, false
	}
	q, ok := v.EncapsulatedValue().(*Quantity)
	if !ok {
		return Quantity{}, false
	}
	return *q, true
}
