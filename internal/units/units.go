// Package units is the unit identity and conversion service consumed by
// variable descriptors. It deliberately stays linear and flat: a Unit names
// a dimension and a scale factor relative to that dimension's base unit,
// and conversion between two units of the same dimension is a single
// multiply. Anything richer (offsets, compound dimensions, symbolic
// algebra) lives outside this module.
package units

import (
	"fmt"
	"math/big"
)

// Unit identifies a measurement unit within one dimension. Factor is the
// multiplier that converts one of this unit into the dimension's base unit.
type Unit struct {
	Name      string
	Symbol    string
	Dimension string
	Factor    float64
}

// Standard units used by the shipped variable catalog. The base unit of
// each dimension carries Factor 1.
var (
	Years            = Unit{Name: "years", Symbol: "a", Dimension: "time", Factor: 1}
	Days             = Unit{Name: "days", Symbol: "d", Dimension: "time", Factor: 1.0 / 365.25}
	GigatonnesCarbon = Unit{Name: "gigatonnes carbon", Symbol: "GtC", Dimension: "carbon", Factor: 1}
	TonnesCarbon     = Unit{Name: "tonnes carbon", Symbol: "tC", Dimension: "carbon", Factor: 1e-9}
	Humans           = Unit{Name: "humans", Symbol: "H", Dimension: "humans", Factor: 1}
	Dollars          = Unit{Name: "US dollars", Symbol: "$", Dimension: "value", Factor: 1}
	Gigajoules       = Unit{Name: "gigajoules", Symbol: "GJ", Dimension: "energy", Factor: 1}
	SquareKilometres = Unit{Name: "square kilometres", Symbol: "km2", Dimension: "area", Factor: 1}
	Kelvins          = Unit{Name: "kelvins", Symbol: "K", Dimension: "temperature", Factor: 1}
	Unitless         = Unit{Name: "unitless", Symbol: "1", Dimension: "dimensionless", Factor: 1}
)

// standard is the lookup table for BySymbol, keyed by unit symbol.
var standard = map[string]Unit{}

func init() {
	for _, u := range []Unit{
		Years, Days, GigatonnesCarbon, TonnesCarbon, Humans,
		Dollars, Gigajoules, SquareKilometres, Kelvins, Unitless,
	} {
		standard[u.Symbol] = u
	}
}

// BySymbol resolves one of the standard units from its symbol.
func BySymbol(symbol string) (Unit, bool) {
	u, ok := standard[symbol]
	return u, ok
}

func (u Unit) String() string {
	if u.Symbol != "" {
		return u.Symbol
	}
	return u.Name
}

// IsZero reports whether u is the zero Unit, i.e. "no unit declared".
func (u Unit) IsZero() bool {
	return u == Unit{}
}

// Convert expresses x, given in unit u, in unit "to". Both units must
// belong to the same dimension.
func (u Unit) Convert(x *big.Float, to Unit) (*big.Float, error) {
	if u.Dimension != to.Dimension {
		return nil, fmt.Errorf("cannot convert %s to %s: dimension mismatch (%s vs %s)",
			u, to, u.Dimension, to.Dimension)
	}
	out := new(big.Float).Mul(x, big.NewFloat(u.Factor))
	return out.Quo(out, big.NewFloat(to.Factor)), nil
}
