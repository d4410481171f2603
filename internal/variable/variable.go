package variable

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/coposim/coposim/internal/units"
)

// Scale is a variable's level of measurement.
// See https://en.wikipedia.org/wiki/Level_of_measurement.
type Scale string

const (
	Ratio    Scale = "ratio"
	Interval Scale = "interval"
	Ordinal  Scale = "ordinal"
	Nominal  Scale = "nominal"
)

func validScale(s Scale) bool {
	switch s {
	case Ratio, Interval, Ordinal, Nominal:
		return true
	}
	return false
}

// Spec carries the optional metadata and domain constraints of a Variable.
// The zero value is a ratio-scaled, number-typed, nullable variable with no
// constraints.
type Spec struct {
	// Symbol is a mathematical abbreviation usable as a short label.
	Symbol string
	// Ref is a URI describing the variable, e.g. a wikipedia page.
	Ref string

	// Catalog cross-references.
	CF   string // CF Standard Name
	AMIP string // AMIP2 variable name
	IAMC string // IAMC variable name
	CETS string // World Bank CETS code

	// Scale defaults to Ratio when empty.
	Scale Scale

	// Default is the initial value applied by SetToDefault; cty.NilVal
	// means "no default".
	Default cty.Value
	// Prior generates a random value when nothing else is known; used by
	// SetToRandom when no distribution is passed.
	Prior func() cty.Value

	// Datatype defaults to cty.Number; cty.DynamicPseudoType disables the
	// datatype check entirely.
	Datatype cty.Type
	// ArrayShape, when non-empty, requires collection values of exactly
	// this shape; constraints then apply elementwise.
	ArrayShape []int
	// AllowNone defaults to true; set to a false pointer to reject null.
	AllowNone *bool

	// Numeric constraints; each is ignored when cty.NilVal.
	LowerBound       cty.Value // inclusive, value must be >=
	StrictLowerBound cty.Value // exclusive, value must be >
	UpperBound       cty.Value // inclusive, value must be <=
	StrictUpperBound cty.Value // exclusive, value must be <
	Quantum          cty.Value // value must be an integer multiple of this

	// Unit is only meaningful for ratio- or interval-scaled variables.
	Unit units.Unit
	// IsExtensive marks variables scaling proportionally with system size.
	IsExtensive bool
	// IsIntensive marks variables invariant under doubling the system.
	IsIntensive bool

	// Levels enumerates the admissible values of ordinal- or
	// nominal-scaled variables.
	Levels []cty.Value
}

// Variable is the descriptor of one named model quantity. Its pointer
// identity is its stable identity within a composed model: the same
// *Variable may be contributed by several components, but always maps back
// to a single codename.
type Variable struct {
	name string
	desc string
	spec Spec

	codename string
	owners   []Owner
}

// New constructs a descriptor from a human-readable name, a description,
// and a Spec. It fails with a *ConfigurationError when the spec is
// internally inconsistent.
func New(name, desc string, spec Spec) (*Variable, error) {
	if spec.Scale == "" {
		spec.Scale = Ratio
	}
	if !validScale(spec.Scale) {
		return nil, &ConfigurationError{Reason: fmt.Sprintf(
			"variable %q: scale must be ratio, interval, ordinal, or nominal, got %q", name, spec.Scale)}
	}
	if spec.Datatype == cty.NilType {
		spec.Datatype = cty.Number
	}
	for _, b := range []struct {
		label string
		val   cty.Value
	}{
		{"lower_bound", spec.LowerBound},
		{"strict_lower_bound", spec.StrictLowerBound},
		{"upper_bound", spec.UpperBound},
		{"strict_upper_bound", spec.StrictUpperBound},
		{"quantum", spec.Quantum},
	} {
		if b.val == cty.NilVal {
			continue
		}
		if _, ok := numberOf(b.val); !ok {
			return nil, &ConfigurationError{Reason: fmt.Sprintf(
				"variable %q: %s must be a number", name, b.label)}
		}
	}
	if spec.Quantum != cty.NilVal {
		// Validation divides by the quantum; zero would make even
		// IsValid panic.
		if q, _ := numberOf(spec.Quantum); q.Sign() <= 0 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf(
				"variable %q: quantum must be positive", name)}
		}
	}
	for _, d := range spec.ArrayShape {
		if d < 0 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf(
				"variable %q: array shape dimensions must be non-negative", name)}
		}
	}
	return &Variable{name: name, desc: desc, spec: spec}, nil
}

// MustNew is New, panicking on error. Intended for package-level variable
// catalogs where a bad spec is a programmer error.
func MustNew(name, desc string, spec Spec) *Variable {
	v, err := New(name, desc, spec)
	if err != nil {
		panic(err)
	}
	return v
}

// Name returns the human-readable name.
func (v *Variable) Name() string { return v.name }

// Desc returns the longer description text.
func (v *Variable) Desc() string { return v.desc }

// Scale returns the level of measurement.
func (v *Variable) Scale() Scale { return v.spec.Scale }

// Datatype returns the required cty type of values.
func (v *Variable) Datatype() cty.Type { return v.spec.Datatype }

// Unit returns the unit stored values are expressed in; the zero Unit
// means the variable is dimensionless or has no declared unit.
func (v *Variable) Unit() units.Unit { return v.spec.Unit }

// Default returns the default initial value, cty.NilVal when none is set.
func (v *Variable) Default() cty.Value { return v.spec.Default }

// Levels returns the enumerated admissible values, nil when unrestricted.
func (v *Variable) Levels() []cty.Value { return v.spec.Levels }

// Spec returns a copy of the full descriptor spec.
func (v *Variable) Spec() Spec { return v.spec }

func (v *Variable) allowNone() bool {
	return v.spec.AllowNone == nil || *v.spec.AllowNone
}

// Codename returns the attribute name the variable is bound to on
// instances, or "" before composition has bound it.
func (v *Variable) Codename() string { return v.codename }

// DerivativeCodename returns the name of the companion slot holding the
// variable's time derivative.
func (v *Variable) DerivativeCodename() string { return "d_" + v.codename }

// BindCodename assigns the codename. Binding is performed once by the
// composer; rebinding to the same name is a no-op, rebinding to a
// different name is a *ConfigurationError.
func (v *Variable) BindCodename(codename string) error {
	if v.codename != "" && v.codename != codename {
		return &ConfigurationError{Reason: fmt.Sprintf(
			"variable %q is already bound to codename %q, cannot rebind to %q",
			v.name, v.codename, codename)}
	}
	v.codename = codename
	return nil
}

// AddOwner registers a type whose instances carry this variable. Owners
// are the fallback instance source for the instance-list operations.
func (v *Variable) AddOwner(o Owner) {
	for _, existing := range v.owners {
		if existing == o {
			return
		}
	}
	v.owners = append(v.owners, o)
}

// Owners returns the registered owning types in registration order.
func (v *Variable) Owners() []Owner { return v.owners }

func (v *Variable) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Variable %s (%s), scale=%s, datatype=%s",
		v.name, v.desc, v.spec.Scale, v.spec.Datatype.FriendlyName())
	if !v.spec.Unit.IsZero() {
		fmt.Fprintf(&b, ", unit=%s", v.spec.Unit)
	}
	if v.spec.Default != cty.NilVal {
		fmt.Fprintf(&b, ", default=%v", v.spec.Default)
	}
	if !v.allowNone() {
		b.WriteString(", not null")
	}
	if v.spec.LowerBound != cty.NilVal {
		fmt.Fprintf(&b, ", >=%v", v.spec.LowerBound)
	}
	if v.spec.StrictLowerBound != cty.NilVal {
		fmt.Fprintf(&b, ", >%v", v.spec.StrictLowerBound)
	}
	if v.spec.UpperBound != cty.NilVal {
		fmt.Fprintf(&b, ", <=%v", v.spec.UpperBound)
	}
	if v.spec.StrictUpperBound != cty.NilVal {
		fmt.Fprintf(&b, ", <%v", v.spec.StrictUpperBound)
	}
	if v.spec.Quantum != cty.NilVal {
		fmt.Fprintf(&b, ", %% %v == 0", v.spec.Quantum)
	}
	if len(v.spec.Levels) > 0 {
		fmt.Fprintf(&b, ", levels=%v", v.spec.Levels)
	}
	if len(v.spec.ArrayShape) > 0 {
		fmt.Fprintf(&b, ", shape=%v", v.spec.ArrayShape)
	}
	return b.String()
}
