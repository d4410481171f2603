package variable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/coposim/coposim/internal/units"
)

func boolPtr(b bool) *bool { return &b }

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		v, err := New("temperature", "some temperature", Spec{})
		require.NoError(t, err)
		assert.Equal(t, Ratio, v.Scale())
		assert.True(t, v.Datatype().Equals(cty.Number))
		assert.Equal(t, "", v.Codename())
	})

	t.Run("invalid scale fails with ConfigurationError", func(t *testing.T) {
		_, err := New("x", "y", Spec{Scale: "logarithmic"})
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Reason, "scale must be")
	})

	t.Run("non-numeric bound fails", func(t *testing.T) {
		_, err := New("x", "y", Spec{LowerBound: cty.StringVal("zero")})
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Reason, "lower_bound")
	})

	t.Run("negative array shape fails", func(t *testing.T) {
		_, err := New("x", "y", Spec{ArrayShape: []int{-1}})
		assert.Error(t, err)
	})

	t.Run("non-positive quantum fails", func(t *testing.T) {
		for _, quantum := range []cty.Value{cty.Zero, cty.NumberFloatVal(-0.5)} {
			_, err := New("x", "y", Spec{Quantum: quantum})
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Reason, "quantum must be positive")
		}
	})
}

func TestBindCodename(t *testing.T) {
	v, err := New("stock", "resource stock", Spec{})
	require.NoError(t, err)

	require.NoError(t, v.BindCodename("stock"))
	assert.Equal(t, "stock", v.Codename())
	assert.Equal(t, "d_stock", v.DerivativeCodename())

	// Rebinding to the same name is idempotent.
	require.NoError(t, v.BindCodename("stock"))

	err = v.BindCodename("inventory")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "already bound")
}

func TestIsValidBounds(t *testing.T) {
	t.Run("inclusive lower bound", func(t *testing.T) {
		v, err := New("temperature", "desc", Spec{LowerBound: cty.Zero})
		require.NoError(t, err)

		assert.False(t, v.IsValid(cty.NumberFloatVal(-1.0)))
		assert.True(t, v.IsValid(cty.NumberFloatVal(0.0)))
		assert.True(t, v.IsValid(cty.NumberFloatVal(5.0)))
	})

	t.Run("strict lower bound", func(t *testing.T) {
		v, err := New("x", "y", Spec{StrictLowerBound: cty.Zero})
		require.NoError(t, err)

		assert.False(t, v.IsValid(cty.Zero))
		assert.True(t, v.IsValid(cty.NumberFloatVal(0.001)))
	})

	t.Run("inclusive upper bound", func(t *testing.T) {
		v, err := New("x", "y", Spec{UpperBound: cty.NumberIntVal(10)})
		require.NoError(t, err)

		assert.True(t, v.IsValid(cty.NumberIntVal(10)))
		assert.False(t, v.IsValid(cty.NumberIntVal(11)))
	})

	t.Run("strict upper bound", func(t *testing.T) {
		v, err := New("x", "y", Spec{StrictUpperBound: cty.NumberIntVal(10)})
		require.NoError(t, err)

		assert.False(t, v.IsValid(cty.NumberIntVal(10)))
		assert.True(t, v.IsValid(cty.NumberIntVal(9)))
	})
}

func TestIsValidQuantum(t *testing.T) {
	v, err := New("population", "people", Spec{Quantum: cty.NumberIntVal(1)})
	require.NoError(t, err)

	assert.True(t, v.IsValid(cty.NumberIntVal(7)))
	assert.False(t, v.IsValid(cty.NumberFloatVal(7.5)))
	assert.True(t, v.IsValid(cty.Zero))

	half, err := New("x", "y", Spec{Quantum: cty.NumberFloatVal(0.5)})
	require.NoError(t, err)
	assert.True(t, half.IsValid(cty.NumberFloatVal(2.5)))
	assert.False(t, half.IsValid(cty.NumberFloatVal(2.75)))
}

func TestIsValidLevels(t *testing.T) {
	v, err := New("risk", "risk level", Spec{
		Scale:    Ordinal,
		Datatype: cty.DynamicPseudoType,
		Levels: []cty.Value{
			cty.StringVal("low"), cty.StringVal("medium"), cty.StringVal("high"),
		},
	})
	require.NoError(t, err)

	assert.True(t, v.IsValid(cty.StringVal("medium")))
	assert.False(t, v.IsValid(cty.StringVal("extreme")))
}

func TestIsValidNull(t *testing.T) {
	t.Run("null allowed by default", func(t *testing.T) {
		v, err := New("x", "y", Spec{})
		require.NoError(t, err)
		assert.True(t, v.IsValid(cty.NullVal(cty.Number)))
	})

	t.Run("null rejected when disallowed", func(t *testing.T) {
		v, err := New("x", "y", Spec{AllowNone: boolPtr(false)})
		require.NoError(t, err)
		err = v.AssertValid(cty.NullVal(cty.Number))
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "may not be null", valErr.Reason)
	})
}

func TestIsValidDatatype(t *testing.T) {
	v, err := New("x", "y", Spec{Datatype: cty.Number})
	require.NoError(t, err)

	assert.True(t, v.IsValid(cty.NumberIntVal(3)))
	assert.False(t, v.IsValid(cty.StringVal("three")))
	assert.False(t, v.IsValid(cty.True))
}

func TestIsValidArrayShape(t *testing.T) {
	v, err := New("coords", "a pair of coordinates", Spec{
		ArrayShape: []int{2},
		LowerBound: cty.Zero,
	})
	require.NoError(t, err)

	pair := cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)})
	assert.True(t, v.IsValid(pair))

	triple := cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2), cty.NumberIntVal(3)})
	assert.False(t, v.IsValid(triple))

	scalar := cty.NumberIntVal(1)
	assert.False(t, v.IsValid(scalar))

	// Element constraints apply inside the array.
	negative := cty.TupleVal([]cty.Value{cty.NumberIntVal(-1), cty.NumberIntVal(2)})
	assert.False(t, v.IsValid(negative))
}

func TestIsValidQuantity(t *testing.T) {
	v, err := New("fossil carbon", "extractable carbon", Spec{
		Unit:       units.GigatonnesCarbon,
		LowerBound: cty.Zero,
	})
	require.NoError(t, err)

	t.Run("quantity converts before checking", func(t *testing.T) {
		// 5e8 tC == 0.5 GtC, valid.
		assert.True(t, v.IsValid(units.NewQuantity(5e8, units.TonnesCarbon).Value()))
		// Negative stays negative after conversion.
		assert.False(t, v.IsValid(units.NewQuantity(-1, units.TonnesCarbon).Value()))
	})

	t.Run("dimension mismatch is invalid", func(t *testing.T) {
		err := v.AssertValid(units.NewQuantity(1, units.Kelvins).Value())
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
	})

	t.Run("quantity against unitless variable is invalid", func(t *testing.T) {
		plain, err := New("x", "y", Spec{})
		require.NoError(t, err)
		assert.False(t, plain.IsValid(units.NewQuantity(1, units.Kelvins).Value()))
	})
}

func TestAssertValidAgreesWithIsValid(t *testing.T) {
	v, err := New("x", "y", Spec{
		LowerBound: cty.Zero,
		UpperBound: cty.NumberIntVal(10),
		Quantum:    cty.NumberIntVal(2),
	})
	require.NoError(t, err)

	candidates := []cty.Value{
		cty.NumberIntVal(-2),
		cty.Zero,
		cty.NumberIntVal(3),
		cty.NumberIntVal(4),
		cty.NumberIntVal(12),
		cty.StringVal("4"),
		cty.NullVal(cty.Number),
	}
	for _, candidate := range candidates {
		err := v.AssertValid(candidate)
		if v.IsValid(candidate) {
			assert.NoError(t, err, "candidate %#v", candidate)
		} else {
			assert.Error(t, err, "candidate %#v", candidate)
		}
	}
}

func TestString(t *testing.T) {
	v, err := New("temperature", "mean temperature", Spec{
		Unit:       units.Kelvins,
		LowerBound: cty.Zero,
	})
	require.NoError(t, err)
	s := v.String()
	assert.Contains(t, s, "temperature")
	assert.Contains(t, s, "K")
}
