package variable

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/coposim/coposim/internal/units"
)

// Instance is the storage contract a descriptor requires from entity and
// taxon instances: named-slot read/write access for the value (codename)
// and its derivative (d_<codename>). How slots are stored is up to the
// instance type.
type Instance interface {
	Slot(name string) (cty.Value, bool)
	SetSlot(name string, val cty.Value)
}

// Owner is an entity type or process taxon whose instances carry this
// variable. Owners provide the instance pool the instance-list operations
// fall back to when called with a nil instance list.
type Owner interface {
	Instances() []Instance
}

// allInstances collects every instance of every owning type.
func (v *Variable) allInstances() []Instance {
	var out []Instance
	for _, o := range v.owners {
		out = append(out, o.Instances()...)
	}
	return out
}

func (v *Variable) requireBound() error {
	if v.codename == "" {
		return &ConfigurationError{Reason: fmt.Sprintf(
			"variable %q is not bound to a codename; compose the model first", v.name)}
	}
	return nil
}

// SetValue stores a value in the instance's codename slot, converting
// quantities to the variable's unit and validating first. It never
// bypasses validation.
func (v *Variable) SetValue(inst Instance, val cty.Value) error {
	if err := v.requireBound(); err != nil {
		return err
	}
	normalized, err := v.normalize(val)
	if err != nil {
		return err
	}
	if ok, reason := v.checkValid(normalized, v.spec.ArrayShape); !ok {
		return &ValidationError{Variable: v.name, Reason: reason}
	}
	inst.SetSlot(v.codename, normalized)
	return nil
}

// GetValueList reads the variable's value off each instance, optionally
// converting to the requested unit. Reading an instance that has no value
// slot yet is an error.
func (v *Variable) GetValueList(instances []Instance, to *units.Unit) ([]cty.Value, error) {
	if err := v.requireBound(); err != nil {
		return nil, err
	}
	out := make([]cty.Value, 0, len(instances))
	for _, inst := range instances {
		val, ok := inst.Slot(v.codename)
		if !ok {
			return nil, fmt.Errorf("instance has no value for %q", v.codename)
		}
		if to != nil {
			f, isNum := numberOf(val)
			if !isNum {
				return nil, fmt.Errorf("value of %q is not numeric, cannot convert to %s", v.codename, to)
			}
			converted, err := v.spec.Unit.Convert(f, *to)
			if err != nil {
				return nil, err
			}
			val = cty.NumberVal(converted)
		}
		out = append(out, val)
	}
	return out, nil
}

// SetToDefault sets the variable to its default value on the given
// instances, or on every instance of every owning type when nil.
func (v *Variable) SetToDefault(instances []Instance) error {
	if instances == nil {
		instances = v.allInstances()
	}
	for _, inst := range instances {
		if err := v.SetValue(inst, v.spec.Default); err != nil {
			return err
		}
	}
	return nil
}

// SetToRandom draws a value per instance from the given distribution, or
// from the variable's uninformed prior when nil. Instances defaults to
// every instance of every owning type.
func (v *Variable) SetToRandom(instances []Instance, distribution func() cty.Value) error {
	if distribution == nil {
		distribution = v.spec.Prior
	}
	if distribution == nil {
		return &ConfigurationError{Reason: fmt.Sprintf(
			"variable %q has no uninformed prior and no distribution was given", v.name)}
	}
	if instances == nil {
		instances = v.allInstances()
	}
	for _, inst := range instances {
		if err := v.SetValue(inst, distribution()); err != nil {
			return err
		}
	}
	return nil
}

// SetValues applies a per-instance value mapping.
func (v *Variable) SetValues(byInstance map[Instance]cty.Value) error {
	for inst, val := range byInstance {
		if err := v.SetValue(inst, val); err != nil {
			return err
		}
	}
	return nil
}

// SetValueList applies parallel instance and value sequences.
func (v *Variable) SetValueList(instances []Instance, values []cty.Value) error {
	if len(instances) != len(values) {
		return fmt.Errorf("got %d instances but %d values", len(instances), len(values))
	}
	for i, inst := range instances {
		if err := v.SetValue(inst, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// ClearDerivatives zeroes the d_<codename> slot on each instance.
func (v *Variable) ClearDerivatives(instances []Instance) error {
	if err := v.requireBound(); err != nil {
		return err
	}
	for _, inst := range instances {
		inst.SetSlot(v.DerivativeCodename(), cty.Zero)
	}
	return nil
}

// GetDerivatives reads the d_<codename> slot back off each instance.
// Reading an instance whose derivative slot was never written is an error.
func (v *Variable) GetDerivatives(instances []Instance) ([]cty.Value, error) {
	if err := v.requireBound(); err != nil {
		return nil, err
	}
	out := make([]cty.Value, 0, len(instances))
	for _, inst := range instances {
		val, ok := inst.Slot(v.DerivativeCodename())
		if !ok {
			return nil, fmt.Errorf("instance has no derivative for %q", v.codename)
		}
		out = append(out, val)
	}
	return out, nil
}

// ConvertToStandardUnits rewrites any stored quantity value in place as a
// plain number expressed in the variable's own unit, scanning the given
// instances or, when nil, every instance of every owning type.
func (v *Variable) ConvertToStandardUnits(instances []Instance) error {
	if err := v.requireBound(); err != nil {
		return err
	}
	if instances == nil {
		instances = v.allInstances()
	}
	for _, inst := range instances {
		val, ok := inst.Slot(v.codename)
		if !ok {
			continue
		}
		if _, isQuantity := units.QuantityFromValue(val); isQuantity {
			// SetValue performs the conversion.
			if err := v.SetValue(inst, val); err != nil {
				return err
			}
		}
	}
	return nil
}
