// Package variable implements the descriptor for a single model variable:
// its metadata, its legal domain (datatype, bounds, quantization, levels,
// array shape, unit), and validated get/set access to the slot it occupies
// on entity and taxon instances.
//
// Values travel as cty.Value throughout. A caller holding a number in a
// specific unit wraps it as a units.Quantity capsule; the descriptor
// converts it to its own unit before any check runs, so stored slot values
// are always plain values in the descriptor's unit.
//
// A Variable is immutable after construction except for its codename, which
// the model composer binds exactly once when the variable is first
// registered into a composed model.
package variable
