// Package catalog loads variable catalogs from HCL. A catalog is the
// library of standard, reusable variable descriptors a set of components
// draws from (the "master data model" pattern): one `variable` block per
// descriptor, labeled with the codename components conventionally declare
// it under, plus optional `unit` blocks extending the standard unit table.
package catalog

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/coposim/coposim/internal/ctxlog"
	"github.com/coposim/coposim/internal/units"
	"github.com/coposim/coposim/internal/variable"
)

// hclUnit is the decode target for a `unit` block.
type hclUnit struct {
	Symbol    string  `hcl:"symbol,label"`
	Name      string  `hcl:"name"`
	Dimension string  `hcl:"dimension"`
	Factor    float64 `hcl:"factor"`
}

// hclVariable is the decode target for a `variable` block.
type hclVariable struct {
	Codename string `hcl:"codename,label"`

	Name   string  `hcl:"name"`
	Desc   string  `hcl:"desc"`
	Symbol *string `hcl:"symbol,optional"`
	Ref    *string `hcl:"ref,optional"`

	CF   *string `hcl:"cf,optional"`
	AMIP *string `hcl:"amip,optional"`
	IAMC *string `hcl:"iamc,optional"`
	CETS *string `hcl:"cets,optional"`

	Scale    *string        `hcl:"scale,optional"`
	Datatype hcl.Expression `hcl:"datatype,optional"`
	Unit     *string        `hcl:"unit,optional"`

	Default          *cty.Value `hcl:"default,optional"`
	AllowNone        *bool      `hcl:"allow_none,optional"`
	LowerBound       *cty.Value `hcl:"lower_bound,optional"`
	StrictLowerBound *cty.Value `hcl:"strict_lower_bound,optional"`
	UpperBound       *cty.Value `hcl:"upper_bound,optional"`
	StrictUpperBound *cty.Value `hcl:"strict_upper_bound,optional"`
	Quantum          *cty.Value `hcl:"quantum,optional"`
	Levels           *cty.Value `hcl:"levels,optional"`
	ArrayShape       *[]int     `hcl:"array_shape,optional"`

	IsExtensive *bool `hcl:"is_extensive,optional"`
	IsIntensive *bool `hcl:"is_intensive,optional"`
}

// hclCatalog is the decode target for a whole catalog file.
type hclCatalog struct {
	Units     []*hclUnit     `hcl:"unit,block"`
	Variables []*hclVariable `hcl:"variable,block"`
}

// Catalog holds parsed variable descriptors keyed by codename.
type Catalog struct {
	codenames []string
	vars      map[string]*variable.Variable
	units     map[string]units.Unit
}

// Parse reads one HCL catalog source. The filename is used in diagnostics
// only.
func Parse(ctx context.Context, filename string, src []byte) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", filename, diags)
	}

	var raw hclCatalog
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", filename, diags)
	}

	c := &Catalog{
		vars:  make(map[string]*variable.Variable, len(raw.Variables)),
		units: make(map[string]units.Unit, len(raw.Units)),
	}
	for _, u := range raw.Units {
		c.units[u.Symbol] = units.Unit{
			Name:      u.Name,
			Symbol:    u.Symbol,
			Dimension: u.Dimension,
			Factor:    u.Factor,
		}
	}

	for _, block := range raw.Variables {
		if _, ok := c.vars[block.Codename]; ok {
			return nil, &variable.ConfigurationError{Reason: fmt.Sprintf(
				"catalog %s declares variable %q twice", filename, block.Codename)}
		}
		v, err := c.buildVariable(block)
		if err != nil {
			return nil, err
		}
		logger.Debug("Catalog variable parsed.", "codename", block.Codename, "variable", v.Name())
		c.codenames = append(c.codenames, block.Codename)
		c.vars[block.Codename] = v
	}
	return c, nil
}

func (c *Catalog) buildVariable(block *hclVariable) (*variable.Variable, error) {
	spec := variable.Spec{}
	if block.Symbol != nil {
		spec.Symbol = *block.Symbol
	}
	if block.Ref != nil {
		spec.Ref = *block.Ref
	}
	if block.CF != nil {
		spec.CF = *block.CF
	}
	if block.AMIP != nil {
		spec.AMIP = *block.AMIP
	}
	if block.IAMC != nil {
		spec.IAMC = *block.IAMC
	}
	if block.CETS != nil {
		spec.CETS = *block.CETS
	}
	if block.Scale != nil {
		spec.Scale = variable.Scale(*block.Scale)
	}

	datatype, err := typeExprToCtyType(block.Datatype)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", block.Codename, err)
	}
	spec.Datatype = datatype

	if block.Unit != nil {
		u, ok := c.unit(*block.Unit)
		if !ok {
			return nil, &variable.ConfigurationError{Reason: fmt.Sprintf(
				"variable %q references unknown unit %q", block.Codename, *block.Unit)}
		}
		spec.Unit = u
	}

	if block.Default != nil {
		spec.Default = *block.Default
	}
	spec.AllowNone = block.AllowNone
	if block.LowerBound != nil {
		spec.LowerBound = *block.LowerBound
	}
	if block.StrictLowerBound != nil {
		spec.StrictLowerBound = *block.StrictLowerBound
	}
	if block.UpperBound != nil {
		spec.UpperBound = *block.UpperBound
	}
	if block.StrictUpperBound != nil {
		spec.StrictUpperBound = *block.StrictUpperBound
	}
	if block.Quantum != nil {
		spec.Quantum = *block.Quantum
	}
	if block.Levels != nil {
		if !block.Levels.CanIterateElements() {
			return nil, &variable.ConfigurationError{Reason: fmt.Sprintf(
				"variable %q: levels must be a list", block.Codename)}
		}
		for it := block.Levels.ElementIterator(); it.Next(); {
			_, level := it.Element()
			spec.Levels = append(spec.Levels, level)
		}
	}
	if block.ArrayShape != nil {
		spec.ArrayShape = *block.ArrayShape
	}
	if block.IsExtensive != nil {
		spec.IsExtensive = *block.IsExtensive
	}
	if block.IsIntensive != nil {
		spec.IsIntensive = *block.IsIntensive
	}

	return variable.New(block.Name, block.Desc, spec)
}

// unit resolves a symbol against the catalog's own unit blocks first, then
// the standard unit table.
func (c *Catalog) unit(symbol string) (units.Unit, bool) {
	if u, ok := c.units[symbol]; ok {
		return u, true
	}
	return units.BySymbol(symbol)
}

// Variable looks a descriptor up by codename.
func (c *Catalog) Variable(codename string) (*variable.Variable, bool) {
	v, ok := c.vars[codename]
	return v, ok
}

// MustVariable is Variable, panicking when the codename is unknown.
// Intended for component definitions loading from an embedded catalog,
// where a missing entry is a programmer error.
func (c *Catalog) MustVariable(codename string) *variable.Variable {
	v, ok := c.vars[codename]
	if !ok {
		panic(fmt.Sprintf("catalog has no variable %q", codename))
	}
	return v
}

// Codenames returns the catalog's codenames in declaration order.
func (c *Catalog) Codenames() []string {
	out := make([]string, len(c.codenames))
	copy(out, c.codenames)
	return out
}
