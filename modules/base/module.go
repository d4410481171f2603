// Package base is the component every model composition starts from. It
// contributes the framework's standard entity types (world, cell,
// social_system, individual) and process taxa (nature, metabolism,
// culture), declares the shared variables of the embedded master catalog
// on them, and maintains the association graph between their instances.
package base

import (
	"context"
	_ "embed"
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"

	"github.com/coposim/coposim/internal/catalog"
	"github.com/coposim/coposim/internal/compose"
	"github.com/coposim/coposim/internal/process"
	"github.com/coposim/coposim/internal/variable"
)

//go:embed master.hcl
var masterHCL []byte

// Name is the component name other components list in Requires.
const Name = "base"

// Base holds the parsed master catalog and the component built from it.
// Variable fields are exported so dependent components and the scheduler
// can reference the shared descriptors directly.
type Base struct {
	Catalog *catalog.Catalog

	TerrestrialCarbon     *variable.Variable
	FossilCarbon          *variable.Variable
	AtmosphericCarbon     *variable.Variable
	OceanCarbon           *variable.Variable
	SurfaceAirTemperature *variable.Variable
	Population            *variable.Variable
	LandArea              *variable.Variable

	component *compose.Component
}

// New parses the embedded master catalog and builds the base component.
func New(ctx context.Context) (*Base, error) {
	cat, err := catalog.Parse(ctx, "master.hcl", masterHCL)
	if err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}

	b := &Base{
		Catalog:               cat,
		TerrestrialCarbon:     cat.MustVariable("terrestrial_carbon"),
		FossilCarbon:          cat.MustVariable("fossil_carbon"),
		AtmosphericCarbon:     cat.MustVariable("atmospheric_carbon"),
		OceanCarbon:           cat.MustVariable("ocean_carbon"),
		SurfaceAirTemperature: cat.MustVariable("surface_air_temperature"),
		Population:            cat.MustVariable("population"),
		LandArea:              cat.MustVariable("land_area"),
	}

	c := compose.NewComponent(Name, "framework base: shared variables, world association graph")

	// World and cell share the carbon stock descriptors: a cell carries
	// its local stock, the world the aggregate.
	c.Entity("world").
		Declare("terrestrial_carbon", b.TerrestrialCarbon).
		Declare("fossil_carbon", b.FossilCarbon).
		Declare("atmospheric_carbon", b.AtmosphericCarbon).
		Declare("ocean_carbon", b.OceanCarbon).
		Declare("surface_air_temperature", b.SurfaceAirTemperature).
		Process(process.NewExplicit(
			"aggregate cell carbon stocks",
			[]*variable.Variable{b.TerrestrialCarbon, b.FossilCarbon},
			b.aggregateCellCarbon,
		))

	c.Entity("cell").
		Declare("terrestrial_carbon", b.TerrestrialCarbon).
		Declare("fossil_carbon", b.FossilCarbon).
		Declare("land_area", b.LandArea)

	c.Entity("social_system").
		Declare("population", b.Population)

	c.Taxon("nature")
	c.Taxon("metabolism")
	c.Taxon("culture")

	b.component = c
	return b, nil
}

// Component returns the base component for model composition.
func (b *Base) Component() *compose.Component { return b.component }

// aggregateCellCarbon recomputes each world's carbon stocks as the sum
// over its cells.
func (b *Base) aggregateCellCarbon(ctx context.Context, t float64) error {
	for _, w := range b.worlds() {
		for _, v := range []*variable.Variable{b.TerrestrialCarbon, b.FossilCarbon} {
			sum := new(big.Float)
			for _, c := range w.Cells().Items() {
				val, ok := c.Slot(v.Codename())
				if !ok || val.IsNull() {
					continue
				}
				sum.Add(sum, val.AsBigFloat())
			}
			if err := v.SetValue(w, cty.NumberVal(sum)); err != nil {
				return err
			}
		}
	}
	return nil
}

// worlds collects the *World instances attached to the owning entity
// types of the world-level carbon stocks.
func (b *Base) worlds() []*World {
	var out []*World
	for _, owner := range b.TerrestrialCarbon.Owners() {
		for _, inst := range owner.Instances() {
			if w, ok := inst.(*World); ok {
				out = append(out, w)
			}
		}
	}
	return out
}
