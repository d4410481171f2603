// Package extraction is a minimal resource-use component: cells carry a
// renewable resource stock with a growth rate, individuals follow a
// harvesting strategy. It exists both as a usable demo and as the
// reference for authoring a component whose variables are declared in Go
// rather than loaded from a catalog.
package extraction

import (
	"context"
	"math/big"

	"github.com/zclconf/go-cty/cty"

	"github.com/coposim/coposim/internal/compose"
	"github.com/coposim/coposim/internal/process"
	"github.com/coposim/coposim/internal/variable"
	"github.com/coposim/coposim/modules/base"
)

// Name is the component name other components list in Requires.
const Name = "extraction"

// Extraction bundles the component's variable descriptors and its
// contribution.
type Extraction struct {
	Stock      *variable.Variable
	GrowthRate *variable.Variable
	Strategy   *variable.Variable

	component *compose.Component
}

// New builds the extraction component. It requires the base component for
// the cell and individual entity types.
func New(ctx context.Context) (*Extraction, error) {
	e := &Extraction{
		Stock: variable.MustNew("current stock", "current stock of the renewable resource",
			variable.Spec{
				LowerBound:  cty.Zero,
				AllowNone:   boolPtr(false),
				Default:     cty.NumberIntVal(1),
				IsExtensive: true,
			}),
		GrowthRate: variable.MustNew("growth rate", "intrinsic growth rate of the resource",
			variable.Spec{
				Default: cty.NumberFloatVal(0.2),
			}),
		Strategy: variable.MustNew("harvesting strategy", "harvesting strategy of an individual",
			variable.Spec{
				Scale:    variable.Nominal,
				Datatype: cty.String,
				Levels:   []cty.Value{cty.StringVal("sustainable"), cty.StringVal("greedy")},
				Default:  cty.StringVal("sustainable"),
			}),
	}

	c := compose.NewComponent(Name, "renewable resource stock and harvesting").
		Requires(base.Name)

	c.Entity("cell").
		Declare("stock", e.Stock).
		Declare("growth_rate", e.GrowthRate).
		Process(process.NewODE(
			"resource growth",
			[]*variable.Variable{e.Stock},
			e.growStock,
		))

	c.Entity("individual").
		Declare("strategy", e.Strategy)

	e.component = c
	return e, nil
}

// Component returns the extraction component for model composition.
func (e *Extraction) Component() *compose.Component { return e.component }

// growStock adds the logistic growth term g*s to each cell's stock
// derivative.
func (e *Extraction) growStock(ctx context.Context, t float64) error {
	for _, owner := range e.Stock.Owners() {
		for _, inst := range owner.Instances() {
			stock, ok := inst.Slot(e.Stock.Codename())
			if !ok || stock.IsNull() {
				continue
			}
			rate, ok := inst.Slot(e.GrowthRate.Codename())
			if !ok || rate.IsNull() {
				continue
			}
			delta := new(big.Float).Mul(stock.AsBigFloat(), rate.AsBigFloat())
			if prev, ok := inst.Slot(e.Stock.DerivativeCodename()); ok {
				delta.Add(delta, prev.AsBigFloat())
			}
			inst.SetSlot(e.Stock.DerivativeCodename(), cty.NumberVal(delta))
		}
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }
