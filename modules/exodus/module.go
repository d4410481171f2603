// Package exodus contributes the culture-network dynamics of the exodus
// model: a periodic recomputation of the acquaintance network's modularity
// and an event that fires when the network has split into disconnected
// professions.
package exodus

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/coposim/coposim/internal/compose"
	"github.com/coposim/coposim/internal/process"
	"github.com/coposim/coposim/internal/variable"
	"github.com/coposim/coposim/modules/base"
)

// Name is the component name other components list in Requires.
const Name = "exodus"

// Exodus bundles the component's variable descriptors and its
// contribution.
type Exodus struct {
	Modularity        *variable.Variable
	NetworkClustering *variable.Variable
	Split             *variable.Variable

	// SplitThreshold is the modularity above which the network counts as
	// split.
	SplitThreshold float64

	component *compose.Component
}

// New builds the exodus component. It requires the base component for the
// culture taxon.
func New(ctx context.Context) (*Exodus, error) {
	e := &Exodus{
		Modularity: variable.MustNew("modularity", "modularity of the acquaintance network",
			variable.Spec{
				LowerBound: cty.NumberFloatVal(-0.5),
				UpperBound: cty.NumberIntVal(1),
				Default:    cty.Zero,
			}),
		NetworkClustering: variable.MustNew("network clustering", "average clustering coefficient of the acquaintance network",
			variable.Spec{
				LowerBound: cty.Zero,
				UpperBound: cty.NumberIntVal(1),
				Default:    cty.Zero,
			}),
		Split: variable.MustNew("network split", "whether the acquaintance network has split",
			variable.Spec{
				Scale:    variable.Nominal,
				Datatype: cty.Bool,
				Default:  cty.False,
			}),
		SplitThreshold: 0.95,
	}

	c := compose.NewComponent(Name, "culture network modularity dynamics").
		Requires(base.Name)

	c.Taxon("culture").
		Declare("modularity", e.Modularity).
		Declare("network_clustering", e.NetworkClustering).
		Declare("split", e.Split).
		Process(process.NewStep(
			"calculate modularity",
			[]*variable.Variable{e.Modularity},
			func(t float64) float64 { return t + 1 },
			e.calculateModularity,
		)).
		Process(process.NewEvent(
			"network split",
			[]*variable.Variable{e.Split},
			e.splitTriggered,
			e.markSplit,
		))

	e.component = c
	return e, nil
}

// Component returns the exodus component for model composition.
func (e *Exodus) Component() *compose.Component { return e.component }

// culture returns the singleton culture instance the component acts on.
func (e *Exodus) culture() (*base.Culture, error) {
	for _, owner := range e.Modularity.Owners() {
		for _, inst := range owner.Instances() {
			if c, ok := inst.(*base.Culture); ok {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("exodus: no culture instance adopted yet")
}

// calculateModularity recomputes the network modularity. The network
// statistics themselves come from the (external) graph engine; here the
// stored clustering coefficient serves as the proxy input.
func (e *Exodus) calculateModularity(ctx context.Context, t float64) error {
	c, err := e.culture()
	if err != nil {
		return err
	}
	clustering, ok := c.Slot(e.NetworkClustering.Codename())
	if !ok || clustering.IsNull() {
		return e.Modularity.SetValue(c, e.Modularity.Default())
	}
	one := cty.NumberIntVal(1).AsBigFloat()
	modularity := one.Sub(one, clustering.AsBigFloat())
	return e.Modularity.SetValue(c, cty.NumberVal(modularity))
}

// splitTriggered reports whether the network counts as split at time t.
func (e *Exodus) splitTriggered(t float64) bool {
	c, err := e.culture()
	if err != nil {
		return false
	}
	modularity, ok := c.Slot(e.Modularity.Codename())
	if !ok || modularity.IsNull() {
		return false
	}
	f, _ := modularity.AsBigFloat().Float64()
	return f > e.SplitThreshold
}

// markSplit records the split on the culture taxon.
func (e *Exodus) markSplit(ctx context.Context, t float64) error {
	c, err := e.culture()
	if err != nil {
		return err
	}
	return e.Split.SetValue(c, cty.True)
}
