package compose

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coposim/coposim/internal/process"
	"github.com/coposim/coposim/internal/variable"
)

func newVar(t *testing.T, name string) *variable.Variable {
	t.Helper()
	v, err := variable.New(name, "test variable", variable.Spec{})
	require.NoError(t, err)
	return v
}

func noopUpdate(ctx context.Context, tm float64) error { return nil }

func TestConfigureRegistersVariablesAndProcesses(t *testing.T) {
	stock := newVar(t, "stock")
	growth := newVar(t, "growth rate")
	modularity := newVar(t, "modularity")

	comp := NewComponent("resource", "test component")
	comp.Entity("cell").
		Declare("stock", stock).
		Declare("growth_rate", growth).
		Process(process.NewODE("growth", []*variable.Variable{stock}, noopUpdate))
	comp.Taxon("culture").
		Declare("modularity", modularity).
		Process(process.NewStep("recount", []*variable.Variable{modularity},
			func(tm float64) float64 { return tm + 1 }, noopUpdate))

	schema, err := NewModel("test", comp).Configure(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "stock", stock.Codename())
	assert.Equal(t, "growth_rate", growth.Codename())

	require.Len(t, schema.EntityTypes, 1)
	require.Len(t, schema.ProcessTaxa, 1)
	assert.Equal(t, "cell", schema.EntityTypes[0].Name())
	assert.Equal(t, "culture", schema.ProcessTaxa[0].Name())

	assert.Len(t, schema.Variables, 3)
	assert.Equal(t, stock, schema.VariablesByCodename["stock"])
	assert.Equal(t, modularity, schema.VariablesByCodename["modularity"])

	require.Len(t, schema.ODEProcesses, 1)
	require.Len(t, schema.StepProcesses, 1)
	assert.Empty(t, schema.ExplicitProcesses)
	assert.Empty(t, schema.EventProcesses)

	require.Len(t, schema.ODEVariables, 1)
	assert.Equal(t, stock, schema.ODEVariables[0].Variable)
	assert.Equal(t, schema.EntityTypes[0], schema.ODEVariables[0].Owner)

	// Taxon ownership flows into the variable's owner list.
	require.Len(t, modularity.Owners(), 1)
}

func TestConfigureIsDeterministic(t *testing.T) {
	stock := newVar(t, "stock")
	comp := NewComponent("resource", "")
	comp.Entity("cell").
		Declare("stock", stock).
		Process(process.NewODE("growth", []*variable.Variable{stock}, noopUpdate))
	m := NewModel("test", comp)

	first, err := m.Configure(context.Background())
	require.NoError(t, err)
	second, err := m.Configure(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.VariablesByCodename, second.VariablesByCodename)
	require.Equal(t, len(first.Variables), len(second.Variables))
	for i := range first.Variables {
		assert.Equal(t, first.Variables[i].Variable, second.Variables[i].Variable)
		assert.Equal(t, first.Variables[i].Owner.Name(), second.Variables[i].Owner.Name())
	}
	assert.Equal(t, len(first.ODEProcesses), len(second.ODEProcesses))
}

func TestConfigureSharedVariableAcrossComponents(t *testing.T) {
	shared := newVar(t, "terrestrial carbon")

	first := NewComponent("first", "")
	first.Entity("cell").Declare("terrestrial_carbon", shared)
	second := NewComponent("second", "")
	second.Entity("world").Declare("terrestrial_carbon", shared)

	schema, err := NewModel("test", first, second).Configure(context.Background())
	require.NoError(t, err)

	// One codename, one variable, two owning types.
	assert.Len(t, schema.Variables, 2)
	assert.Equal(t, shared, schema.VariablesByCodename["terrestrial_carbon"])
	assert.Len(t, shared.Owners(), 2)
}

func TestConfigureCodenameCollision(t *testing.T) {
	first := NewComponent("first", "")
	first.Entity("cell").Declare("stock", newVar(t, "stock of wood"))
	second := NewComponent("second", "")
	second.Entity("cell").Declare("stock", newVar(t, "stock of fish"))

	_, err := NewModel("test", first, second).Configure(context.Background())
	var cfgErr *variable.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "already in use")
}

func TestConfigureCodenameMismatch(t *testing.T) {
	shared := newVar(t, "stock")

	first := NewComponent("first", "")
	first.Entity("cell").Declare("stock", shared)
	second := NewComponent("second", "")
	second.Entity("cell").Declare("inventory", shared)

	_, err := NewModel("test", first, second).Configure(context.Background())
	var cfgErr *variable.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "mismatching codenames")
}

func TestConfigureUnrecognizedKind(t *testing.T) {
	comp := NewComponent("broken", "")
	comp.Entity("cell").Process(&process.Process{
		Name: "mystery",
		Kind: process.Kind(42),
	})

	_, err := NewModel("test", comp).Configure(context.Background())
	var cfgErr *variable.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "unrecognized kind")
}

func TestConfigureStepBucketDeduplication(t *testing.T) {
	// Two components contribute Step processes touching the same shared
	// variable on the same entity type: the (variable, owner) pair must
	// land in the step bucket exactly once, with no duplicate processes.
	shared := newVar(t, "modularity")
	timing := func(tm float64) float64 { return tm + 1 }
	stepA := process.NewStep("recount a", []*variable.Variable{shared}, timing, noopUpdate)
	stepB := process.NewStep("recount b", []*variable.Variable{shared}, timing, noopUpdate)

	first := NewComponent("first", "")
	first.Taxon("culture").Declare("modularity", shared).Process(stepA)
	second := NewComponent("second", "")
	second.Taxon("culture").Declare("modularity", shared).Process(stepB)

	schema, err := NewModel("test", first, second).Configure(context.Background())
	require.NoError(t, err)

	require.Len(t, schema.StepProcesses, 2)
	assert.NotEqual(t, schema.StepProcesses[0].Process, schema.StepProcesses[1].Process)
	require.Len(t, schema.StepVariables, 1)
	assert.Equal(t, shared, schema.StepVariables[0].Variable)
}

func TestConfigureDuplicateProcessRegistration(t *testing.T) {
	// The same process declared twice against the same entity type is
	// registered once.
	v := newVar(t, "stock")
	p := process.NewODE("growth", []*variable.Variable{v}, noopUpdate)

	comp := NewComponent("dup", "")
	comp.Entity("cell").Declare("stock", v).Process(p)
	comp.Entity("cell").Process(p)

	schema, err := NewModel("test", comp).Configure(context.Background())
	require.NoError(t, err)
	assert.Len(t, schema.Processes, 1)
	assert.Len(t, schema.ODEProcesses, 1)
}

func TestConfigureRequirements(t *testing.T) {
	dependent := NewComponent("exodus", "").Requires("base")

	_, err := NewModel("test", dependent).Configure(context.Background())
	var cfgErr *variable.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, `requires component "base"`)

	baseComp := NewComponent("base", "")
	_, err = NewModel("test", baseComp, dependent).Configure(context.Background())
	assert.NoError(t, err)
}

func TestConfigureWithinComponentCollision(t *testing.T) {
	comp := NewComponent("broken", "")
	comp.Entity("cell").
		Declare("stock", newVar(t, "a")).
		Declare("stock", newVar(t, "b"))

	_, err := NewModel("test", comp).Configure(context.Background())
	var cfgErr *variable.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestConfigureOrderPreserved(t *testing.T) {
	a, b, c := newVar(t, "a"), newVar(t, "b"), newVar(t, "c")

	first := NewComponent("first", "")
	first.Entity("cell").Declare("a", a).Declare("b", b)
	second := NewComponent("second", "")
	second.Entity("world").Declare("c", c)

	schema, err := NewModel("test", first, second).Configure(context.Background())
	require.NoError(t, err)

	var codenames []string
	for _, pair := range schema.Variables {
		codenames = append(codenames, pair.Variable.Codename())
	}
	assert.Equal(t, []string{"a", "b", "c"}, codenames)

	cell, ok := schema.EntityType("cell")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, cell.Codenames())
}
