package exodus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/coposim/coposim/internal/compose"
	"github.com/coposim/coposim/modules/base"
	"github.com/coposim/coposim/modules/extraction"
)

// composeFull wires base, extraction and exodus into one model and adopts
// a culture instance, returning everything a test needs.
func composeFull(t *testing.T) (*Exodus, *compose.Schema, *base.Culture) {
	t.Helper()
	ctx := context.Background()

	b, err := base.New(ctx)
	require.NoError(t, err)
	x, err := extraction.New(ctx)
	require.NoError(t, err)
	e, err := New(ctx)
	require.NoError(t, err)

	schema, err := compose.NewModel("exodus demo",
		b.Component(), x.Component(), e.Component()).Configure(ctx)
	require.NoError(t, err)

	cultureTaxon, ok := schema.ProcessTaxon("culture")
	require.True(t, ok)
	culture := base.NewCulture()
	require.NoError(t, cultureTaxon.Adopt(culture))

	return e, schema, culture
}

func TestComposeAllProcessKinds(t *testing.T) {
	e, schema, _ := composeFull(t)

	// One process of each kind across the three components.
	assert.Len(t, schema.ODEProcesses, 1)
	assert.Len(t, schema.ExplicitProcesses, 1)
	require.Len(t, schema.StepProcesses, 1)
	require.Len(t, schema.EventProcesses, 1)

	assert.Equal(t, "calculate modularity", schema.StepProcesses[0].Process.Name)
	assert.Equal(t, "network split", schema.EventProcesses[0].Process.Name)

	assert.Equal(t, e.Modularity, schema.VariablesByCodename["modularity"])
	assert.Equal(t, e.Split, schema.VariablesByCodename["split"])

	taxon, ok := schema.ProcessTaxon("culture")
	require.True(t, ok)
	_, ok = taxon.Variable("network_clustering")
	assert.True(t, ok)
}

func TestStepTiming(t *testing.T) {
	_, schema, _ := composeFull(t)

	step := schema.StepProcesses[0].Process
	require.NotNil(t, step.Timing)
	assert.InDelta(t, 1.0, step.Timing(0), 1e-9)
	assert.InDelta(t, 3.5, step.Timing(2.5), 1e-9)
}

func TestCalculateModularity(t *testing.T) {
	e, schema, culture := composeFull(t)
	step := schema.StepProcesses[0].Process

	// Without a clustering value the step falls back to the default.
	require.NoError(t, step.Update(context.Background(), 0))
	got, _ := culture.Slot(e.Modularity.Codename())
	assert.True(t, got.RawEquals(cty.Zero))

	require.NoError(t, e.NetworkClustering.SetValue(culture, cty.NumberFloatVal(0.25)))
	require.NoError(t, step.Update(context.Background(), 1))

	got, ok := culture.Slot(e.Modularity.Codename())
	require.True(t, ok)
	f, _ := got.AsBigFloat().Float64()
	assert.InDelta(t, 0.75, f, 1e-9)
}

func TestNetworkSplitEvent(t *testing.T) {
	e, schema, culture := composeFull(t)
	event := schema.EventProcesses[0].Process
	require.NotNil(t, event.Trigger)

	// Below the threshold nothing fires.
	require.NoError(t, e.Modularity.SetValue(culture, cty.NumberFloatVal(0.5)))
	assert.False(t, event.Trigger(0))

	require.NoError(t, e.Modularity.SetValue(culture, cty.NumberFloatVal(0.99)))
	require.True(t, event.Trigger(0))

	require.NoError(t, event.Update(context.Background(), 0))
	got, ok := culture.Slot(e.Split.Codename())
	require.True(t, ok)
	assert.True(t, got.RawEquals(cty.True))
}

func TestNoCultureAdopted(t *testing.T) {
	ctx := context.Background()

	b, err := base.New(ctx)
	require.NoError(t, err)
	x, err := extraction.New(ctx)
	require.NoError(t, err)
	e, err := New(ctx)
	require.NoError(t, err)

	schema, err := compose.NewModel("empty", b.Component(), x.Component(), e.Component()).Configure(ctx)
	require.NoError(t, err)

	step := schema.StepProcesses[0].Process
	assert.ErrorContains(t, step.Update(ctx, 0), "no culture instance")
	assert.False(t, schema.EventProcesses[0].Process.Trigger(0))
}
