package compose

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coposim/coposim/internal/ctxlog"
	"github.com/coposim/coposim/internal/process"
	"github.com/coposim/coposim/internal/variable"
)

// Model is a concrete composition: a name plus an ordered set of
// components. The order is the registration order; Configure never
// silently reorders earlier contributions.
type Model struct {
	name       string
	components []*Component
}

// NewModel assembles a model from components.
func NewModel(name string, components ...*Component) *Model {
	return &Model{name: name, components: components}
}

// Name returns the model's name.
func (m *Model) Name() string { return m.name }

// Components returns the ordered component set.
func (m *Model) Components() []*Component { return m.components }

// Configure runs the composition pass: it discovers every variable and
// process contributed by every component, validates cross-component
// sharing, and classifies each process into its scheduling bucket. It is a
// pure discovery/aggregation pass, fully deterministic for a fixed
// component order, and must run before a model is instantiated. All
// failures are fatal *variable.ConfigurationError values.
func (m *Model) Configure(ctx context.Context) (*Schema, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuring model.", "model", m.name, "components", len(m.components))

	if err := m.checkRequirements(); err != nil {
		return nil, err
	}

	s := &Schema{
		Model:               m.name,
		VariablesByCodename: make(map[string]*variable.Variable),
	}
	codenameOf := make(map[*variable.Variable]string)

	for _, comp := range m.components {
		logger.Debug("Model component.", "component", comp.Name())
		for _, contrib := range comp.EntityContributions() {
			if err := s.merge(logger, s.entityType(contrib.Target), contrib, codenameOf); err != nil {
				return nil, err
			}
		}
		for _, contrib := range comp.TaxonContributions() {
			if err := s.merge(logger, s.processTaxon(contrib.Target), contrib, codenameOf); err != nil {
				return nil, err
			}
		}
	}

	if err := s.classify(); err != nil {
		return nil, err
	}
	logger.Debug("Model configured.",
		"model", m.name,
		"variables", len(s.Variables),
		"processes", len(s.Processes))
	return s, nil
}

// checkRequirements verifies every component's declared requirements are
// satisfied by the model's component set.
func (m *Model) checkRequirements() error {
	present := make(map[string]bool, len(m.components))
	for _, comp := range m.components {
		present[comp.Name()] = true
	}
	for _, comp := range m.components {
		for _, req := range comp.Required() {
			if !present[req] {
				return &variable.ConfigurationError{Reason: fmt.Sprintf(
					"component %q requires component %q, which is not part of model %q",
					comp.Name(), req, m.name)}
			}
		}
	}
	return nil
}

// mergeTarget is the subset of EntityType/ProcessTaxon the merge pass
// needs.
type mergeTarget interface {
	Owner
	declare(owner string, codename string, v *variable.Variable) error
	addProcess(p *process.Process)
}

// merge folds one component contribution into the schema's registries.
func (s *Schema) merge(logger *slog.Logger, target mergeTarget, contrib *Contribution, codenameOf map[*variable.Variable]string) error {
	for _, decl := range contrib.Declarations {
		v, codename := decl.Variable, decl.Codename
		logger.Debug("Registering variable.",
			"target", target.Name(), "codename", codename, "variable", v.Name())

		// The same variable object may be contributed by several
		// components, but only ever under one codename.
		if existing, ok := codenameOf[v]; ok && existing != codename {
			return &variable.ConfigurationError{Reason: fmt.Sprintf(
				"variable %q is shared across components under mismatching codenames %q and %q",
				v.Name(), existing, codename)}
		}
		if bound, ok := s.VariablesByCodename[codename]; ok && bound != v {
			return &variable.ConfigurationError{Reason: fmt.Sprintf(
				"codename %q is already in use by variable %q, cannot bind variable %q",
				codename, bound.Name(), v.Name())}
		}
		if err := v.BindCodename(codename); err != nil {
			return err
		}
		if err := target.declare(target.Name(), codename, v); err != nil {
			return err
		}
		codenameOf[v] = codename
		s.VariablesByCodename[codename] = v
		if !containsVariablePair(s.Variables, v, target) {
			s.Variables = append(s.Variables, VariablePair{Variable: v, Owner: target})
		}
		v.AddOwner(target)
	}

	for _, p := range contrib.Processes {
		logger.Debug("Registering process.",
			"target", target.Name(), "process", p.Name, "kind", p.Kind.String())
		target.addProcess(p)
		if !containsProcessPair(s.Processes, p, target) {
			s.Processes = append(s.Processes, ProcessPair{Process: p, Owner: target})
		}
	}
	return nil
}

// classify files every registered (process, owner) pair into exactly one
// scheduling bucket and extends the matching variable bucket with the
// variables the process touches. An unrecognized kind fails configuration;
// a process silently missing from every bucket would never be scheduled.
func (s *Schema) classify() error {
	for _, pair := range s.Processes {
		var procBucket *[]ProcessPair
		var varBucket *[]VariablePair
		switch pair.Process.Kind {
		case process.ODE:
			procBucket, varBucket = &s.ODEProcesses, &s.ODEVariables
		case process.Explicit:
			procBucket, varBucket = &s.ExplicitProcesses, &s.ExplicitVariables
		case process.Step:
			procBucket, varBucket = &s.StepProcesses, &s.StepVariables
		case process.Event:
			procBucket, varBucket = &s.EventProcesses, &s.EventVariables
		default:
			return &variable.ConfigurationError{Reason: fmt.Sprintf(
				"process %q on %q has unrecognized kind %s",
				pair.Process.Name, pair.Owner.Name(), pair.Process.Kind)}
		}
		*procBucket = append(*procBucket, pair)
		for _, v := range pair.Process.Variables {
			if !containsVariablePair(*varBucket, v, pair.Owner) {
				*varBucket = append(*varBucket, VariablePair{Variable: v, Owner: pair.Owner})
			}
		}
	}
	return nil
}
