package compose

import (
	"github.com/coposim/coposim/internal/process"
	"github.com/coposim/coposim/internal/variable"
)

// VariablePair is one registered variable together with the type that
// contributed it.
type VariablePair struct {
	Variable *variable.Variable
	Owner    Owner
}

// ProcessPair is one registered process together with the type that
// contributed it.
type ProcessPair struct {
	Process *process.Process
	Owner   Owner
}

// Schema is the immutable result of composing a model: the merged entity
// types and process taxa, the variable registries, and the four scheduling
// bucket pairs a time-stepping loop consumes. All fields are built exactly
// once by Model.Configure and read-only afterwards.
type Schema struct {
	Model string

	// EntityTypes and ProcessTaxa are ordered by first contribution.
	EntityTypes []*EntityType
	ProcessTaxa []*ProcessTaxon

	// Variables holds (variable, owning type) pairs in registration
	// order, one entry per contributed pair.
	Variables []VariablePair
	// VariablesByCodename maps each codename to its unique variable.
	VariablesByCodename map[string]*variable.Variable

	// Processes holds (process, owning type) pairs in registration order.
	Processes []ProcessPair

	// Scheduling buckets, one pair of slices per process kind.
	ODEVariables      []VariablePair
	ExplicitVariables []VariablePair
	StepVariables     []VariablePair
	EventVariables    []VariablePair

	ODEProcesses      []ProcessPair
	ExplicitProcesses []ProcessPair
	StepProcesses     []ProcessPair
	EventProcesses    []ProcessPair
}

// EntityType looks a merged entity type up by name.
func (s *Schema) EntityType(name string) (*EntityType, bool) {
	for _, et := range s.EntityTypes {
		if et.name == name {
			return et, true
		}
	}
	return nil, false
}

// ProcessTaxon looks a merged process taxon up by name.
func (s *Schema) ProcessTaxon(name string) (*ProcessTaxon, bool) {
	for _, pt := range s.ProcessTaxa {
		if pt.name == name {
			return pt, true
		}
	}
	return nil, false
}

func (s *Schema) entityType(name string) *EntityType {
	if et, ok := s.EntityType(name); ok {
		return et
	}
	et := newEntityType(name)
	s.EntityTypes = append(s.EntityTypes, et)
	return et
}

func (s *Schema) processTaxon(name string) *ProcessTaxon {
	if pt, ok := s.ProcessTaxon(name); ok {
		return pt
	}
	pt := newProcessTaxon(name)
	s.ProcessTaxa = append(s.ProcessTaxa, pt)
	return pt
}

func containsVariablePair(pairs []VariablePair, v *variable.Variable, owner Owner) bool {
	for _, p := range pairs {
		if p.Variable == v && p.Owner == owner {
			return true
		}
	}
	return false
}

func containsProcessPair(pairs []ProcessPair, p *process.Process, owner Owner) bool {
	for _, existing := range pairs {
		if existing.Process == p && existing.Owner == owner {
			return true
		}
	}
	return false
}
