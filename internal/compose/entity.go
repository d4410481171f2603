package compose

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/coposim/coposim/internal/process"
	"github.com/coposim/coposim/internal/variable"
)

// Entity is a map-backed slot table satisfying the storage contract of
// variable descriptors. Concrete instance types embed it. The zero value
// is ready to use.
type Entity struct {
	slots map[string]cty.Value
}

// Slot reads a named slot; the second return is false when the slot was
// never written.
func (e *Entity) Slot(name string) (cty.Value, bool) {
	v, ok := e.slots[name]
	return v, ok
}

// SetSlot writes a named slot.
func (e *Entity) SetSlot(name string, val cty.Value) {
	if e.slots == nil {
		e.slots = make(map[string]cty.Value)
	}
	e.slots[name] = val
}

// Owner is a variable- and process-owning type of a composed model:
// either an *EntityType or a *ProcessTaxon.
type Owner interface {
	variable.Owner
	Name() string
}

// members holds the merged contributions of all components to one entity
// type or process taxon.
type members struct {
	codenames []string // declaration order
	variables map[string]*variable.Variable
	processes []*process.Process
}

func newMembers() members {
	return members{variables: make(map[string]*variable.Variable)}
}

// declare merges one (codename, variable) contribution. Re-declaring the
// identical variable under the same codename is idempotent; binding the
// codename to a different variable object is a configuration error.
func (m *members) declare(owner string, codename string, v *variable.Variable) error {
	if existing, ok := m.variables[codename]; ok {
		if existing == v {
			return nil
		}
		return &variable.ConfigurationError{Reason: fmt.Sprintf(
			"%s: codename %q is declared with two distinct variables", owner, codename)}
	}
	m.codenames = append(m.codenames, codename)
	m.variables[codename] = v
	return nil
}

func (m *members) addProcess(p *process.Process) {
	for _, existing := range m.processes {
		if existing == p {
			return
		}
	}
	m.processes = append(m.processes, p)
}

// Variable looks a merged variable up by codename.
func (m *members) Variable(codename string) (*variable.Variable, bool) {
	v, ok := m.variables[codename]
	return v, ok
}

// Codenames returns the merged codenames in declaration order.
func (m *members) Codenames() []string {
	out := make([]string, len(m.codenames))
	copy(out, m.codenames)
	return out
}

// Processes returns the merged processes in declaration order.
func (m *members) Processes() []*process.Process {
	out := make([]*process.Process, len(m.processes))
	copy(out, m.processes)
	return out
}

// EntityType describes a multi-instance class of entities (cells,
// individuals, ...) merged from all contributing components, together with
// its runtime instance pool.
type EntityType struct {
	members
	name      string
	instances []variable.Instance
}

func newEntityType(name string) *EntityType {
	return &EntityType{members: newMembers(), name: name}
}

// Name returns the entity type's name, e.g. "cell".
func (et *EntityType) Name() string { return et.name }

// Attach registers a runtime instance with the type's pool.
func (et *EntityType) Attach(inst variable.Instance) {
	et.instances = append(et.instances, inst)
}

// Detach removes a runtime instance from the pool.
func (et *EntityType) Detach(inst variable.Instance) {
	for i, existing := range et.instances {
		if existing == inst {
			et.instances = append(et.instances[:i], et.instances[i+1:]...)
			return
		}
	}
}

// Instances returns the runtime instance pool in attachment order.
func (et *EntityType) Instances() []variable.Instance {
	out := make([]variable.Instance, len(et.instances))
	copy(out, et.instances)
	return out
}

// ProcessTaxon describes a singleton-per-model process taxon (nature,
// culture, ...). It owns variables and processes exactly like an entity
// type but carries at most one instance.
type ProcessTaxon struct {
	members
	name     string
	instance variable.Instance
}

func newProcessTaxon(name string) *ProcessTaxon {
	return &ProcessTaxon{members: newMembers(), name: name}
}

// Name returns the taxon's name, e.g. "nature".
func (pt *ProcessTaxon) Name() string { return pt.name }

// Adopt installs the taxon's singleton instance.
func (pt *ProcessTaxon) Adopt(inst variable.Instance) error {
	if pt.instance != nil && pt.instance != inst {
		return fmt.Errorf("taxon %q already has an instance", pt.name)
	}
	pt.instance = inst
	return nil
}

// Instance returns the singleton instance, nil before Adopt.
func (pt *ProcessTaxon) Instance() variable.Instance { return pt.instance }

// Instances returns a zero- or one-element pool.
func (pt *ProcessTaxon) Instances() []variable.Instance {
	if pt.instance == nil {
		return nil
	}
	return []variable.Instance{pt.instance}
}
