package compose

import (
	"github.com/coposim/coposim/internal/process"
	"github.com/coposim/coposim/internal/variable"
)

// Declaration binds a variable descriptor to the attribute name it will
// occupy on instances of the target type.
type Declaration struct {
	Codename string
	Variable *variable.Variable
}

// Contribution is what one component adds to one named entity type or
// process taxon: variable declarations and processes, in declaration
// order. It doubles as the builder returned by Component.Entity and
// Component.Taxon.
type Contribution struct {
	Target       string
	Declarations []Declaration
	Processes    []*process.Process
}

// Declare adds a (codename, variable) pair to the contribution.
func (c *Contribution) Declare(codename string, v *variable.Variable) *Contribution {
	c.Declarations = append(c.Declarations, Declaration{Codename: codename, Variable: v})
	return c
}

// Process adds a process to the contribution.
func (c *Contribution) Process(p *process.Process) *Contribution {
	c.Processes = append(c.Processes, p)
	return c
}

// Component is a reusable bundle of contributions to entity types and
// process taxa. Components are authored independently and combined into a
// Model; everything they contribute is declared explicitly here, at
// definition time.
type Component struct {
	name        string
	description string
	requires    []string
	entities    []*Contribution
	taxa        []*Contribution
}

// NewComponent creates an empty component.
func NewComponent(name, description string) *Component {
	return &Component{name: name, description: description}
}

// Name returns the component's name.
func (c *Component) Name() string { return c.name }

// Description returns the component's description.
func (c *Component) Description() string { return c.description }

// Requires records other components this one only makes sense with; the
// composer verifies they are present in the model.
func (c *Component) Requires(names ...string) *Component {
	c.requires = append(c.requires, names...)
	return c
}

// Required returns the declared requirements.
func (c *Component) Required() []string { return c.requires }

// Entity returns the contribution builder for the named entity type,
// creating it on first use.
func (c *Component) Entity(name string) *Contribution {
	return findOrAdd(&c.entities, name)
}

// Taxon returns the contribution builder for the named process taxon,
// creating it on first use.
func (c *Component) Taxon(name string) *Contribution {
	return findOrAdd(&c.taxa, name)
}

// EntityContributions returns the entity-type contributions in declaration
// order.
func (c *Component) EntityContributions() []*Contribution { return c.entities }

// TaxonContributions returns the process-taxon contributions in
// declaration order.
func (c *Component) TaxonContributions() []*Contribution { return c.taxa }

func findOrAdd(list *[]*Contribution, name string) *Contribution {
	for _, contrib := range *list {
		if contrib.Target == name {
			return contrib
		}
	}
	contrib := &Contribution{Target: name}
	*list = append(*list, contrib)
	return contrib
}
