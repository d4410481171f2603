package base

import (
	"github.com/coposim/coposim/internal/assoc"
	"github.com/coposim/coposim/internal/compose"
)

// Individual is one person of a model's population, residing on a cell.
type Individual struct {
	compose.Entity

	cell *assoc.Ref[*Individual, *Cell]
}

// NewIndividual creates an individual not yet residing on any cell.
func NewIndividual() *Individual {
	i := &Individual{}
	i.cell = assoc.NewRef(i, func(c *Cell) *assoc.Set[*Individual] { return c.individuals }, nil)
	return i
}

// Cell returns the cell the individual resides on, nil when unset.
func (i *Individual) Cell() *Cell { return i.cell.Get() }

// SetCell moves the individual to another cell, keeping both cells'
// individual sets consistent.
func (i *Individual) SetCell(c *Cell) { _ = i.cell.Set(c) }
