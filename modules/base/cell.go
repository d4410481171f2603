package base

import (
	"github.com/coposim/coposim/internal/assoc"
	"github.com/coposim/coposim/internal/compose"
)

// Cell is one spatial unit of a world. Cells track the individuals
// residing on them.
type Cell struct {
	compose.Entity

	world       *assoc.Ref[*Cell, *World]
	individuals *assoc.Set[*Individual]
}

// NewCell creates a cell not yet located on any world.
func NewCell() *Cell {
	c := &Cell{individuals: assoc.NewSet[*Individual]()}
	c.world = assoc.NewRef(c, func(w *World) *assoc.Set[*Cell] { return w.cells }, nil)
	return c
}

// World returns the world the cell is located on, nil when unset.
func (c *Cell) World() *World { return c.world.Get() }

// SetWorld moves the cell to another world, keeping both worlds' cell sets
// consistent. The worlds' individuals caches are not touched; invalidate
// them explicitly after restructuring.
func (c *Cell) SetWorld(w *World) { _ = c.world.Set(w) }

// Individuals returns the set of individuals residing on this cell.
// Membership is maintained by Individual.SetCell.
func (c *Cell) Individuals() *assoc.Set[*Individual] { return c.individuals }
