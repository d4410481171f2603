package base

import (
	"github.com/coposim/coposim/internal/assoc"
	"github.com/coposim/coposim/internal/compose"
)

// World is (typically the only) instance of the world entity type. It is
// the hub of the association graph: it references the taxa acting on it,
// each of which tracks the set of worlds it acts on, and it owns the sets
// of social systems and cells located on it.
type World struct {
	compose.Entity

	nature     *assoc.Ref[*World, *Nature]
	metabolism *assoc.Ref[*World, *Metabolism]
	culture    *assoc.Ref[*World, *Culture]

	socialSystems *assoc.Set[*SocialSystem]
	cells         *assoc.Set[*Cell]

	// individuals is aggregated lazily from the cells' individuals.
	individuals *assoc.Cache[*assoc.Set[*Individual]]
}

// NewWorld creates a world with no taxa and no children attached.
func NewWorld() *World {
	w := &World{
		socialSystems: assoc.NewSet[*SocialSystem](),
		cells:         assoc.NewSet[*Cell](),
	}
	w.nature = assoc.NewRef(w, func(n *Nature) *assoc.Set[*World] { return n.worlds }, nil)
	w.metabolism = assoc.NewRef(w, func(m *Metabolism) *assoc.Set[*World] { return m.worlds }, nil)
	w.culture = assoc.NewRef(w, func(c *Culture) *assoc.Set[*World] { return c.worlds }, nil)
	w.individuals = assoc.NewCache(w.aggregateIndividuals)
	return w
}

// Nature returns the nature acting on this world, nil when unset.
func (w *World) Nature() *Nature { return w.nature.Get() }

// SetNature retargets the world's nature, keeping both worlds sets
// consistent.
func (w *World) SetNature(n *Nature) { _ = w.nature.Set(n) }

// Metabolism returns the metabolism acting on this world, nil when unset.
func (w *World) Metabolism() *Metabolism { return w.metabolism.Get() }

// SetMetabolism retargets the world's metabolism.
func (w *World) SetMetabolism(m *Metabolism) { _ = w.metabolism.Set(m) }

// Culture returns the culture acting on this world, nil when unset.
func (w *World) Culture() *Culture { return w.culture.Get() }

// SetCulture retargets the world's culture.
func (w *World) SetCulture(c *Culture) { _ = w.culture.Set(c) }

// SocialSystems returns the set of social systems on this world.
// Membership is maintained by SocialSystem.SetWorld.
func (w *World) SocialSystems() *assoc.Set[*SocialSystem] { return w.socialSystems }

// TopLevelSocialSystems returns the social systems on this world that have
// no higher social system.
func (w *World) TopLevelSocialSystems() *assoc.Set[*SocialSystem] {
	return w.socialSystems.Filter(func(s *SocialSystem) bool {
		return s.NextHigher() == nil
	})
}

// Cells returns the set of cells on this world. Membership is maintained
// by Cell.SetWorld.
func (w *World) Cells() *assoc.Set[*Cell] { return w.cells }

// Individuals returns the set of individuals residing on this world,
// aggregated from the world's cells on first read and memoized. Call
// InvalidateIndividuals after changing cell membership.
func (w *World) Individuals() *assoc.Set[*Individual] {
	return w.individuals.GetOrCompute()
}

// InvalidateIndividuals discards the memoized individuals view so the next
// read re-aggregates from the live cells.
func (w *World) InvalidateIndividuals() {
	w.individuals.Invalidate()
}

func (w *World) aggregateIndividuals() *assoc.Set[*Individual] {
	out := assoc.NewSet[*Individual]()
	w.cells.Each(func(c *Cell) {
		out.AddAll(c.Individuals())
	})
	return out
}
