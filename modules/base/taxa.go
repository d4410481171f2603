package base

import (
	"github.com/coposim/coposim/internal/assoc"
	"github.com/coposim/coposim/internal/compose"
)

// Nature is the singleton taxon bundling the natural processes of a model.
// It tracks the set of worlds it acts on.
type Nature struct {
	compose.Entity
	worlds *assoc.Set[*World]
}

// NewNature creates a nature acting on no worlds yet.
func NewNature() *Nature {
	return &Nature{worlds: assoc.NewSet[*World]()}
}

// Worlds returns the set of worlds this nature acts on. Membership is
// maintained by World.SetNature.
func (n *Nature) Worlds() *assoc.Set[*World] { return n.worlds }

// Metabolism is the singleton taxon bundling the socio-economic processes
// of a model.
type Metabolism struct {
	compose.Entity
	worlds *assoc.Set[*World]
}

// NewMetabolism creates a metabolism acting on no worlds yet.
func NewMetabolism() *Metabolism {
	return &Metabolism{worlds: assoc.NewSet[*World]()}
}

// Worlds returns the set of worlds this metabolism acts on.
func (m *Metabolism) Worlds() *assoc.Set[*World] { return m.worlds }

// Culture is the singleton taxon bundling the socio-cultural processes of
// a model.
type Culture struct {
	compose.Entity
	worlds *assoc.Set[*World]
}

// NewCulture creates a culture acting on no worlds yet.
func NewCulture() *Culture {
	return &Culture{worlds: assoc.NewSet[*World]()}
}

// Worlds returns the set of worlds this culture acts on.
func (c *Culture) Worlds() *assoc.Set[*World] { return c.worlds }
