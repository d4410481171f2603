package base

import (
	"github.com/coposim/coposim/internal/assoc"
	"github.com/coposim/coposim/internal/compose"
)

// SocialSystem is a society located on a world. Social systems may nest:
// a system with no next-higher system is top-level.
type SocialSystem struct {
	compose.Entity

	world      *assoc.Ref[*SocialSystem, *World]
	nextHigher *assoc.Ref[*SocialSystem, *SocialSystem]
	subsystems *assoc.Set[*SocialSystem]
}

// NewSocialSystem creates a social system not yet located on any world.
func NewSocialSystem() *SocialSystem {
	s := &SocialSystem{subsystems: assoc.NewSet[*SocialSystem]()}
	s.world = assoc.NewRef(s, func(w *World) *assoc.Set[*SocialSystem] { return w.socialSystems }, nil)
	s.nextHigher = assoc.NewRef(s, func(p *SocialSystem) *assoc.Set[*SocialSystem] { return p.subsystems }, nil)
	return s
}

// World returns the world the social system is located on, nil when unset.
func (s *SocialSystem) World() *World { return s.world.Get() }

// SetWorld moves the social system to another world.
func (s *SocialSystem) SetWorld(w *World) { _ = s.world.Set(w) }

// NextHigher returns the enclosing social system, nil for top-level
// systems.
func (s *SocialSystem) NextHigher() *SocialSystem { return s.nextHigher.Get() }

// SetNextHigher re-parents the social system, keeping both parents'
// subsystem sets consistent.
func (s *SocialSystem) SetNextHigher(p *SocialSystem) { _ = s.nextHigher.Set(p) }

// Subsystems returns the directly enclosed social systems.
func (s *SocialSystem) Subsystems() *assoc.Set[*SocialSystem] { return s.subsystems }
