// Package process defines the units of model dynamics a component can
// contribute. Every process carries a Kind deciding which scheduling bucket
// the composer files it into; the time-stepping loop that eventually
// executes the buckets lives outside this module.
package process

import (
	"context"
	"fmt"

	"github.com/coposim/coposim/internal/variable"
)

// Kind is a process's temporal semantics.
type Kind int

const (
	// ODE is continuous dynamics contributing to variable derivatives.
	ODE Kind = iota
	// Explicit is an algebraic recompute performed after each step.
	Explicit
	// Step is a discrete update executed at times chosen by a timing
	// function.
	Step
	// Event is an update triggered by a condition or rate.
	Event
)

func (k Kind) String() string {
	switch k {
	case ODE:
		return "ODE"
	case Explicit:
		return "explicit"
	case Step:
		return "step"
	case Event:
		return "event"
	}
	return fmt.Sprintf("unknown kind (%d)", int(k))
}

// UpdateFunc performs the process's state change at model time t.
type UpdateFunc func(ctx context.Context, t float64) error

// TimingFunc returns, given the current model time, the next time a step
// process must execute.
type TimingFunc func(t float64) float64

// TriggerFunc reports whether an event process fires at model time t.
type TriggerFunc func(t float64) bool

// Process is one unit of model dynamics: a named update rule together with
// the variables it reads or writes. Processes are created at component
// definition time and immutable afterwards.
type Process struct {
	Name      string
	Kind      Kind
	Variables []*variable.Variable

	// Update performs the state change; its scientific content is the
	// contributing component's business.
	Update UpdateFunc
	// Timing is required for Step processes.
	Timing TimingFunc
	// Trigger is required for Event processes.
	Trigger TriggerFunc
}

// NewODE declares continuous dynamics writing the derivatives of the given
// variables.
func NewODE(name string, variables []*variable.Variable, update UpdateFunc) *Process {
	return &Process{Name: name, Kind: ODE, Variables: variables, Update: update}
}

// NewExplicit declares an algebraic recompute of the given variables.
func NewExplicit(name string, variables []*variable.Variable, update UpdateFunc) *Process {
	return &Process{Name: name, Kind: Explicit, Variables: variables, Update: update}
}

// NewStep declares a discrete update; timing yields the next execution
// time from the current one.
func NewStep(name string, variables []*variable.Variable, timing TimingFunc, update UpdateFunc) *Process {
	return &Process{Name: name, Kind: Step, Variables: variables, Timing: timing, Update: update}
}

// NewEvent declares a triggered update.
func NewEvent(name string, variables []*variable.Variable, trigger TriggerFunc, update UpdateFunc) *Process {
	return &Process{Name: name, Kind: Event, Variables: variables, Trigger: trigger, Update: update}
}

func (p *Process) String() string {
	return fmt.Sprintf("%s process %q", p.Kind, p.Name)
}
