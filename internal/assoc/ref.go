package assoc

// Ref is a single-valued reference from an owner instance to a target
// instance whose type keeps a back-reference set of owners. Retargeting
// keeps both sides consistent: the owner is deregistered from the old
// target's back-set before being registered with the new one, so back-sets
// never hold stale or duplicate memberships.
type Ref[O comparable, T comparable] struct {
	owner    O
	target   T
	backrefs func(T) *Set[O]
	check    func(T) error
}

// NewRef creates an unset reference owned by owner. backrefs locates the
// back-reference set on a target; check, when non-nil, vets candidate
// targets before they are stored.
func NewRef[O comparable, T comparable](owner O, backrefs func(T) *Set[O], check func(T) error) *Ref[O, T] {
	return &Ref[O, T]{owner: owner, backrefs: backrefs, check: check}
}

// Get returns the current target, the zero value when unset.
func (r *Ref[O, T]) Get() T {
	return r.target
}

// Set retargets the reference. Passing the zero value clears it.
func (r *Ref[O, T]) Set(target T) error {
	var zero T
	if target != zero && r.check != nil {
		if err := r.check(target); err != nil {
			return err
		}
	}
	if r.target != zero {
		r.backrefs(r.target).Remove(r.owner)
	}
	if target != zero {
		r.backrefs(target).Add(r.owner)
	}
	r.target = target
	return nil
}
