// Package compose assembles simulation models out of independently
// authored components. Each component declares, against named entity types
// and process taxa, the variables and processes it contributes. Configure
// runs once per model, merges all contributions deterministically,
// validates cross-component variable sharing, and classifies every process
// into one of four scheduling buckets. The resulting Schema is the
// immutable input of the (external) time-stepping loop.
//
// Components register their contributions explicitly through the builder
// API; there is no reflection over type hierarchies. Collisions are never
// resolved by priority: two components may only share a codename by
// declaring the identical *variable.Variable under it, anything else fails
// configuration.
package compose
