package variable

import "fmt"

// ValidationError reports a candidate value that falls outside a variable's
// declared domain. It carries the specific constraint that failed.
type ValidationError struct {
	Variable string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Variable == "" {
		return "invalid value: " + e.Reason
	}
	return fmt.Sprintf("invalid value for %q: %s", e.Variable, e.Reason)
}

// ConfigurationError reports an inconsistent model definition: a bad
// descriptor spec, a codename collision, a variable shared under two
// codenames, or a process of unrecognized kind. Configuration errors are
// fatal to model construction.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "model configuration error: " + e.Reason
}
