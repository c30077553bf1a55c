package domain

import "errors"

var (
	// ErrNotRegistered reports a request for an agent type the registry has
	// never seen. This is a configuration error, not an access denial.
	ErrNotRegistered = errors.New("agent type not registered")

	// ErrToolResolution reports that a registered agent's required tools
	// could not be resolved. The definition itself is fine; a dependency is
	// unavailable.
	ErrToolResolution = errors.New("tool resolution failed")

	// ErrConstruction reports that the type's constructor failed after
	// access and tooling checks passed.
	ErrConstruction = errors.New("agent construction failed")
)
