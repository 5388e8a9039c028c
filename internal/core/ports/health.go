package ports

import "context"

// HealthChecker probes one dependency; a non-nil error means unhealthy.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// OptionalHealthChecker marks a dependency the API keeps serving without. Its failure
// degrades the health report instead of failing it.
type OptionalHealthChecker interface {
	HealthChecker
	Optional() bool
}
