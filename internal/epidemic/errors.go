package epidemic

import (
	"fmt"

	"github.com/outbreaklab/epidemic-core/pkg/models"
)

// ConfigurationError reports an invalid parameter set. It is returned from
// Trial and Ensemble construction before any simulation work begins;
// invalid values are never silently clamped.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InvariantViolation reports that population conservation failed after a
// committed step. It indicates a defect in topology or transition logic,
// not a recoverable runtime condition, and aborts the trial that hit it.
type InvariantViolation struct {
	Step   int
	Before models.StateCounts
	After  models.StateCounts
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf(
		"population conservation violated at step %d: before S=%d I=%d R=%d (total %d), after S=%d I=%d R=%d (total %d)",
		e.Step,
		e.Before.Susceptible, e.Before.Infected, e.Before.Recovered, e.Before.Total(),
		e.After.Susceptible, e.After.Infected, e.After.Recovered, e.After.Total(),
	)
}
