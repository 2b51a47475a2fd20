package domain

import "fmt"

// RatingDataError reports a plan rate table that is missing, malformed, or
// violates the tobacco >= regular invariant. The offending plan is excluded
// from the pass's candidate set; the error is surfaced so an operator can
// fix the catalog.
type RatingDataError struct {
	PlanID string
	Reason string
}

func (e *RatingDataError) Error() string {
	return fmt.Sprintf("rating data error for plan %s: %s", e.PlanID, e.Reason)
}

// ConfigurationError reports a benefit class with overlapping or malformed
// age bands, or a member referencing a class that does not exist. The class's
// base contribution is used as a fallback for the pass, but the error is
// still reported.
type ConfigurationError struct {
	ClassID string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for class %s: %s", e.ClassID, e.Reason)
}

// InvariantViolation marks a programming-level defect: a state the pipeline
// must never reach on well-formed input. It is fatal to the whole pass.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Detail)
}
