// Package contribution resolves the monthly employer contribution owed to a
// member under their assigned benefit class.
package contribution

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/benefitflow/ichra-engine/internal/domain"
)

// Resolve returns the monthly employer contribution for a member. The
// member's age is computed as of the reference date; if exactly one age band
// contains it, the band's override applies, otherwise the class base
// contribution does.
//
// When more than one band matches the same age the class data was authored
// incorrectly: Resolve returns the base contribution as a documented
// fallback together with a ConfigurationError so the caller can report it.
func Resolve(class *domain.BenefitClass, m *domain.Member, asOf time.Time) (decimal.Decimal, error) {
	age := m.Age(asOf)

	var matched *domain.AgeBand
	matches := 0
	for i := range class.AgeBands {
		if class.AgeBands[i].Contains(age) {
			matched = &class.AgeBands[i]
			matches++
		}
	}

	switch matches {
	case 0:
		return class.BaseContribution, nil
	case 1:
		return matched.Contribution, nil
	default:
		return class.BaseContribution, &domain.ConfigurationError{
			ClassID: class.ID,
			Reason:  fmt.Sprintf("%d age bands match age %d", matches, age),
		}
	}
}

// ValidateBands checks a class's age bands for malformed ranges and pairwise
// overlap, so misauthored classes surface at load rather than mid-pass.
func ValidateBands(class *domain.BenefitClass) error {
	for i, band := range class.AgeBands {
		if band.MinAge > band.MaxAge {
			return &domain.ConfigurationError{
				ClassID: class.ID,
				Reason:  fmt.Sprintf("age band %d has min_age %d above max_age %d", i, band.MinAge, band.MaxAge),
			}
		}
		if band.Contribution.IsNegative() {
			return &domain.ConfigurationError{
				ClassID: class.ID,
				Reason:  fmt.Sprintf("age band %d has a negative contribution", i),
			}
		}
		for j := i + 1; j < len(class.AgeBands); j++ {
			if band.Overlaps(class.AgeBands[j]) {
				return &domain.ConfigurationError{
					ClassID: class.ID,
					Reason:  fmt.Sprintf("age bands %d and %d overlap", i, j),
				}
			}
		}
	}
	return nil
}
