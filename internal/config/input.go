// Package config loads the quoting input bundle and runtime settings.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/benefitflow/ichra-engine/internal/contribution"
	"github.com/benefitflow/ichra-engine/internal/domain"
	"github.com/benefitflow/ichra-engine/internal/engine"
	"github.com/benefitflow/ichra-engine/internal/rating"
)

// Bundle is the on-disk form of one group's quoting inputs: the roster, the
// benefit classes, the plan catalog (typically pre-filtered to the group's
// rating area by an external lookup), and an optional starting filter.
type Bundle struct {
	AsOf    time.Time             `yaml:"as_of"`
	Members []domain.Member       `yaml:"members"`
	Classes []domain.BenefitClass `yaml:"classes"`
	Plans   []domain.Plan         `yaml:"plans"`
	Filter  domain.FilterSpec     `yaml:"filter"`
}

// InputParser handles parsing and validation of input bundles.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads an input bundle from a YAML file and validates it.
// Plans with corrupt rate data are excluded from the returned inputs and
// reported in issues; classes with malformed age bands stay in the bundle
// (the resolver falls back to the base contribution) but are reported too.
// Structural problems (duplicate IDs, dangling class references) fail the
// load outright.
func (ip *InputParser) LoadFromFile(filename string) (*engine.Inputs, []error, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var bundle Bundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return ip.Validate(&bundle)
}

// Validate checks a bundle and converts it into engine inputs.
func (ip *InputParser) Validate(bundle *Bundle) (*engine.Inputs, []error, error) {
	if bundle.AsOf.IsZero() {
		return nil, nil, fmt.Errorf("as_of reference date is required")
	}

	classIDs := make(map[string]struct{}, len(bundle.Classes))
	for i := range bundle.Classes {
		class := &bundle.Classes[i]
		if class.ID == "" {
			return nil, nil, fmt.Errorf("class %d: id is required", i)
		}
		if _, dup := classIDs[class.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate class id %s", class.ID)
		}
		classIDs[class.ID] = struct{}{}
		if class.BaseContribution.IsNegative() {
			return nil, nil, fmt.Errorf("class %s: base contribution must not be negative", class.ID)
		}
	}

	memberIDs := make(map[string]struct{}, len(bundle.Members))
	for i := range bundle.Members {
		m := &bundle.Members[i]
		if m.ID == "" {
			return nil, nil, fmt.Errorf("member %d: id is required", i)
		}
		if _, dup := memberIDs[m.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate member id %s", m.ID)
		}
		memberIDs[m.ID] = struct{}{}
		if m.BirthDate.IsZero() {
			return nil, nil, fmt.Errorf("member %s: birth date is required", m.ID)
		}
		if m.FamilySize < 1 {
			return nil, nil, fmt.Errorf("member %s: family size must be at least 1", m.ID)
		}
		if m.HouseholdIncome.IsNegative() {
			return nil, nil, fmt.Errorf("member %s: household income must not be negative", m.ID)
		}
		if _, ok := classIDs[m.BenefitClassID]; !ok {
			return nil, nil, fmt.Errorf("member %s references unknown benefit class %s", m.ID, m.BenefitClassID)
		}
	}

	var issues []error

	// Misauthored age bands degrade to the base contribution at resolution
	// time; report them now so an operator can fix the data.
	for i := range bundle.Classes {
		if err := contribution.ValidateBands(&bundle.Classes[i]); err != nil {
			issues = append(issues, err)
		}
	}

	planIDs := make(map[string]struct{}, len(bundle.Plans))
	plans := make([]domain.Plan, 0, len(bundle.Plans))
	for i := range bundle.Plans {
		p := &bundle.Plans[i]
		if p.ID == "" {
			return nil, nil, fmt.Errorf("plan %d: id is required", i)
		}
		if _, dup := planIDs[p.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate plan id %s", p.ID)
		}
		planIDs[p.ID] = struct{}{}
		if err := rating.ValidatePlan(p); err != nil {
			issues = append(issues, err)
			continue
		}
		plans = append(plans, *p)
	}

	return &engine.Inputs{
		AsOf:    bundle.AsOf,
		Members: bundle.Members,
		Classes: bundle.Classes,
		Catalog: plans,
		Filter:  bundle.Filter,
	}, issues, nil
}
