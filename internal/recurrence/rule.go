package recurrence

import (
	"errors"
	"fmt"
	"time"
)

// Frequency is the unit a rule repeats in. Values are part of the wire contract.
type Frequency string

const (
	FrequencyNone    Frequency = "NONE"
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyNone, FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}

	return false
}

// EndType is the condition that stops a rule from producing occurrences.
type EndType string

const (
	EndNever            EndType = "NEVER"
	EndOnDate           EndType = "ON_DATE"
	EndAfterOccurrences EndType = "AFTER_OCCURRENCES"
)

func (e EndType) Valid() bool {
	switch e {
	case EndNever, EndOnDate, EndAfterOccurrences:
		return true
	}

	return false
}

// ErrInvalidRule is matched by every ValidationError.
var ErrInvalidRule = errors.New("invalid recurrence rule")

// ValidationError reports a single malformed field of a rule or template.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRule
}

// Rule describes how often and for how long a transaction repeats.
// The anchor date is always occurrence #1.
type Rule struct {
	Frequency       Frequency
	Interval        int
	EndType         EndType
	EndDate         *time.Time
	OccurrenceLimit *int
	AnchorDate      time.Time
}

// Normalize truncates all dates to calendar dates and fills the interval of
// non-repeating rules. It does not validate.
func (r Rule) Normalize() Rule {
	r.AnchorDate = Date(r.AnchorDate)

	if r.EndDate != nil {
		r.EndDate = new(Date(*r.EndDate))
	}

	if r.OccurrenceLimit != nil {
		r.OccurrenceLimit = new(*r.OccurrenceLimit)
	}

	if r.Frequency == FrequencyNone && r.Interval < 1 {
		r.Interval = 1
	}

	return r
}

// Validate checks the rule invariants. The returned error is a *ValidationError.
func (r Rule) Validate() error {
	if !r.Frequency.Valid() {
		return &ValidationError{Field: "frequency", Reason: fmt.Sprintf("unknown value %q", r.Frequency)}
	}

	if r.Interval < 1 {
		return &ValidationError{Field: "interval", Reason: "must be at least 1"}
	}

	if r.AnchorDate.IsZero() {
		return &ValidationError{Field: "anchor_date", Reason: "is required"}
	}

	if y := r.AnchorDate.Year(); y < minYear || y > maxYear {
		return &ValidationError{Field: "anchor_date", Reason: fmt.Sprintf("year must be between %d and %d", minYear, maxYear)}
	}

	switch r.EndType {
	case EndNever:
		if r.EndDate != nil {
			return &ValidationError{Field: "end_date", Reason: "must be empty when end type is NEVER"}
		}

		if r.OccurrenceLimit != nil {
			return &ValidationError{Field: "occurrence_limit", Reason: "must be empty when end type is NEVER"}
		}
	case EndOnDate:
		if r.EndDate == nil {
			return &ValidationError{Field: "end_date", Reason: "is required when end type is ON_DATE"}
		}

		if r.OccurrenceLimit != nil {
			return &ValidationError{Field: "occurrence_limit", Reason: "must be empty when end type is ON_DATE"}
		}

		if Date(*r.EndDate).Before(Date(r.AnchorDate)) {
			return &ValidationError{Field: "end_date", Reason: "must not be before anchor date"}
		}

		if r.EndDate.Year() > maxYear {
			return &ValidationError{Field: "end_date", Reason: fmt.Sprintf("year must not exceed %d", maxYear)}
		}
	case EndAfterOccurrences:
		if r.OccurrenceLimit == nil {
			return &ValidationError{Field: "occurrence_limit", Reason: "is required when end type is AFTER_OCCURRENCES"}
		}

		if *r.OccurrenceLimit < 1 {
			return &ValidationError{Field: "occurrence_limit", Reason: "must be at least 1"}
		}

		if r.EndDate != nil {
			return &ValidationError{Field: "end_date", Reason: "must be empty when end type is AFTER_OCCURRENCES"}
		}
	default:
		return &ValidationError{Field: "end_type", Reason: fmt.Sprintf("unknown value %q", r.EndType)}
	}

	return nil
}

// Equal reports whether two rules produce the same occurrence sequence inputs.
func (r Rule) Equal(o Rule) bool {
	if r.Frequency != o.Frequency || r.Interval != o.Interval || r.EndType != o.EndType {
		return false
	}

	if !r.AnchorDate.Equal(o.AnchorDate) {
		return false
	}

	if (r.EndDate == nil) != (o.EndDate == nil) {
		return false
	}

	if r.EndDate != nil && !r.EndDate.Equal(*o.EndDate) {
		return false
	}

	if (r.OccurrenceLimit == nil) != (o.OccurrenceLimit == nil) {
		return false
	}

	return r.OccurrenceLimit == nil || *r.OccurrenceLimit == *o.OccurrenceLimit
}
