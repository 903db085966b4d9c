package recurrence

import (
	"fmt"

	"github.com/teambition/rrule-go"
)

// ROption expresses the rule as RFC 5545 options. Month-end clamping is
// encoded as BYMONTHDAY=<day>,-1 with BYSETPOS=1, which picks the anchor day
// when the month has it and the last day otherwise.
func (r Rule) ROption() rrule.ROption {
	opt := rrule.ROption{
		Dtstart:  r.AnchorDate,
		Interval: r.step(),
	}

	switch r.Frequency {
	case FrequencyNone:
		opt.Freq = rrule.DAILY
		opt.Count = 1
	case FrequencyDaily:
		opt.Freq = rrule.DAILY
	case FrequencyWeekly:
		opt.Freq = rrule.WEEKLY
	case FrequencyMonthly:
		opt.Freq = rrule.MONTHLY
		if day := r.AnchorDate.Day(); day > 28 {
			opt.Bymonthday = []int{day, -1}
			opt.Bysetpos = []int{1}
		}
	case FrequencyYearly:
		opt.Freq = rrule.YEARLY
		if r.AnchorDate.Month() == 2 && r.AnchorDate.Day() == 29 {
			opt.Bymonth = []int{2}
			opt.Bymonthday = []int{29, -1}
			opt.Bysetpos = []int{1}
		}
	}

	switch r.EndType {
	case EndOnDate:
		if r.EndDate != nil {
			opt.Until = *r.EndDate
		}
	case EndAfterOccurrences:
		if r.OccurrenceLimit != nil && r.Frequency != FrequencyNone {
			opt.Count = *r.OccurrenceLimit
		}
	}

	return opt
}

// RRule renders the rule with its DTSTART line, ready for calendar export.
func (r Rule) RRule() (string, error) {
	rr, err := rrule.NewRRule(r.ROption())
	if err != nil {
		return "", fmt.Errorf("building rrule: %w", err)
	}

	return rr.String(), nil
}
