package recurrence_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"github.com/MrJamesThe3rd/finny-schedules/internal/recurrence"
)

// The rendered RRULE must expand to exactly the dates the generator yields.
func TestRule_ROptionMatchesGenerator(t *testing.T) {
	tests := []struct {
		name string
		rule recurrence.Rule
	}{
		{
			name: "Daily",
			rule: recurrence.Rule{
				Frequency: recurrence.FrequencyDaily, Interval: 5, EndType: recurrence.EndAfterOccurrences,
				OccurrenceLimit: new(10), AnchorDate: date(2025, 2, 20),
			},
		},
		{
			name: "Weekly",
			rule: recurrence.Rule{
				Frequency: recurrence.FrequencyWeekly, Interval: 2, EndType: recurrence.EndAfterOccurrences,
				OccurrenceLimit: new(3), AnchorDate: date(2025, 1, 1),
			},
		},
		{
			name: "MonthlyMonthEnd",
			rule: recurrence.Rule{
				Frequency: recurrence.FrequencyMonthly, Interval: 1, EndType: recurrence.EndAfterOccurrences,
				OccurrenceLimit: new(14), AnchorDate: date(2024, 1, 31),
			},
		},
		{
			name: "MonthlyOnDate",
			rule: recurrence.Rule{
				Frequency: recurrence.FrequencyMonthly, Interval: 1, EndType: recurrence.EndOnDate,
				EndDate: new(date(2025, 12, 31)), AnchorDate: date(2025, 1, 15),
			},
		},
		{
			name: "YearlyLeapDay",
			rule: recurrence.Rule{
				Frequency: recurrence.FrequencyYearly, Interval: 1, EndType: recurrence.EndAfterOccurrences,
				OccurrenceLimit: new(9), AnchorDate: date(2024, 2, 29),
			},
		},
		{
			name: "None",
			rule: recurrence.Rule{
				Frequency: recurrence.FrequencyNone, Interval: 1, EndType: recurrence.EndNever,
				AnchorDate: date(2025, 5, 5),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, err := rrule.NewRRule(tt.rule.ROption())
			require.NoError(t, err)

			want := collect(tt.rule, date(2100, 1, 1))
			got := rr.All()

			require.Len(t, got, len(want))

			for i := range want {
				assert.Equal(t, want[i], got[i].UTC())
			}
		})
	}
}

func TestRule_RRule(t *testing.T) {
	rule := recurrence.Rule{
		Frequency: recurrence.FrequencyWeekly, Interval: 2, EndType: recurrence.EndAfterOccurrences,
		OccurrenceLimit: new(3), AnchorDate: date(2025, 1, 1),
	}

	got, err := rule.RRule()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "DTSTART:20250101T000000Z"))
	assert.Contains(t, got, "FREQ=WEEKLY")
	assert.Contains(t, got, "INTERVAL=2")
	assert.Contains(t, got, "COUNT=3")
}

func TestRule_RRuleUntil(t *testing.T) {
	rule := recurrence.Rule{
		Frequency: recurrence.FrequencyMonthly, Interval: 1, EndType: recurrence.EndOnDate,
		EndDate: new(date(2025, 6, 30)), AnchorDate: date(2025, 1, 31),
	}

	got, err := rule.RRule()
	require.NoError(t, err)

	assert.Contains(t, got, "UNTIL=20250630T000000Z")
	assert.Contains(t, got, "BYSETPOS=1")
	assert.Equal(t, time.UTC, rule.ROption().Dtstart.Location())
}
