package recurrence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finny-schedules/internal/recurrence"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func collect(r recurrence.Rule, horizon time.Time) []time.Time {
	var out []time.Time
	for _, d := range r.Occurrences(horizon) {
		out = append(out, d)
	}

	return out
}

func TestRule_Occurrences(t *testing.T) {
	type args struct {
		rule    recurrence.Rule
		horizon time.Time
	}

	type testCase struct {
		name string
		args args
		want []time.Time
	}

	tests := []testCase{
		{
			name: "NoneYieldsAnchorOnly",
			args: args{
				rule: recurrence.Rule{
					Frequency:  recurrence.FrequencyNone,
					Interval:   1,
					EndType:    recurrence.EndNever,
					AnchorDate: date(2025, 3, 10),
				},
				horizon: date(2030, 1, 1),
			},
			want: []time.Time{date(2025, 3, 10)},
		},
		{
			name: "DailyEveryThirdDay",
			args: args{
				rule: recurrence.Rule{
					Frequency:  recurrence.FrequencyDaily,
					Interval:   3,
					EndType:    recurrence.EndNever,
					AnchorDate: date(2025, 2, 25),
				},
				horizon: date(2025, 3, 6),
			},
			want: []time.Time{date(2025, 2, 25), date(2025, 2, 28), date(2025, 3, 3), date(2025, 3, 6)},
		},
		{
			name: "WeeklyEveryOtherWeekWithLimit",
			args: args{
				rule: recurrence.Rule{
					Frequency:       recurrence.FrequencyWeekly,
					Interval:        2,
					EndType:         recurrence.EndAfterOccurrences,
					OccurrenceLimit: new(3),
					AnchorDate:      date(2025, 1, 1),
				},
				horizon: date(2026, 1, 1),
			},
			want: []time.Time{date(2025, 1, 1), date(2025, 1, 15), date(2025, 1, 29)},
		},
		{
			name: "MonthlyClampIsNotSticky",
			args: args{
				rule: recurrence.Rule{
					Frequency:  recurrence.FrequencyMonthly,
					Interval:   1,
					EndType:    recurrence.EndNever,
					AnchorDate: date(2025, 1, 31),
				},
				horizon: date(2025, 5, 31),
			},
			want: []time.Time{date(2025, 1, 31), date(2025, 2, 28), date(2025, 3, 31), date(2025, 4, 30), date(2025, 5, 31)},
		},
		{
			name: "MonthlyClampLeapFebruary",
			args: args{
				rule: recurrence.Rule{
					Frequency:  recurrence.FrequencyMonthly,
					Interval:   1,
					EndType:    recurrence.EndNever,
					AnchorDate: date(2024, 1, 31),
				},
				horizon: date(2024, 3, 31),
			},
			want: []time.Time{date(2024, 1, 31), date(2024, 2, 29), date(2024, 3, 31)},
		},
		{
			name: "MonthlyOnDateEndInclusive",
			args: args{
				rule: recurrence.Rule{
					Frequency:  recurrence.FrequencyMonthly,
					Interval:   2,
					EndType:    recurrence.EndOnDate,
					EndDate:    new(date(2025, 5, 15)),
					AnchorDate: date(2025, 1, 15),
				},
				horizon: date(2026, 1, 1),
			},
			want: []time.Time{date(2025, 1, 15), date(2025, 3, 15), date(2025, 5, 15)},
		},
		{
			name: "HorizonBeforeAnchor",
			args: args{
				rule: recurrence.Rule{
					Frequency:  recurrence.FrequencyDaily,
					Interval:   1,
					EndType:    recurrence.EndNever,
					AnchorDate: date(2025, 6, 1),
				},
				horizon: date(2025, 5, 31),
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collect(tt.args.rule, tt.args.horizon))
		})
	}
}

func TestRule_YearlyLeapDay(t *testing.T) {
	rule := recurrence.Rule{
		Frequency:  recurrence.FrequencyYearly,
		Interval:   1,
		EndType:    recurrence.EndNever,
		AnchorDate: date(2024, 2, 29),
	}

	d, ok := rule.At(2)
	require.True(t, ok)
	assert.Equal(t, date(2025, 2, 28), d)

	d, ok = rule.At(5)
	require.True(t, ok)
	assert.Equal(t, date(2028, 2, 29), d)
}

func TestRule_StrictlyIncreasingFromAnchor(t *testing.T) {
	anchors := []time.Time{date(2024, 1, 31), date(2024, 2, 29), date(2023, 12, 30), date(2025, 7, 1)}
	freqs := []recurrence.Frequency{
		recurrence.FrequencyDaily,
		recurrence.FrequencyWeekly,
		recurrence.FrequencyMonthly,
		recurrence.FrequencyYearly,
	}

	for _, anchor := range anchors {
		for _, f := range freqs {
			for interval := 1; interval <= 4; interval++ {
				rule := recurrence.Rule{Frequency: f, Interval: interval, EndType: recurrence.EndNever, AnchorDate: anchor}

				got := collect(rule, anchor.AddDate(12, 0, 0))
				require.NotEmpty(t, got)
				assert.Equal(t, anchor, got[0])

				for i := 1; i < len(got); i++ {
					assert.Truef(t, got[i].After(got[i-1]), "%s/%d from %s: %s not after %s",
						f, interval, anchor.Format(time.DateOnly), got[i].Format(time.DateOnly), got[i-1].Format(time.DateOnly))
				}
			}
		}
	}
}

func TestRule_Restartable(t *testing.T) {
	rule := recurrence.Rule{
		Frequency:  recurrence.FrequencyMonthly,
		Interval:   1,
		EndType:    recurrence.EndNever,
		AnchorDate: date(2025, 1, 31),
	}
	horizon := date(2026, 1, 1)

	assert.Equal(t, collect(rule, horizon), collect(rule, horizon))
}

func TestRule_OccurrencesFrom(t *testing.T) {
	rule := recurrence.Rule{
		Frequency:  recurrence.FrequencyDaily,
		Interval:   1,
		EndType:    recurrence.EndNever,
		AnchorDate: date(2025, 1, 1),
	}

	var idx []int
	for i := range rule.OccurrencesFrom(3, date(2025, 1, 5)) {
		idx = append(idx, i)
	}

	assert.Equal(t, []int{3, 4, 5}, idx)
}

func TestRule_After(t *testing.T) {
	type testCase struct {
		name    string
		rule    recurrence.Rule
		after   time.Time
		wantIdx int
		want    time.Time
		wantOK  bool
	}

	monthly := recurrence.Rule{
		Frequency:  recurrence.FrequencyMonthly,
		Interval:   1,
		EndType:    recurrence.EndNever,
		AnchorDate: date(2025, 1, 31),
	}

	tests := []testCase{
		{name: "BeforeAnchor", rule: monthly, after: date(2024, 12, 1), wantIdx: 1, want: date(2025, 1, 31), wantOK: true},
		{name: "OnAnchor", rule: monthly, after: date(2025, 1, 31), wantIdx: 2, want: date(2025, 2, 28), wantOK: true},
		{name: "MidMonth", rule: monthly, after: date(2025, 4, 10), wantIdx: 4, want: date(2025, 4, 30), wantOK: true},
		{name: "FarFuture", rule: monthly, after: date(2125, 1, 31), wantIdx: 1202, want: date(2125, 2, 28), wantOK: true},
		{
			name: "LimitReached",
			rule: recurrence.Rule{
				Frequency:       recurrence.FrequencyDaily,
				Interval:        1,
				EndType:         recurrence.EndAfterOccurrences,
				OccurrenceLimit: new(2),
				AnchorDate:      date(2025, 1, 1),
			},
			after:  date(2025, 1, 2),
			wantOK: false,
		},
		{
			name: "PastEndDate",
			rule: recurrence.Rule{
				Frequency:  recurrence.FrequencyWeekly,
				Interval:   1,
				EndType:    recurrence.EndOnDate,
				EndDate:    new(date(2025, 1, 20)),
				AnchorDate: date(2025, 1, 1),
			},
			after:  date(2025, 1, 15),
			wantOK: false,
		},
		{
			name: "NoneAfterAnchor",
			rule: recurrence.Rule{
				Frequency:  recurrence.FrequencyNone,
				Interval:   1,
				EndType:    recurrence.EndNever,
				AnchorDate: date(2025, 1, 1),
			},
			after:  date(2025, 1, 1),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, got, ok := tt.rule.After(tt.after)

			assert.Equal(t, tt.wantOK, ok)

			if !tt.wantOK {
				return
			}

			assert.Equal(t, tt.wantIdx, idx)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRule_CountThrough(t *testing.T) {
	weekly := recurrence.Rule{
		Frequency:  recurrence.FrequencyWeekly,
		Interval:   1,
		EndType:    recurrence.EndOnDate,
		EndDate:    new(date(2025, 1, 29)),
		AnchorDate: date(2025, 1, 1),
	}

	assert.Equal(t, 0, weekly.CountThrough(date(2024, 12, 31)))
	assert.Equal(t, 1, weekly.CountThrough(date(2025, 1, 1)))
	assert.Equal(t, 2, weekly.CountThrough(date(2025, 1, 14)))
	assert.Equal(t, 5, weekly.CountThrough(date(2025, 1, 29)))
	assert.Equal(t, 5, weekly.CountThrough(date(2030, 1, 1)))

	limited := recurrence.Rule{
		Frequency:       recurrence.FrequencyYearly,
		Interval:        1,
		EndType:         recurrence.EndAfterOccurrences,
		OccurrenceLimit: new(3),
		AnchorDate:      date(2020, 6, 1),
	}

	assert.Equal(t, 3, limited.CountThrough(date(2040, 1, 1)))
}

func TestDateIn(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2025, 1, 28, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, date(2025, 1, 29), recurrence.DateIn(now, loc))
	assert.Equal(t, date(2025, 1, 28), recurrence.DateIn(now, nil))
}
