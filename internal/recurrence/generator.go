package recurrence

import (
	"iter"
	"time"
)

// At returns the i-th (1-based) occurrence of the rule regardless of any
// horizon. ok is false when i lies beyond the rule's end condition.
func (r Rule) At(i int) (time.Time, bool) {
	if i < 1 || i > r.lastIndex() {
		return time.Time{}, false
	}

	d := r.raw(i)
	if r.EndType == EndOnDate && r.EndDate != nil && d.After(*r.EndDate) {
		return time.Time{}, false
	}

	return d, true
}

// Occurrences yields (index, date) pairs in ascending order, starting at the
// anchor and stopping before the first date after horizon or past the end
// condition. The sequence is restartable and has no hidden state.
func (r Rule) Occurrences(horizon time.Time) iter.Seq2[int, time.Time] {
	return r.OccurrencesFrom(1, horizon)
}

// OccurrencesFrom is Occurrences starting at index start.
func (r Rule) OccurrencesFrom(start int, horizon time.Time) iter.Seq2[int, time.Time] {
	return func(yield func(int, time.Time) bool) {
		for i := max(start, 1); ; i++ {
			d, ok := r.At(i)
			if !ok || d.After(horizon) {
				return
			}

			if !yield(i, d) {
				return
			}
		}
	}
}

// After returns the first occurrence strictly after t.
func (r Rule) After(t time.Time) (int, time.Time, bool) {
	i := r.rawCountThrough(t) + 1

	d, ok := r.At(i)
	if !ok {
		return 0, time.Time{}, false
	}

	return i, d, true
}

// CountThrough returns how many occurrences fall on or before t.
func (r Rule) CountThrough(t time.Time) int {
	n := r.rawCountThrough(t)

	if r.EndType == EndOnDate && r.EndDate != nil {
		n = min(n, r.rawCountThrough(*r.EndDate))
	}

	return min(n, r.lastIndex())
}

func (r Rule) step() int {
	return max(r.Interval, 1)
}

// lastIndex is the highest index the count-based end conditions allow.
func (r Rule) lastIndex() int {
	last := int(^uint(0) >> 1)

	if r.Frequency == FrequencyNone {
		last = 1
	}

	if r.EndType == EndAfterOccurrences && r.OccurrenceLimit != nil {
		last = min(last, *r.OccurrenceLimit)
	}

	return last
}

// raw computes the i-th date ignoring every end condition.
func (r Rule) raw(i int) time.Time {
	n := (i - 1) * r.step()

	switch r.Frequency {
	case FrequencyDaily:
		return r.AnchorDate.AddDate(0, 0, n)
	case FrequencyWeekly:
		return r.AnchorDate.AddDate(0, 0, 7*n)
	case FrequencyMonthly:
		return addMonths(r.AnchorDate, n)
	case FrequencyYearly:
		return addMonths(r.AnchorDate, 12*n)
	}

	return r.AnchorDate
}

// rawCountThrough counts raw dates on or before t, ignoring end conditions.
func (r Rule) rawCountThrough(t time.Time) int {
	if t.Before(r.AnchorDate) {
		return 0
	}

	if r.Frequency == FrequencyNone {
		return 1
	}

	i := r.estimate(t)

	for i > 1 && r.raw(i-1).After(t) {
		i--
	}

	for !r.raw(i).After(t) {
		i++
	}

	return i - 1
}

// estimate guesses the index of the first raw date after t; rawCountThrough
// corrects it in both directions.
func (r Rule) estimate(t time.Time) int {
	a := r.AnchorDate

	switch r.Frequency {
	case FrequencyDaily:
		return daysBetween(a, t)/r.step() + 1
	case FrequencyWeekly:
		return daysBetween(a, t)/(7*r.step()) + 1
	case FrequencyMonthly:
		months := (t.Year()-a.Year())*12 + int(t.Month()) - int(a.Month())
		return max(months, 0)/r.step() + 1
	case FrequencyYearly:
		return max(t.Year()-a.Year(), 0)/r.step() + 1
	}

	return 1
}
