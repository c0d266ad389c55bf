package holiday

import "time"

// WorkingDays counts business days in [start, end] inclusive. A day counts
// unless it is a Saturday, a Sunday, or its date appears in holidays.
// Comparison ignores the time component. A reversed range yields 0; callers
// are expected to reject start > end before getting here.
func WorkingDays(start, end time.Time, holidays []time.Time) int {
	if end.Before(start) {
		return 0
	}

	skip := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		skip[h.Format("2006-01-02")] = struct{}{}
	}

	days := 0
	for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if _, ok := skip[d.Format("2006-01-02")]; ok {
			continue
		}
		days++
	}

	return days
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
