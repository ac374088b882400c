package service

import "time"

// Calendar-window resolution for the statistics queries. Windows are closed
// date intervals; weeks run Monday through Sunday.

// dateOf truncates t to midnight in its own location
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mondayOnOrBefore returns the Monday on or before d
func mondayOnOrBefore(d time.Time) time.Time {
	d = dateOf(d)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}

// weekWindow resolves a 7-day window. A nil start means the week containing
// now, anchored at its Monday.
func weekWindow(start *time.Time, now time.Time) (time.Time, time.Time) {
	var s time.Time
	if start != nil {
		s = dateOf(*start)
	} else {
		s = mondayOnOrBefore(now)
	}
	return s, s.AddDate(0, 0, 6)
}

// lastWeekStart returns the Monday of the week before the one containing now
func lastWeekStart(now time.Time) time.Time {
	return mondayOnOrBefore(now).AddDate(0, 0, -7)
}

// monthWindow resolves year/month into a closed date interval. Values of
// zero or below default to the current year/month; a month outside [1,12]
// is a validation error.
func monthWindow(year, month int, now time.Time) (time.Time, time.Time, error) {
	if year <= 0 {
		year = now.Year()
	}
	if month <= 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{},
			Validationf("monthWindow", "invalid month: %d. Must be between 1 and 12", month)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

// lastMonth returns the year and month preceding the one containing now.
// Computed from the year/month fields directly; AddDate would normalize
// month-end days (March 31 minus a month lands in March again).
func lastMonth(now time.Time) (int, int) {
	y, m := now.Year(), int(now.Month())-1
	if m == 0 {
		y, m = y-1, 12
	}
	return y, m
}

// weekSpan is one sub-week of a month: a 7-day chunk anchored at the 1st,
// the last chunk clamped to month end
type weekSpan struct {
	Number int
	Start  time.Time
	End    time.Time
}

// monthWeeks splits a month window into consecutive 7-day spans
func monthWeeks(start, end time.Time) []weekSpan {
	var spans []weekSpan
	for cur, n := start, 1; !cur.After(end); cur, n = cur.AddDate(0, 0, 7), n+1 {
		spanEnd := cur.AddDate(0, 0, 6)
		if spanEnd.After(end) {
			spanEnd = end
		}
		spans = append(spans, weekSpan{Number: n, Start: cur, End: spanEnd})
	}
	return spans
}
