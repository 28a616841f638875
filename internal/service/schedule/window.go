// Package schedule decides whether a reminder is due in the current
// dispatcher tick. The dispatcher polls on a fixed cadence and keeps no
// record of what it already fired, so due-ness is a forward-looking
// window check: a reminder fires in the tick whose window contains its
// due instant, and because consecutive windows tile the timeline
// (window width == polling interval, half-open intervals), exactly one
// tick claims each reminder.
package schedule

import "time"

// IsDue reports whether the reminder at startAt-offset falls inside
// [now, now+window). The interval is half-open so adjacent ticks never
// both claim a due instant that lands exactly on a boundary.
func IsDue(startAt time.Time, offset time.Duration, now time.Time, window time.Duration) bool {
	if offset <= 0 || window <= 0 {
		return false
	}
	due := startAt.Add(-offset)
	return !due.Before(now) && due.Before(now.Add(window))
}

// DueAt returns the instant at which the reminder becomes due.
func DueAt(startAt time.Time, offset time.Duration) time.Time {
	return startAt.Add(-offset)
}

// WindowStart truncates now onto the tiling-window grid. Used to key the
// dispatcher's tick lease so that concurrent instances evaluating the
// same window agree on a single key.
func WindowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}
