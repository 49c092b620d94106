package leaderboard

import "time"

const (
	// DefaultCutoffDay: days of the month before it select the previous period
	DefaultCutoffDay = 26

	periodStartDay = 26
	periodEndDay   = 25
	dateLayout     = "2006-01-02"
)

// DateWindow is a billing period, both ends inclusive, always in UTC.
type DateWindow struct {
	StartAt time.Time
	EndAt   time.Time
}

// WindowAt returns the billing period that is current at now. A period runs
// from the 26th of one month through the 25th of the next one; when the day
// of month is before cutoffDay the period that started last month is used.
func WindowAt(now time.Time, cutoffDay int) DateWindow {
	now = now.UTC()
	year, month := now.Year(), now.Month()

	if now.Day() < cutoffDay {
		month--
		if month < time.January {
			month = time.December
			year--
		}
	}

	return DateWindow{
		StartAt: time.Date(year, month, periodStartDay, 0, 0, 0, 0, time.UTC),
		// time.Date normalizes month 13 into January of the next year
		EndAt: time.Date(year, month+1, periodEndDay, 23, 59, 59, 0, time.UTC),
	}
}

func (w DateWindow) StartDate() string {
	return w.StartAt.Format(dateLayout)
}

func (w DateWindow) EndDate() string {
	return w.EndAt.Format(dateLayout)
}

func (w DateWindow) String() string {
	return w.StartDate() + " -> " + w.EndDate()
}
