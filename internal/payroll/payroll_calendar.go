package payroll

import (
	"context"
	"time"
)

const (
	DayWorking = "WORKING_DAY"
	DayHoliday = "HOLIDAY"
	DayWeekend = "WEEKEND"
)

const dateLayout = "2006-01-02"

// CalendarProvider returns the school's explicit day classifications in
// [from, to], keyed by YYYY-MM-DD. Days without an entry use the default rule.
type CalendarProvider interface {
	Overrides(ctx context.Context, schoolID string, from, to time.Time) (map[string]string, error)
}

type Calendar struct {
	Start       time.Time
	End         time.Time
	WorkingDays int
	Holidays    int
	Weekends    int
}

// BuildCalendar classifies every day of the month. Sunday is a weekend unless
// an override says otherwise.
func BuildCalendar(year, month int, overrides map[string]string) Calendar {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	cal := Calendar{Start: start, End: end}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		kind, ok := overrides[d.Format(dateLayout)]
		if !ok {
			kind = DayWorking
			if d.Weekday() == time.Sunday {
				kind = DayWeekend
			}
		}

		switch kind {
		case DayHoliday:
			cal.Holidays++
		case DayWeekend:
			cal.Weekends++
		default:
			cal.WorkingDays++
		}
	}
	return cal
}

func resolveCalendar(ctx context.Context, provider CalendarProvider, schoolID string, year, month int) (Calendar, error) {
	var overrides map[string]string
	if provider != nil {
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		var err error
		overrides, err = provider.Overrides(ctx, schoolID, start, start.AddDate(0, 1, -1))
		if err != nil {
			return Calendar{}, err
		}
	}
	return BuildCalendar(year, month, overrides), nil
}
