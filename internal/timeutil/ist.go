package timeutil

import (
	"errors"
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30). Payroll months and
// attendance days are bounded in this zone.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Now returns the current time in IST
func Now() time.Time {
	return time.Now().In(IST)
}

// StartOfDay returns 00:00:00 IST of the day containing t
func StartOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}

// EndOfDay returns the last nanosecond of the IST day containing t
func EndOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 23, 59, 59, 999999999, IST)
}

// MonthRange returns the inclusive bounds of a calendar month in IST:
// the first day at 00:00 and the last day at 23:59:59.999999999.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, IST)
	end := EndOfDay(start.AddDate(0, 1, -1))
	return start, end
}

// AgeOn returns completed years between birth and on, calendar aware.
func AgeOn(birth, on time.Time) int {
	b := birth.In(IST)
	o := on.In(IST)
	age := o.Year() - b.Year()
	if o.Month() < b.Month() || (o.Month() == b.Month() && o.Day() < b.Day()) {
		age--
	}
	return age
}

var ErrInvalidDate = errors.New("invalid date")

// ParseDate accepts YYYY-MM-DD (interpreted in IST) or a full RFC3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.ParseInLocation(DateLayout, value, IST); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(IST), nil
	}
	return time.Time{}, ErrInvalidDate
}

const (
	DateLayout    = "2006-01-02"
	MonthLayout   = "January 2006"
	DisplayLayout = "02-Jan-2006 03:04 PM"
)
