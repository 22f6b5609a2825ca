package utils

import (
	"errors"
	"fmt"
	"time"
)

const (
	MonthLayout = "2006-01"
	DateLayout  = "2006-01-02"
)

var ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	return t, nil
}

// MonthFromParts builds a month key from separate year and month path segments.
func MonthFromParts(year, month string) (string, error) {
	if len(month) == 1 {
		month = "0" + month
	}
	key := year + "-" + month
	if _, err := ParseMonth(key); err != nil {
		return "", err
	}
	return key, nil
}

func PreviousMonth(month string) (string, error) {
	t, err := ParseMonth(month)
	if err != nil {
		return "", err
	}
	return MonthKey(t.AddDate(0, -1, 0)), nil
}

// MonthOfDate validates a YYYY-MM-DD date and returns its month key.
func MonthOfDate(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return MonthKey(t), nil
}
