package budget

import (
	"fmt"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// ParseMonth validates a YYYY-MM string and returns the first instant of that month in UTC.
func ParseMonth(month string) (time.Time, error) {
	if err := model.ValidateMonth(month); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(model.MonthLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse month %q: %w", month, err)
	}
	return t, nil
}

// MonthOfTime formats t's calendar month.
func MonthOfTime(t time.Time) string {
	return t.Format(model.MonthLayout)
}

// MonthOf returns the YYYY-MM prefix of a YYYY-MM-DD date.
func MonthOf(date string) string {
	if len(date) < len(model.MonthLayout) {
		return date
	}
	return date[:len(model.MonthLayout)]
}

// NextMonth returns the month after month, wrapping the year.
func NextMonth(month string) (string, error) {
	t, err := ParseMonth(month)
	if err != nil {
		return "", err
	}
	return MonthOfTime(t.AddDate(0, 1, 0)), nil
}

// PreviousMonth returns the month before month, wrapping the year.
func PreviousMonth(month string) (string, error) {
	t, err := ParseMonth(month)
	if err != nil {
		return "", err
	}
	return MonthOfTime(t.AddDate(0, -1, 0)), nil
}

// DaysInMonth returns the number of days in month.
func DaysInMonth(month string) (int, error) {
	t, err := ParseMonth(month)
	if err != nil {
		return 0, err
	}
	return t.AddDate(0, 1, -1).Day(), nil
}

// DayOfMonth is the elapsed-day count used for pace prediction: now's day
// when month contains now, otherwise the full length of month.
func DayOfMonth(month string, now time.Time) (int, error) {
	days, err := DaysInMonth(month)
	if err != nil {
		return 0, err
	}
	if MonthOfTime(now) != month {
		return days, nil
	}
	return now.Day(), nil
}
