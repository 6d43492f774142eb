package model

import "time"

// Layouts for stored dates and months.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// ValidateDate checks a YYYY-MM-DD calendar date.
func ValidateDate(date string) error {
	if len(date) != len(DateLayout) {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return &ValidationError{Field: "date", Reason: "is not a calendar date: " + date}
	}
	return nil
}

// ValidateMonth checks a YYYY-MM month.
func ValidateMonth(month string) error {
	if len(month) != len(MonthLayout) {
		return &ValidationError{Field: "month", Reason: "must be YYYY-MM"}
	}
	if _, err := time.Parse(MonthLayout, month); err != nil {
		return &ValidationError{Field: "month", Reason: "is not a calendar month: " + month}
	}
	return nil
}

// FormatDate renders t as a stored date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
