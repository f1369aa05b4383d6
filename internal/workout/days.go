package workout

import "time"

const DaysInWeek = 7

const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var (
	dayLabels = [DaysInWeek]string{"L", "M", "M", "J", "V", "S", "D"}
	dayNames  = [DaysInWeek]string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"}
)

// NormalizeDayIndex maps a calendar date to the week index used everywhere
// in this package: Monday is 0 and Sunday is 6.
func NormalizeDayIndex(t time.Time) int {
	weekday := t.Weekday()
	if weekday == time.Sunday {
		return Sunday
	}
	return int(weekday) - 1
}

func ValidDay(day int) bool {
	return day >= 0 && day < DaysInWeek
}

// DayLabel returns the one-letter label used in the weekly chart.
func DayLabel(day int) string {
	if !ValidDay(day) {
		return ""
	}
	return dayLabels[day]
}

func DayName(day int) string {
	if !ValidDay(day) {
		return ""
	}
	return dayNames[day]
}
