package types

import "time"

// DateFormat формат даты YYYY-MM-DD
const DateFormat = "2006-01-02"

// DateOnly обнуляет время, оставляя дату в UTC
// Все даты бронирований и правил хранятся как календарные дни без часового пояса
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate парсит дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// DaysBetween возвращает количество полных суток от from до to (to - from)
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}
