package domain

import "strconv"

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxRuleNameLength           = 200
	MaxPartySizeLimit           = 1000
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default discount rule values
const (
	DefaultMinNights    = 1
	DefaultMinPartySize = 1
)

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
