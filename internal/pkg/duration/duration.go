// Package duration converts between the "H:MM" text form used on duration
// fields and an integer second count. All arithmetic in the ledger engine
// runs on seconds; the text form exists only for storage and display.
package duration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when a duration string is not valid "H:MM".
var ErrInvalidFormat = errors.New("invalid duration, it should be in HH:MM format")

// Parse converts an "H:MM" string to seconds. The hour part may be 1-3
// digits, the minute part must be 0-59 and the whole string at most 6
// characters long.
func Parse(text string) (int, error) {
	if len(text) > 6 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}

	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}

	if len(parts[0]) > 3 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}

	return hour*3600 + minute*60, nil
}

// Format renders seconds as zero-padded "HH:MM". Seconds within a minute are
// truncated. Unlike Parse, Format never rejects wide hour counts: the
// 3-digit limit is an input validation rule, not a limit on computed values.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// Valid reports whether text is a well-formed "H:MM" duration.
func Valid(text string) bool {
	_, err := Parse(text)
	return err == nil
}
