package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"January 2006",
	"2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parenthetical matches a trailing "(United States)" style qualifier.
var parenthetical = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// parseDate parses a release date in any of the known layouts. The movies.csv
// form "June 13, 1980 (United States)" is accepted with its qualifier
// stripped.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(parenthetical.ReplaceAllString(strings.TrimSpace(s), ""))
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumeric accepts plain and scientific notation plus the decorations
// spreadsheets add: currency symbols, thousands separators and spaces.
func parseNumeric(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "\u00A0", "")
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.ReplaceAll(raw, "_", "")
	raw = strings.ReplaceAll(raw, " ", "")
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseYear accepts "1980" and "1980.0".
func parseYear(s string) (int, bool) {
	f, ok := parseNumeric(s)
	if !ok || f < 1000 || f > 9999 || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
