package movie

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rating group labels.
const (
	GroupAllAges = "All Ages"
	Group13Plus  = "13+"
	Group17Plus  = "17+"
	Group18Plus  = "18+"
	GroupUnrated = "Unrated"
)

// RatingGroups maps content-rating labels to coarse age buckets. Keys are
// upper case; lookups fold case first. Add new labels here, not in callers.
//
//nolint:gochecknoglobals // Static lookup table
var RatingGroups = map[string]string{
	// MPAA
	"G":        GroupAllAges,
	"PG":       GroupAllAges,
	"GP":       GroupAllAges,
	"APPROVED": GroupAllAges,
	"PG-13":    Group13Plus,
	"R":        Group18Plus,
	"NC-17":    Group18Plus,
	"X":        Group18Plus,
	"M":        Group18Plus,
	// US TV
	"TV-Y":  GroupAllAges,
	"TV-Y7": GroupAllAges,
	"TV-G":  GroupAllAges,
	"TV-PG": GroupAllAges,
	"TV-14": Group13Plus,
	"TV-MA": Group17Plus,
	// explicit non-ratings
	"NOT RATED": GroupUnrated,
	"UNRATED":   GroupUnrated,
	"NR":        GroupUnrated,
}

// RatingGroup maps a raw rating label to its group. Unknown or empty labels
// map to Unknown.
func RatingGroup(label string) string {
	key := cases.Upper(language.Und).String(strings.Join(strings.Fields(label), " "))
	if g, ok := RatingGroups[key]; ok {
		return g
	}
	return Unknown
}
