package filter

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/KaramelBytes/reelstats-cli/internal/errors"
	"github.com/KaramelBytes/reelstats-cli/internal/validation"
)

// Preset is a named, explicit outlier policy. Zero MinRuntime or zero year
// bounds disable the matching check.
type Preset struct {
	Name                   string  `mapstructure:"name" yaml:"name" validate:"required"`
	RequirePositiveBudget  bool    `mapstructure:"require_positive_budget" yaml:"require_positive_budget"`
	RequirePositiveRevenue bool    `mapstructure:"require_positive_revenue" yaml:"require_positive_revenue"`
	MinRuntime             float64 `mapstructure:"min_runtime" yaml:"min_runtime" validate:"gte=0"`
	RequireYear            bool    `mapstructure:"require_year" yaml:"require_year"`
	MinYear                int     `mapstructure:"min_year" yaml:"min_year" validate:"gte=0"`
	MaxYear                int     `mapstructure:"max_year" yaml:"max_year" validate:"omitempty,gtefield=MinYear"`
}

// Builtin presets. The two policies disagree on runtime and year bounds;
// neither is treated as authoritative.
var (
	Classic = Preset{
		Name:                   "classic",
		RequirePositiveBudget:  true,
		RequirePositiveRevenue: true,
		MinRuntime:             30,
		RequireYear:            true,
		MinYear:                1950,
		MaxYear:                2023,
	}
	Extended = Preset{
		Name:                   "extended",
		RequirePositiveBudget:  true,
		RequirePositiveRevenue: true,
		MinRuntime:             45,
		RequireYear:            true,
		MinYear:                1950,
		MaxYear:                2025,
	}
	// None disables filtering.
	None = Preset{Name: "none"}
)

// DefaultPreset is used when no preset is configured.
const DefaultPreset = "classic"

var builtins = map[string]Preset{
	Classic.Name:  Classic,
	Extended.Name: Extended,
	None.Name:     None,
}

// Presets returns the builtin presets sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(builtins))
	for _, p := range builtins {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup resolves a builtin preset by name, case-insensitively.
func Lookup(name string) (Preset, error) {
	if name == "" {
		name = DefaultPreset
	}
	p, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		names := make([]string, 0, len(builtins))
		for _, b := range Presets() {
			names = append(names, b.Name)
		}
		return Preset{}, apperrors.Config(fmt.Sprintf("unknown preset %q (available: %s)", name, strings.Join(names, ", "))).
			With("preset", name)
	}
	return p, nil
}

// Validate checks field constraints.
func (p Preset) Validate() error {
	return validation.New().Validate(p)
}

// HasYearRange reports whether both year bounds are set.
func (p Preset) HasYearRange() bool { return p.MinYear > 0 && p.MaxYear > 0 }

// Predicates builds the predicate list for p; disabled checks are omitted.
func (p Preset) Predicates() []Predicate {
	var preds []Predicate
	if p.RequirePositiveBudget {
		preds = append(preds, BudgetPositive())
	}
	if p.RequirePositiveRevenue {
		preds = append(preds, RevenuePositive())
	}
	if p.MinRuntime > 0 {
		preds = append(preds, MinRuntime(p.MinRuntime))
	}
	if p.RequireYear {
		preds = append(preds, HasYear())
	}
	if p.HasYearRange() {
		preds = append(preds, YearBetween(p.MinYear, p.MaxYear))
	}
	return preds
}

// YearPredicates returns only the year checks of p, for views that count
// releases without financial filtering.
func (p Preset) YearPredicates() []Predicate {
	preds := []Predicate{HasYear()}
	if p.HasYearRange() {
		preds = append(preds, YearBetween(p.MinYear, p.MaxYear))
	}
	return preds
}

// String renders p for logs and reports.
func (p Preset) String() string {
	var parts []string
	for _, pr := range p.Predicates() {
		parts = append(parts, pr.Name)
	}
	if len(parts) == 0 {
		return p.Name + " (no filtering)"
	}
	return p.Name + " (" + strings.Join(parts, ", ") + ")"
}
