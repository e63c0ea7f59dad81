package rules

import (
	"fmt"
	"strings"
)

// ScoringFormat is the scoring convention a tournament is played under
type ScoringFormat string

const (
	FormatStableford ScoringFormat = "stableford" // higher is better
	FormatMedal      ScoringFormat = "medal"      // strokes relative to par, lower is better
)

// TournamentType identifies one of the fixed tournament variants
type TournamentType string

const (
	TypeRollupStableford TournamentType = "rollup_stableford"
	TypeRollupMedal      TournamentType = "rollup_medal"
	TypeWeekendMedal     TournamentType = "weekend_medal"
	TypePresidentsCup    TournamentType = "presidents_cup"
	TypeMajor            TournamentType = "major"
	TypeClubChampionship TournamentType = "club_championship"
)

// TypeConfig holds the per-variant settings of a tournament type
type TypeConfig struct {
	Label           string         `json:"label"`
	Multiplier      int            `json:"multiplier"`
	DefaultFormat   ScoringFormat  `json:"default_format"`
	ForcedFormat    *ScoringFormat `json:"forced_format,omitempty"`
	DefaultMultiDay bool           `json:"default_multi_day"`
}

func forced(f ScoringFormat) *ScoringFormat {
	return &f
}

// typeOrder is the display order of the table, lowest multiplier first.
var typeOrder = []TournamentType{
	TypeRollupStableford,
	TypeRollupMedal,
	TypeWeekendMedal,
	TypePresidentsCup,
	TypeMajor,
	TypeClubChampionship,
}

var typeTable = map[TournamentType]TypeConfig{
	TypeRollupStableford: {
		Label:         "Rollup Stableford",
		Multiplier:    1,
		DefaultFormat: FormatStableford,
		ForcedFormat:  forced(FormatStableford),
	},
	TypeRollupMedal: {
		Label:         "Rollup Medal",
		Multiplier:    1,
		DefaultFormat: FormatMedal,
		ForcedFormat:  forced(FormatMedal),
	},
	TypeWeekendMedal: {
		Label:         "Weekend Medal",
		Multiplier:    2,
		DefaultFormat: FormatMedal,
	},
	TypePresidentsCup: {
		Label:         "President's Cup",
		Multiplier:    3,
		DefaultFormat: FormatStableford,
	},
	TypeMajor: {
		Label:           "Major",
		Multiplier:      4,
		DefaultFormat:   FormatMedal,
		DefaultMultiDay: true,
	},
	TypeClubChampionship: {
		Label:           "Club Championship",
		Multiplier:      5,
		DefaultFormat:   FormatMedal,
		DefaultMultiDay: true,
	},
}

// Lookup returns the rule table entry for a tournament type. The returned
// value is a copy; callers cannot mutate the table through it.
func Lookup(t TournamentType) (TypeConfig, bool) {
	cfg, ok := typeTable[t]
	if !ok {
		return TypeConfig{}, false
	}
	if cfg.ForcedFormat != nil {
		cfg.ForcedFormat = forced(*cfg.ForcedFormat)
	}
	return cfg, true
}

// Types returns every tournament type in table order
func Types() []TournamentType {
	out := make([]TournamentType, len(typeOrder))
	copy(out, typeOrder)
	return out
}

// ParseTournamentType converts user input into a known tournament type
func ParseTournamentType(s string) (TournamentType, error) {
	t := TournamentType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := typeTable[t]; !ok {
		return "", fmt.Errorf("unknown tournament type %q", s)
	}
	return t, nil
}

// ParseScoringFormat converts user input into a scoring format
func ParseScoringFormat(s string) (ScoringFormat, error) {
	switch f := ScoringFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatStableford, FormatMedal:
		return f, nil
	default:
		return "", fmt.Errorf("unknown scoring format %q", s)
	}
}

// ResolveFormat works out the scoring format and multi-day flag a new or
// edited tournament should be stored with. A forced format always wins over
// the requested one; otherwise the request is honoured and the table default
// fills anything left unset.
func ResolveFormat(t TournamentType, requested *ScoringFormat, requestedMultiDay *bool) (ScoringFormat, bool, error) {
	cfg, ok := typeTable[t]
	if !ok {
		return "", false, fmt.Errorf("unknown tournament type %q", t)
	}

	format := cfg.DefaultFormat
	switch {
	case cfg.ForcedFormat != nil:
		format = *cfg.ForcedFormat
	case requested != nil:
		format = *requested
	}

	multiDay := cfg.DefaultMultiDay
	if requestedMultiDay != nil {
		multiDay = *requestedMultiDay
	}

	return format, multiDay, nil
}

// CheckConfig verifies a stored tournament record agrees with its type's
// table entry: the multiplier must match and a forced format cannot be
// overridden.
func CheckConfig(t TournamentType, format ScoringFormat, multiplier int) error {
	cfg, ok := typeTable[t]
	if !ok {
		return fmt.Errorf("unknown tournament type %q", t)
	}
	if multiplier != cfg.Multiplier {
		return fmt.Errorf("multiplier %d does not match %s (expected %d)", multiplier, cfg.Label, cfg.Multiplier)
	}
	if cfg.ForcedFormat != nil && format != *cfg.ForcedFormat {
		return fmt.Errorf("%s must be played as %s", cfg.Label, *cfg.ForcedFormat)
	}
	if format != FormatStableford && format != FormatMedal {
		return fmt.Errorf("unknown scoring format %q", format)
	}
	return nil
}
