package rules

// Podium positions carrying base points
var positionPoints = map[int]int{
	1: 10,
	2: 7,
	3: 5,
}

// PositionPoints returns the base points for a finishing position. Only the
// podium scores; nil and every other position yield 0.
func PositionPoints(position *int) int {
	if position == nil {
		return 0
	}
	return positionPoints[*position]
}

// IsPodium reports whether pos is a tracked finishing position
func IsPodium(pos int) bool {
	_, ok := positionPoints[pos]
	return ok
}

const (
	FullBonus    = 3
	PartialBonus = 1
)

// Thresholds describes the raw-score cut-offs for the bonus in one
// (format, multi-day) cell. For stableford a score must reach the value; for
// medal it must not exceed it.
type Thresholds struct {
	Format  ScoringFormat `json:"format"`
	Full    float64       `json:"full"`
	Partial float64       `json:"partial"`
}

// BonusThresholds returns the bonus cut-offs for a format. Multi-day
// stableford doubles both thresholds; multi-day medal doubles only the
// partial band because the full band is already anchored at par.
func BonusThresholds(format ScoringFormat, multiDay bool) Thresholds {
	if format == FormatMedal {
		t := Thresholds{Format: FormatMedal, Full: 0, Partial: 4}
		if multiDay {
			t.Partial = 8
		}
		return t
	}

	t := Thresholds{Format: FormatStableford, Full: 36, Partial: 32}
	if multiDay {
		t.Full, t.Partial = 72, 64
	}
	return t
}

// Award returns the bonus a raw score earns against these thresholds
func (t Thresholds) Award(raw float64) int {
	if t.Format == FormatMedal {
		switch {
		case raw <= t.Full:
			return FullBonus
		case raw <= t.Partial:
			return PartialBonus
		default:
			return 0
		}
	}

	switch {
	case raw >= t.Full:
		return FullBonus
	case raw >= t.Partial:
		return PartialBonus
	default:
		return 0
	}
}
