package scoring

import (
	"fmt"
	"strings"

	"github.com/stitts-dev/fantasy-golf/internal/rules"
)

// Validation error codes
const (
	CodeNoParticipants     = "no_participants"
	CodeDuplicateGolfer    = "duplicate_golfer"
	CodeUnknownGolfer      = "unknown_golfer"
	CodeInvalidPosition    = "invalid_position"
	CodeMissingRawScore    = "missing_raw_score"
	CodeDuplicatePositions = "duplicate_positions"
	CodeMissingFirst       = "missing_first"
	CodeMissingSecond      = "missing_second"
	CodeMissingThird       = "missing_third"
)

// ValidationError reports why a tournament's result set was rejected.
// Message is user facing and kept stable.
type ValidationError struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	GolferIDs []string `json:"golfer_ids,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches validation errors by code so callers can use errors.Is against
// the sentinel values below.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

var (
	ErrNoParticipants     = &ValidationError{Code: CodeNoParticipants}
	ErrDuplicateGolfer    = &ValidationError{Code: CodeDuplicateGolfer}
	ErrUnknownGolfer      = &ValidationError{Code: CodeUnknownGolfer}
	ErrInvalidPosition    = &ValidationError{Code: CodeInvalidPosition}
	ErrMissingRawScore    = &ValidationError{Code: CodeMissingRawScore}
	ErrDuplicatePositions = &ValidationError{Code: CodeDuplicatePositions}
	ErrMissingFirst       = &ValidationError{Code: CodeMissingFirst}
	ErrMissingSecond      = &ValidationError{Code: CodeMissingSecond}
	ErrMissingThird       = &ValidationError{Code: CodeMissingThird}
)

// RequiredPodium lists the positions that must be assigned for a field of
// the given number of participants.
func RequiredPodium(participants int) []int {
	switch {
	case participants <= 0:
		return nil
	case participants <= 10:
		return []int{1}
	case participants <= 20:
		return []int{1, 2}
	default:
		return []int{1, 2, 3}
	}
}

// Validate checks a full tournament result set. field lists the golfers
// entered in the tournament; when empty, membership is not checked.
func Validate(results []Result, field []string) error {
	inField := make(map[string]bool, len(field))
	for _, id := range field {
		inField[id] = true
	}

	seen := make(map[string]bool, len(results))
	participants := make([]Result, 0, len(results))
	for _, r := range results {
		if seen[r.GolferID] {
			return &ValidationError{
				Code:      CodeDuplicateGolfer,
				Message:   fmt.Sprintf("Golfer %s appears more than once in the results", r.GolferID),
				GolferIDs: []string{r.GolferID},
			}
		}
		seen[r.GolferID] = true

		if len(inField) > 0 && !inField[r.GolferID] {
			return &ValidationError{
				Code:      CodeUnknownGolfer,
				Message:   fmt.Sprintf("Golfer %s is not in the tournament field", r.GolferID),
				GolferIDs: []string{r.GolferID},
			}
		}
		if r.Participated {
			participants = append(participants, r)
		}
	}

	if len(participants) == 0 {
		return &ValidationError{
			Code:    CodeNoParticipants,
			Message: "At least one golfer must have participated",
		}
	}

	for _, r := range participants {
		if r.Position != nil && !rules.IsPodium(*r.Position) {
			return &ValidationError{
				Code:      CodeInvalidPosition,
				Message:   fmt.Sprintf("Position must be between 1 and 3 (golfer %s has %d)", r.GolferID, *r.Position),
				GolferIDs: []string{r.GolferID},
			}
		}
	}

	var missing []string
	for _, r := range participants {
		if r.RawScore == nil {
			missing = append(missing, r.GolferID)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{
			Code:      CodeMissingRawScore,
			Message:   fmt.Sprintf("Every participating golfer needs a raw score (missing for %s)", strings.Join(missing, ", ")),
			GolferIDs: missing,
		}
	}

	holders := make(map[int][]string)
	for _, r := range participants {
		if r.Position != nil {
			holders[*r.Position] = append(holders[*r.Position], r.GolferID)
		}
	}

	var dupes []string
	var dupeIDs []string
	for _, pos := range []int{1, 2, 3} {
		if ids := holders[pos]; len(ids) > 1 {
			dupes = append(dupes, fmt.Sprintf("%s place assigned to %d golfers", ordinal(pos), len(ids)))
			dupeIDs = append(dupeIDs, ids...)
		}
	}
	if len(dupes) > 0 {
		return &ValidationError{
			Code:      CodeDuplicatePositions,
			Message:   "Duplicate positions: " + strings.Join(dupes, "; "),
			GolferIDs: dupeIDs,
		}
	}

	for _, pos := range RequiredPodium(len(participants)) {
		if len(holders[pos]) > 0 {
			continue
		}
		return missingPodium(pos, len(participants))
	}

	return nil
}

func missingPodium(pos, participants int) error {
	switch pos {
	case 1:
		return &ValidationError{
			Code:    CodeMissingFirst,
			Message: "A 1st place finisher must be selected",
		}
	case 2:
		return &ValidationError{
			Code:    CodeMissingSecond,
			Message: fmt.Sprintf("A 2nd place finisher must be selected when more than 10 golfers play (%d played)", participants),
		}
	default:
		return &ValidationError{
			Code:    CodeMissingThird,
			Message: fmt.Sprintf("A 3rd place finisher must be selected when more than 20 golfers play (%d played)", participants),
		}
	}
}

var ordinals = []string{"", "1st", "2nd", "3rd"}

func ordinal(pos int) string {
	if pos > 0 && pos < len(ordinals) {
		return ordinals[pos]
	}
	return fmt.Sprintf("%dth", pos)
}
