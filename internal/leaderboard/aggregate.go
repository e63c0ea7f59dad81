package leaderboard

import (
	"cmp"
	"slices"
)

// Aggregate totals each team's multiplied points over the counted
// tournaments. A captain's points are doubled per tournament, on top of the
// tournament multiplier already baked into the score rows. Every team gets a
// standing, including teams with no points.
func Aggregate(tournaments []Tournament, scores []ScoreRow, teams []Team) []Standing {
	counted := make(map[string]bool, len(tournaments))
	for _, t := range tournaments {
		if t.Status.Counts() {
			counted[t.ID] = true
		}
	}

	golferPoints := make(map[string]int)
	for _, s := range scores {
		if counted[s.TournamentID] {
			golferPoints[s.GolferID] += s.MultipliedPoints
		}
	}

	standings := make([]Standing, 0, len(teams))
	for _, team := range teams {
		total := 0
		seen := make(map[string]bool, len(team.GolferIDs))
		for _, id := range team.GolferIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			total += golferPoints[id]
			if team.CaptainID != nil && *team.CaptainID == id {
				total += golferPoints[id]
			}
		}
		standings = append(standings, Standing{
			UserID:   team.UserID,
			Username: team.Username,
			Points:   total,
		})
	}
	return standings
}

// Rank orders standings by points, highest first. Equal totals fall back to
// username then user id so the order is stable across requests. Ranks are
// sequential: tied users get consecutive ranks.
func Rank(standings []Standing) []Entry {
	sorted := slices.Clone(standings)
	slices.SortFunc(sorted, func(a, b Standing) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Username, b.Username); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})

	entries := make([]Entry, len(sorted))
	for i, s := range sorted {
		entries[i] = Entry{
			UserID:   s.UserID,
			Username: s.Username,
			Points:   s.Points,
			Rank:     i + 1,
			Movement: MovementNew,
		}
	}
	return entries
}

// ApplyMovement fills previous rank and movement from an earlier ranking.
// Users missing from previous are new.
func ApplyMovement(entries []Entry, previous map[string]int) {
	for i := range entries {
		e := &entries[i]
		prev, ok := previous[e.UserID]
		if !ok {
			e.PreviousRank = nil
			e.Movement = MovementNew
			e.Change = 0
			continue
		}

		p := prev
		e.PreviousRank = &p
		e.Change = prev - e.Rank
		switch {
		case e.Change > 0:
			e.Movement = MovementUp
		case e.Change < 0:
			e.Movement = MovementDown
		default:
			e.Movement = MovementSame
		}
	}
}

// RankMap indexes entries by user id
func RankMap(entries []Entry) map[string]int {
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		out[e.UserID] = e.Rank
	}
	return out
}
