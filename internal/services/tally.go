package services

import (
	"sort"

	"rankr-backend/internal/models"
)

// Tally converts the submitted rankings into ordered results using a
// Borda-style count: a nomination at rank position k (0-indexed) earns
// votesPerVoter-k points from that voter. Rankings longer than votesPerVoter
// are truncated; entries referencing removed nominations keep their position
// but score nothing.
func Tally(rankings models.Rankings, nominations models.Nominations, votesPerVoter int) models.Results {
	scores := make(map[string]int, len(nominations))
	for nominationID := range nominations {
		scores[nominationID] = 0
	}

	for _, ranked := range rankings {
		if len(ranked) > votesPerVoter {
			ranked = ranked[:votesPerVoter]
		}
		for pos, nominationID := range ranked {
			if _, ok := nominations[nominationID]; !ok {
				continue
			}
			scores[nominationID] += votesPerVoter - pos
		}
	}

	results := make(models.Results, 0, len(scores))
	for nominationID, score := range scores {
		results = append(results, models.Result{
			NominationID:   nominationID,
			NominationText: nominations[nominationID].Name,
			Score:          score,
		})
	}

	// Highest score first; equal scores ordered by nomination ID so ties are
	// deterministic.
	sort.Slice(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].NominationID < results[b].NominationID
	})

	return results
}
