package transform

import (
	"maps"

	"github.com/prasetyowira/fightcast/internal/domain/source"
)

const DefaultSimilarityThreshold = 0.85

// DuplicatePair records two fighter indexes judged to be the same person.
type DuplicatePair struct {
	Primary    int
	Secondary  int
	Similarity float64
}

// Deduplicator collapses near-identical fighter records by name similarity.
// Merging is greedy and order-dependent: once index j is merged into i, j is
// removed from further pairing, so the first-seen record wins. This mirrors
// how duplicate imports actually arrive (richest source first) and keeps the
// merge auditable.
type Deduplicator struct {
	threshold float64
}

func NewDeduplicator(threshold float64) *Deduplicator {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Deduplicator{threshold: threshold}
}

func (d *Deduplicator) FindDuplicateFighters(fighters []source.RawFighter) []DuplicatePair {
	var pairs []DuplicatePair

	for i := range fighters {
		for j := i + 1; j < len(fighters); j++ {
			score := NameSimilarity(fighters[i].FullName(), fighters[j].FullName())
			if score >= d.threshold {
				pairs = append(pairs, DuplicatePair{Primary: i, Secondary: j, Similarity: score})
			}
		}
	}

	return pairs
}

// MergeFighters resolves conflicts by preferring the primary's non-empty
// scalar fields, taking the maximum for cumulative counters, and
// union-merging raw payloads with primary values winning on collision.
func (d *Deduplicator) MergeFighters(primary, secondary source.RawFighter) source.RawFighter {
	merged := primary

	merged.FirstName = firstNonEmpty(primary.FirstName, secondary.FirstName)
	merged.LastName = firstNonEmpty(primary.LastName, secondary.LastName)
	merged.Nickname = firstNonEmpty(primary.Nickname, secondary.Nickname)
	merged.Nationality = firstNonEmpty(primary.Nationality, secondary.Nationality)
	merged.Hometown = firstNonEmpty(primary.Hometown, secondary.Hometown)
	merged.WeightClass = firstNonEmpty(primary.WeightClass, secondary.WeightClass)
	merged.Stance = firstNonEmpty(primary.Stance, secondary.Stance)
	merged.UFCID = firstNonEmpty(primary.UFCID, secondary.UFCID)
	merged.ESPNID = firstNonEmpty(primary.ESPNID, secondary.ESPNID)
	merged.SourceURL = firstNonEmpty(primary.SourceURL, secondary.SourceURL)

	if merged.DateOfBirth == nil {
		merged.DateOfBirth = secondary.DateOfBirth
	}
	if merged.HeightCM == nil {
		merged.HeightCM = secondary.HeightCM
	}
	if merged.WeightKG == nil {
		merged.WeightKG = secondary.WeightKG
	}
	if merged.ReachCM == nil {
		merged.ReachCM = secondary.ReachCM
	}
	if merged.LegReachCM == nil {
		merged.LegReachCM = secondary.LegReachCM
	}

	merged.Wins = max(primary.Wins, secondary.Wins)
	merged.Losses = max(primary.Losses, secondary.Losses)
	merged.Draws = max(primary.Draws, secondary.Draws)
	merged.NoContests = max(primary.NoContests, secondary.NoContests)
	merged.KOWins = max(primary.KOWins, secondary.KOWins)
	merged.SubmissionWins = max(primary.SubmissionWins, secondary.SubmissionWins)
	merged.DecisionWins = max(primary.DecisionWins, secondary.DecisionWins)

	if len(secondary.RawData) > 0 {
		combined := make(map[string]any, len(primary.RawData)+len(secondary.RawData))
		maps.Copy(combined, secondary.RawData)
		maps.Copy(combined, primary.RawData)
		merged.RawData = combined
	}

	return merged
}

// DeduplicateFighters returns the list with duplicates merged away. Running
// it on already-deduplicated input is a no-op.
func (d *Deduplicator) DeduplicateFighters(fighters []source.RawFighter) []source.RawFighter {
	if len(fighters) == 0 {
		return nil
	}

	pairs := d.FindDuplicateFighters(fighters)

	removed := make(map[int]struct{})
	mergedByIndex := make(map[int]source.RawFighter)

	for _, pair := range pairs {
		if _, gone := removed[pair.Primary]; gone {
			continue
		}
		if _, gone := removed[pair.Secondary]; gone {
			continue
		}

		primary, ok := mergedByIndex[pair.Primary]
		if !ok {
			primary = fighters[pair.Primary]
		}
		mergedByIndex[pair.Primary] = d.MergeFighters(primary, fighters[pair.Secondary])
		removed[pair.Secondary] = struct{}{}
	}

	result := make([]source.RawFighter, 0, len(fighters)-len(removed))
	for i, fighter := range fighters {
		if _, gone := removed[i]; gone {
			continue
		}
		if merged, ok := mergedByIndex[i]; ok {
			result = append(result, merged)
			continue
		}
		result = append(result, fighter)
	}

	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
