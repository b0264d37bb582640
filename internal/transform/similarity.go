package transform

import "strings"

// NameSimilarity scores two names in [0,1]: 1.0 for an exact match after
// normalization, 0.9 for substring containment, otherwise token Jaccard with
// a +0.3 bonus (capped at 1.0) when the final token matches exactly.
func NameSimilarity(name1, name2 string) float64 {
	n1 := NormalizeName(name1)
	n2 := NormalizeName(name2)

	if n1 == "" || n2 == "" {
		return 0.0
	}
	if n1 == n2 {
		return 1.0
	}
	if strings.Contains(n1, n2) || strings.Contains(n2, n1) {
		return 0.9
	}

	tokens1 := strings.Fields(n1)
	tokens2 := strings.Fields(n2)
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0.0
	}

	set1 := make(map[string]struct{}, len(tokens1))
	for _, t := range tokens1 {
		set1[t] = struct{}{}
	}
	set2 := make(map[string]struct{}, len(tokens2))
	for _, t := range tokens2 {
		set2[t] = struct{}{}
	}

	intersection := 0
	for t := range set1 {
		if _, ok := set2[t]; ok {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection

	score := float64(intersection) / float64(union)
	if tokens1[len(tokens1)-1] == tokens2[len(tokens2)-1] {
		score = min(1.0, score+0.3)
	}

	return score
}
