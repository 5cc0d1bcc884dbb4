package textdiff

import (
	"sort"
	"strings"
)

// Similarity returns 1 - distance/maxLen clamped into [0,1]. It is
// symmetric and Similarity(a, a) == 1. Two empty strings are identical.
func Similarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))

	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}

	score := 1 - float64(Distance(a, b))/float64(longest)
	if score < 0 {
		return 0
	}
	return score
}

// similarCutoff is the minimum similarity for a candidate to count as a
// plausible near-miss in the first ranking pass.
const similarCutoff = 0.3

// PickSimilar ranks candidates by similarity to correct (both compared
// lowercased and trimmed) and returns up to count distinct values, most
// similar first. Candidates equal to the correct answer are excluded.
// When fewer than count candidates pass the similarity cutoff, the
// remainder is back-filled from the rest of the pool by rank, so the
// result is short only when the pool itself is.
func PickSimilar(correct string, candidates []string, count int) []string {
	type ranked struct {
		value string
		score float64
	}

	key := strings.ToLower(strings.TrimSpace(correct))
	seen := map[string]bool{key: true}

	pool := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		ck := strings.ToLower(strings.TrimSpace(c))
		if seen[ck] {
			continue
		}
		seen[ck] = true
		pool = append(pool, ranked{value: c, score: Similarity(key, ck)})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].score > pool[j].score
	})

	picked := make([]string, 0, count)
	backfill := make([]string, 0, len(pool))
	for _, r := range pool {
		if r.score >= similarCutoff && len(picked) < count {
			picked = append(picked, r.value)
		} else {
			backfill = append(backfill, r.value)
		}
	}

	for _, v := range backfill {
		if len(picked) >= count {
			break
		}
		picked = append(picked, v)
	}

	return picked
}
