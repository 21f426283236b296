package registry

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/vk/decisim/internal/schema"
)

// similarityFloor drops fuzzy matches below this levenshtein similarity.
const similarityFloor = 0.6

// Match is one search hit, scored in (0, 1].
type Match struct {
	Meta  schema.Metadata
	Tags  []string
	Score float64
}

// Search ranks catalog entries against a free-text query over id, name,
// category and tags. Exact id matches rank above prefix matches, prefix
// above substring, and entries with no literal hit fall back to levenshtein
// similarity so near-misses ("hirnig") still find their target.
func (r *Registry) Search(query string) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Match
	for _, e := range r.entries {
		if score := scoreEntry(q, e); score > 0 {
			matches = append(matches, Match{Meta: e.Meta, Tags: e.Tags, Score: score})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Meta.ID < matches[j].Meta.ID
	})
	return matches
}

func scoreEntry(q string, e *Entry) float64 {
	fields := append([]string{e.Meta.ID, e.Meta.Name, e.Meta.Category}, e.Tags...)

	best := 0.0
	for _, f := range fields {
		f = strings.ToLower(f)
		switch {
		case f == q:
			return 1.0
		case strings.HasPrefix(f, q):
			best = maxScore(best, 0.9)
		case strings.Contains(f, q):
			best = maxScore(best, 0.75)
		default:
			if sim := levenshtein.Similarity(f, q, nil); sim >= similarityFloor {
				// Cap fuzzy hits below any literal hit.
				best = maxScore(best, sim*0.7)
			}
		}
	}
	return best
}

func maxScore(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
