// Package fuzzy implements the fuzzy matcher used for typo recovery
// when name resolution or exact/pattern search fails. It wraps a
// linear-space Levenshtein implementation for deterministic suggestion
// ranking, and a best-subsequence ranker for interactive fuzzy search.
package fuzzy

import (
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxDistance and DefaultMaxSuggestions apply when FindSimilar's
// caller passes non-positive values.
const (
	DefaultMaxDistance    = 3
	DefaultMaxSuggestions = 5
)

// Suggestion pairs a candidate string with its edit distance from the
// query.
type Suggestion struct {
	Candidate string
	Distance  int
}

// normalizeIdentifier decomposes s into canonical (NFD) form before
// distance/ranking comparisons, so an identifier using a precomposed
// Unicode accent and one using a combining-mark sequence measure as the
// same string rather than picking up spurious edit distance.
func normalizeIdentifier(s string) string {
	return norm.NFD.String(s)
}

// Distance computes the Levenshtein edit distance between a and b in
// O(min(|a|, |b|)) space using agnivade/levenshtein's rolling-two-row
// implementation, after NFD-normalizing both strings. Symmetric:
// Distance(a, b) == Distance(b, a).
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(normalizeIdentifier(a), normalizeIdentifier(b))
}

// FindSimilar returns candidates within maxDistance of query, sorted by
// distance ascending then alphabetically, excluding exact matches
// (distance 0), capped at maxSuggestions. maxDistance <= 0 defaults to
// DefaultMaxDistance; maxSuggestions <= 0 defaults to
// DefaultMaxSuggestions.
func FindSimilar(query string, candidates []string, maxDistance, maxSuggestions int) []Suggestion {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}

	normQuery := normalizeIdentifier(query)
	var out []Suggestion
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(normQuery, normalizeIdentifier(c))
		if d == 0 || d > maxDistance {
			continue
		}
		out = append(out, Suggestion{Candidate: c, Distance: d})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Candidate < out[j].Candidate
	})

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// RankedMatch is one candidate's best-subsequence fuzzy match against a
// query, used by search_symbols(..., fuzzy=true)'s interactive ranking.
type RankedMatch struct {
	Candidate string
	Score     int
	Index     int // index into the original candidates slice
}

// RankSubsequence scores candidates against query using sahilm/fuzzy's
// best-subsequence algorithm, sorted by descending score. Both query
// and candidates are NFD-normalized before scoring so combining-mark
// Unicode identifiers match the way a precomposed form of the same name
// would; m.Str/m.Index still index into the original, non-normalized
// candidates slice the caller passed in.
func RankSubsequence(query string, candidates []string) []RankedMatch {
	normCandidates := make([]string, len(candidates))
	for i, c := range candidates {
		normCandidates[i] = normalizeIdentifier(c)
	}
	matches := fuzzy.Find(normalizeIdentifier(query), normCandidates)
	out := make([]RankedMatch, len(matches))
	for i, m := range matches {
		out[i] = RankedMatch{Candidate: candidates[m.Index], Score: m.Score, Index: m.Index}
	}
	return out
}
