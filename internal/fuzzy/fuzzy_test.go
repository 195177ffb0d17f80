package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_Symmetric(t *testing.T) {
	assert.Equal(t, Distance("kitten", "sitting"), Distance("sitting", "kitten"))
	assert.Equal(t, 0, Distance("same", "same"))
}

func TestFindSimilar_ExcludesExactMatchAndSortsDeterministically(t *testing.T) {
	candidates := []string{"User", "Uses", "Userx", "Unrelated"}
	got := FindSimilar("User", candidates, DefaultMaxDistance, DefaultMaxSuggestions)

	for _, s := range got {
		assert.NotEqual(t, 0, s.Distance)
		assert.GreaterOrEqual(t, s.Distance, 1)
		assert.LessOrEqual(t, s.Distance, DefaultMaxDistance)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Distance == got[i].Distance {
			assert.LessOrEqual(t, got[i-1].Candidate, got[i].Candidate)
		} else {
			assert.Less(t, got[i-1].Distance, got[i].Distance)
		}
	}
}

func TestFindSimilar_CapsAtMaxSuggestions(t *testing.T) {
	candidates := []string{"Usrx", "Usrr", "Ussr", "Usre", "Usar", "Usir"}
	got := FindSimilar("User", candidates, 3, 2)
	assert.Len(t, got, 2)
}

func TestFindSimilar_FuzzyFallbackScenario(t *testing.T) {
	// Index contains "User"; query "Usr" is distance 1 (one deletion)
	// and must be the top suggestion.
	got := FindSimilar("Usr", []string{"User", "Unrelated"}, DefaultMaxDistance, DefaultMaxSuggestions)
	if assert.NotEmpty(t, got) {
		assert.Equal(t, "User", got[0].Candidate)
		assert.Equal(t, 1, got[0].Distance)
	}
}
