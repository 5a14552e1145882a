package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "hello world", NormalizeName("  Hello \t World\n"))
}

func TestRankBySimilarity(t *testing.T) {
	candidates := []string{
		"Final exam logistics",
		"Homework 3 clarification",
		"Office hours this week",
	}

	ranked := RankBySimilarity("final exam", candidates)
	require.Len(t, ranked, 3)
	require.Equal(t, "Final exam logistics", ranked[0].Candidate)
	require.Equal(t, float64(1), ranked[0].Similarity)
	require.Equal(t, 0, ranked[0].Index)

	ranked = RankBySimilarity("homwork", candidates)
	require.Equal(t, "Homework 3 clarification", ranked[0].Candidate)
}
