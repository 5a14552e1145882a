package textutil

import (
	"regexp"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return name
}

type Match struct {
	Index      int
	Candidate  string
	Similarity float64
}

// RankBySimilarity orders candidates by their Jaro-Winkler similarity
// to the query, most similar first. Exact substring containment is
// treated as a perfect match so short queries still surface long
// titles.
func RankBySimilarity(query string, candidates []string) []Match {
	query = NormalizeName(query)

	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		normalized := NormalizeName(c)

		similarity := matchr.JaroWinkler(query, normalized, false)
		if query != "" && strings.Contains(normalized, query) {
			similarity = 1
		}
		matches[i] = Match{
			Index:      i,
			Candidate:  c,
			Similarity: similarity,
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Similarity > matches[b].Similarity
	})
	return matches
}
