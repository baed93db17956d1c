package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// BestMatch finds the candidate most similar to name. Candidates that
// contain the normalized name score 1, the rest are scored with
// Jaro-Winkler. It returns -1 if no candidate scores above zero.
func BestMatch(name string, candidates []string) (int, float64) {
	name = NormalizeName(name)
	if name == "" {
		return -1, 0
	}

	best := -1
	var bestScore float64
	for i, c := range candidates {
		c = NormalizeName(c)
		if c == "" {
			continue
		}

		score := matchr.JaroWinkler(name, c, false)
		if strings.Contains(c, name) {
			score = 1
		}
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best, bestScore
}
