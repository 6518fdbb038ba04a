// Package matcher retrieves ranked ontology candidates for a mention by
// lexical similarity. Scores use a token-order-insensitive ratio on a 0–100
// scale; results are memoized per ontology in a Cache.
package matcher

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/unicode/norm"

	"github.com/corey/reel/internal/ports"
)

// Process normalizes a string for comparison: NFKC, lowercase, every rune
// that is not a letter, digit or underscore becomes a space, and the result
// is trimmed.
func Process(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.TrimSpace(s)
}

// sortTokens processes s and rejoins its whitespace tokens in sorted order.
func sortTokens(s string) string {
	tokens := strings.Fields(Process(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// ratio is the normalized indel similarity of two strings:
// 100 * 2*LCS / (len(a)+len(b)), lengths in runes.
func ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	if a == b {
		return 100
	}
	return 100 * float64(2*edlib.LCS(a, b)) / float64(la+lb)
}

// TokenSortRatio scores two strings ignoring case, punctuation and token order.
// Empty inputs score 0.
func TokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b))
}

// choice is a search-space label with its token-sorted form precomputed.
type choice struct {
	label  string
	sorted string
}

func newChoices(labels []string) []choice {
	out := make([]choice, len(labels))
	for i, l := range labels {
		out[i] = choice{label: l, sorted: sortTokens(l)}
	}
	return out
}

// extract returns the limit best-scoring choices for query, best first. Ties
// keep search-space order.
func extract(query string, choices []choice, limit int) []ports.RawMatch {
	if len(choices) == 0 || limit <= 0 {
		return nil
	}
	q := sortTokens(query)
	top := make([]ports.RawMatch, 0, limit+1)
	for _, c := range choices {
		score := ratio(q, c.sorted)
		if len(top) == limit && score <= top[len(top)-1].Score {
			continue
		}
		// Insert after every entry with an equal or better score.
		i := sort.Search(len(top), func(i int) bool { return top[i].Score < score })
		top = append(top, ports.RawMatch{})
		copy(top[i+1:], top[i:])
		top[i] = ports.RawMatch{Label: c.label, Score: score}
		if len(top) > limit {
			top = top[:limit]
		}
	}
	return top
}
