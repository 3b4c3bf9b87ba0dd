package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/kanal/internal/domain"
)

// Match is a ranked search hit; lower scores are better
type Match struct {
	Item  domain.CatalogItem
	Score int
}

// Search ranks items against query. Every query word has to match the name
// by prefix, substring, in-order characters or a small typo. limit <= 0
// returns all matches.
func Search(query string, items []domain.CatalogItem, limit int) []Match {
	words := tokenize(query)
	if len(words) == 0 {
		return nil
	}

	var matches []Match
	for _, it := range items {
		if score, ok := scoreName(it.DisplayName(), words); ok {
			matches = append(matches, Match{Item: it, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score < matches[j].Score
		}
		return len(matches[i].Item.DisplayName()) < len(matches[j].Item.DisplayName())
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func scoreName(name string, words []string) (int, bool) {
	title := strings.ToLower(name)
	if title == strings.Join(words, " ") {
		return 0, true
	}
	titleWords := tokenize(title)

	total := 0
	for _, w := range words {
		s := scoreWord(w, title, titleWords)
		if s < 0 {
			return 0, false
		}
		total += s
	}
	// prefer names without many extra words
	if extra := len(titleWords) - len(words); extra > 0 {
		total += extra * 5
	}
	return total, true
}

// scoreWord returns -1 when w does not match
func scoreWord(w, title string, titleWords []string) int {
	best := -1
	better := func(s int) {
		if best < 0 || s < best {
			best = s
		}
	}

	for _, tw := range titleWords {
		switch {
		case tw == w:
			better(1)
		case strings.HasPrefix(tw, w):
			better(10)
		}
	}
	if best >= 0 {
		return best
	}

	if idx := strings.Index(title, w); idx >= 0 {
		return 50 + idx
	}
	if d := fuzzy.RankMatchFold(w, title); d >= 0 {
		return 100 + d
	}

	maxTypos := allowedTypos(len([]rune(w)))
	if maxTypos == 0 {
		return -1
	}
	for _, tw := range titleWords {
		if d := fuzzy.LevenshteinDistance(w, tw); d <= maxTypos {
			better(200 + d*20)
		}
	}
	return best
}

// allowedTypos is 0 for up to 3 runes, 1 up to 6 and 2 beyond
func allowedTypos(n int) int {
	switch {
	case n <= 3:
		return 0
	case n <= 6:
		return 1
	default:
		return 2
	}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
