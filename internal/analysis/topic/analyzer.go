package topic

import (
	"strings"
	"unicode"

	"github.com/advocaid/assistant/backend/internal/model/category"
)

// Decision is the category suggested for a piece of user text.
type Decision struct {
	CategoryID string   `json:"categoryId"`
	Title      string   `json:"title"`
	Score      int      `json:"score"`
	Matched    []string `json:"matched,omitempty"`
}

// Empty reports whether no category matched.
func (d Decision) Empty() bool {
	return d.CategoryID == ""
}

const (
	wordWeight   = 3
	phraseWeight = 4
	titleWeight  = 5
)

// Analyze scores every category by keyword hits in text. Ties keep catalog order.
func Analyze(text string, categories []category.Category) Decision {
	words := tokenize(text)
	if len(words) == 0 {
		return Decision{}
	}
	joined := " " + strings.Join(words, " ") + " "
	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[w] = struct{}{}
	}

	var best Decision
	for _, c := range categories {
		score := 0
		var matched []string

		if title := normalize(c.Title); title != "" && strings.Contains(joined, " "+title+" ") {
			score += titleWeight
			matched = append(matched, c.Title)
		}

		for _, kw := range c.Keywords {
			norm := normalize(kw)
			if norm == "" {
				continue
			}
			if strings.Contains(norm, " ") {
				if strings.Contains(joined, " "+norm+" ") {
					score += phraseWeight
					matched = append(matched, kw)
				}
				continue
			}
			if _, ok := wordSet[norm]; ok {
				score += wordWeight
				matched = append(matched, kw)
			}
		}

		if score > best.Score {
			best = Decision{CategoryID: c.ID, Title: c.Title, Score: score, Matched: matched}
		}
	}
	return best
}

// Rank returns up to limit category IDs ordered by score, best first.
func Rank(text string, categories []category.Category, limit int) []Decision {
	var ranked []Decision
	remaining := append([]category.Category(nil), categories...)
	for len(ranked) < limit {
		d := Analyze(text, remaining)
		if d.Empty() {
			break
		}
		ranked = append(ranked, d)
		for i, c := range remaining {
			if c.ID == d.CategoryID {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
	return ranked
}

func normalize(s string) string {
	return strings.Join(tokenize(s), " ")
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
