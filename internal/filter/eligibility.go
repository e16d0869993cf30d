package filter

import (
	"strings"

	"github.com/vocabuilder/api/internal/model"
)

// Eligible returns the entries that carry non-empty text (after trimming) for
// both from and to. Input order is preserved.
func Eligible(vocabs []model.Vocabulary, from, to string) []model.Vocabulary {
	eligible := make([]model.Vocabulary, 0, len(vocabs))
	for _, v := range vocabs {
		if HasPair(v.Translations, from, to) {
			eligible = append(eligible, v)
		}
	}
	return eligible
}

// HasPair reports whether translations has usable text for both languages.
func HasPair(translations model.Translations, from, to string) bool {
	if translations == nil {
		return false
	}
	_, okFrom := translations.Text(from)
	_, okTo := translations.Text(to)
	return okFrom && okTo
}

// NormalizeAnswer folds case and strips surrounding whitespace.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AnswersMatch is exact equality after normalization. There is no partial
// credit and no fuzzy matching. An empty correct answer never matches.
func AnswersMatch(submitted, correct string) bool {
	want := NormalizeAnswer(correct)
	return want != "" && NormalizeAnswer(submitted) == want
}

// CleanTranslations trims every value and drops the empty ones.
func CleanTranslations(in map[string]string) model.Translations {
	out := make(model.Translations, len(in))
	for code, text := range in {
		if text = strings.TrimSpace(text); text != "" {
			out[code] = text
		}
	}
	return out
}
