package assistant

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

// DefaultLocale is the locale of the `DefaultSuggestions`.
const DefaultLocale = "en"

// DefaultSuggestions are the questions offered when no suggestion source is
// configured.
var DefaultSuggestions = []string{
	"What services do you offer?",
	"How much does it cost?",
	"How do I get started?",
	"Do you offer support?",
	"Do you work internationally?",
}

// ErrNoSuggestions means a suggestion document has no usable locale.
var ErrNoSuggestions = errors.New("no suggestions")

// Suggestions are localized suggested questions.
type Suggestions struct {
	matcher   language.Matcher
	locales   []string
	questions [][]string
}

// NewDefaultSuggestions returns a new instance of the `Suggestions` holding
// only the `DefaultSuggestions`.
func NewDefaultSuggestions() *Suggestions {
	return &Suggestions{
		matcher:   language.NewMatcher([]language.Tag{language.English}),
		locales:   []string{DefaultLocale},
		questions: [][]string{DefaultSuggestions},
	}
}

// ParseSuggestions parses a TOML document of suggested questions keyed by
// locale, e.g.
//
//	[en]
//	questions = ["How do I get started?"]
//
// Locales that fail to parse or have no questions are skipped. The
// `DefaultLocale` is preferred when matching fails, otherwise the first locale
// in order.
func ParseSuggestions(b []byte) (*Suggestions, error) {
	doc := map[string]struct {
		Questions []string `toml:"questions"`
	}{}
	if err := toml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}

	type entry struct {
		tag       language.Tag
		questions []string
	}

	entries := make([]entry, 0, len(doc))
	for locale, set := range doc {
		tag, err := language.Parse(locale)
		if err != nil || len(set.Questions) == 0 {
			continue
		}

		entries = append(entries, entry{tag, set.Questions})
	}

	if len(entries) == 0 {
		return nil, ErrNoSuggestions
	}

	sort.Slice(entries, func(i, j int) bool {
		if ib := entries[i].tag.String() == DefaultLocale; ib !=
			(entries[j].tag.String() == DefaultLocale) {
			return ib
		}

		return entries[i].tag.String() < entries[j].tag.String()
	})

	s := &Suggestions{}
	tags := make([]language.Tag, 0, len(entries))
	for _, e := range entries {
		tags = append(tags, e.tag)
		s.locales = append(s.locales, e.tag.String())
		s.questions = append(s.questions, e.questions)
	}

	s.matcher = language.NewMatcher(tags)

	return s, nil
}

// For returns the suggested questions best matching the locale, which is an
// Accept-Language header value.
func (s *Suggestions) For(locale string) []string {
	_, i := language.MatchStrings(s.matcher, locale)
	return s.questions[i]
}

// Locales returns the locales of the s in matching preference order.
func (s *Suggestions) Locales() []string {
	return s.locales
}
