package search

import (
	"regexp"
)

// DefaultMarker wraps highlighted terms.
const DefaultMarker = "*"

// Matcher tests sentences against a compiled query and highlights its terms.
type Matcher struct {
	groups [][]*regexp.Regexp
	terms  []*regexp.Regexp
	marker string
}

// NewMatcher compiles one whole-word, case-insensitive pattern per term.
// An empty marker falls back to DefaultMarker.
func NewMatcher(q *Query, marker string) *Matcher {
	if marker == "" {
		marker = DefaultMarker
	}
	m := &Matcher{marker: marker}
	for _, g := range q.Groups() {
		res := make([]*regexp.Regexp, len(g))
		for i, term := range g {
			res[i] = termPattern(term)
			m.terms = append(m.terms, res[i])
		}
		m.groups = append(m.groups, res)
	}
	return m
}

func termPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

// Match reports whether any group has all of its terms in the sentence.
func (m *Matcher) Match(sentence string) bool {
	for _, group := range m.groups {
		all := true
		for _, re := range group {
			if !re.MatchString(sentence) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// Highlight wraps every occurrence of every term with the marker. Terms are
// applied one after another, so repeated or overlapping terms are wrapped again.
func (m *Matcher) Highlight(sentence string) string {
	for _, re := range m.terms {
		sentence = re.ReplaceAllStringFunc(sentence, func(s string) string {
			return m.marker + s + m.marker
		})
	}
	return sentence
}

// Find splits text into sentences and returns the highlighted ones that match.
// A segmentation error is returned with the hits of the sentences it did produce.
func (m *Matcher) Find(text string) ([]string, error) {
	sentences, err := Segment(text)
	var hits []string
	for _, sentence := range sentences {
		if m.Match(sentence) {
			hits = append(hits, m.Highlight(sentence))
		}
	}
	return hits, err
}
