package search

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// boundary matches the single whitespace character that ends a sentence:
// it must follow '.' or '?', and must not follow an abbreviation such as
// "U.S." or a title such as "Mr.". A match that exceeds MatchTimeout stops
// segmentation; Segment reports it, Split keeps the remainder as one sentence.
var boundary = func() *regexp2.Regexp {
	re := regexp2.MustCompile(`(?<!\w\.\w.)(?<![A-Z][a-z]\.)(?<=\.|\?)\s`, regexp2.None)
	re.MatchTimeout = 5 * time.Second
	return re
}()

// Split breaks text into sentences. The separating whitespace is dropped,
// everything else is kept in order, including empty segments.
func Split(text string) []string {
	sentences, _ := Segment(text)
	return sentences
}

// Segment is Split with the boundary matcher's error. On error the
// sentences found so far are returned and the unsegmented rest of the text
// is the last element.
func Segment(text string) ([]string, error) {
	runes := []rune(text)
	var out []string
	start := 0

	m, err := boundary.FindRunesMatch(runes)
	for err == nil && m != nil {
		out = append(out, string(runes[start:m.Index]))
		start = m.Index + m.Length
		m, err = boundary.FindNextMatch(m)
	}
	out = append(out, string(runes[start:]))
	if err != nil {
		return out, fmt.Errorf("split sentences: %w", err)
	}
	return out, nil
}
