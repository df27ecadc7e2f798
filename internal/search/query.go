package search

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyQuery is returned when the search text contains no terms.
var ErrEmptyQuery = errors.New("please enter or load search words")

// WordGroup is the terms of one input line. All of them must be present in
// a sentence for the group to match.
type WordGroup []string

// Query is an ordered set of word groups. A sentence matches when any group matches.
type Query struct {
	groups []WordGroup
}

// HelpText describes the search criteria format.
const HelpText = `Search criteria format:

- Enter one word per line to search for individual words.
- Put several words on one line to require all of them in the same sentence.
- Matching is case-insensitive and on whole words only.
- A sentence matches when any line matches.
- Single words and multi-word lines can be mixed.`

// Compile builds a query from multi-line text. Each non-blank line becomes a
// group of its whitespace-separated terms.
func Compile(text string) (*Query, error) {
	var groups []WordGroup
	for _, line := range strings.Split(text, "\n") {
		terms := strings.Fields(line)
		if len(terms) == 0 {
			continue
		}
		groups = append(groups, WordGroup(terms))
	}
	if len(groups) == 0 {
		return nil, ErrEmptyQuery
	}
	return &Query{groups: groups}, nil
}

// Groups returns the word groups in input order.
func (q *Query) Groups() []WordGroup {
	return q.groups
}

// Terms returns every term of every group, flattened in order. Duplicates are kept.
func (q *Query) Terms() []string {
	var terms []string
	for _, g := range q.groups {
		terms = append(terms, g...)
	}
	return terms
}

// String renders the query back to its line form.
func (q *Query) String() string {
	lines := make([]string, len(q.groups))
	for i, g := range q.groups {
		lines[i] = strings.Join(g, " ")
	}
	return strings.Join(lines, "\n")
}

// LoadTermsFile reads a terms file and returns its trimmed non-empty lines
// joined by newlines, ready for Compile.
func LoadTermsFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open terms file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read terms file: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}
