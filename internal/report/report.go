package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matheus3301/crawlspace/internal/scan"
)

// Separator ends every rendered result block.
var Separator = strings.Repeat("-", 50)

const (
	namePrefix  = "Real Name: "
	matchPrefix = "Match: "
	pathPrefix  = "File Path: "
)

// FormatResult renders one result block, trailing newline included.
func FormatResult(r scan.Result) string {
	return fmt.Sprintf("%s%s\n%s%s\n%s%s\n%s\n", namePrefix, r.DisplayName, matchPrefix, r.Snippet, pathPrefix, r.Path, Separator)
}

// Format renders all results in order.
func Format(results []scan.Result) string {
	var b strings.Builder
	for _, r := range results {
		b.WriteString(FormatResult(r))
	}
	return b.String()
}

// Summary returns the one-line outcome of a scan.
func Summary(count int, elapsed time.Duration) string {
	if count == 0 {
		return fmt.Sprintf("No matches found for the search words in %.2f seconds", elapsed.Seconds())
	}
	return fmt.Sprintf("Total Results Found: %d in %.2f seconds", count, elapsed.Seconds())
}

// PathAt returns the file path of the result block containing the given
// zero-based line of rendered output.
func PathAt(rendered string, line int) (string, bool) {
	lines := strings.Split(rendered, "\n")
	if line < 0 || line >= len(lines) {
		return "", false
	}
	// The separator belongs to the block above it.
	start := line
	if lines[start] == Separator {
		if start == 0 {
			return "", false
		}
		start--
	}
	for i := start; i < len(lines) && lines[i] != Separator; i++ {
		if path, ok := strings.CutPrefix(lines[i], pathPrefix); ok {
			return path, true
		}
	}
	return "", false
}

type jsonResult struct {
	DisplayName string `json:"display_name"`
	Snippet     string `json:"snippet"`
	Path        string `json:"path"`
	Variant     string `json:"variant"`
	TS          string `json:"ts,omitempty"`
}

type jsonReport struct {
	RunID      string       `json:"run_id"`
	Archive    string       `json:"archive"`
	Query      string       `json:"query"`
	StartedAt  time.Time    `json:"started_at"`
	ElapsedMS  int64        `json:"elapsed_ms"`
	Files      int          `json:"files_scanned"`
	FileErrors []string     `json:"file_errors"`
	Results    []jsonResult `json:"results"`
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, rep *scan.Report) error {
	out := jsonReport{
		RunID:      rep.RunID,
		Archive:    rep.Root,
		Query:      rep.Query,
		StartedAt:  rep.StartedAt,
		ElapsedMS:  rep.Elapsed.Milliseconds(),
		Files:      rep.Files,
		FileErrors: make([]string, 0, len(rep.FileErrors)),
		Results:    make([]jsonResult, 0, len(rep.Results)),
	}
	for _, fe := range rep.FileErrors {
		out.FileErrors = append(out.FileErrors, fe.Error())
	}
	for _, r := range rep.Results {
		out.Results = append(out.Results, jsonResult{
			DisplayName: r.DisplayName,
			Snippet:     r.Snippet,
			Path:        r.Path,
			Variant:     string(r.Variant),
			TS:          r.TS,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
