package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheus3301/crawlspace/internal/app"
	"github.com/matheus3301/crawlspace/internal/archive"
	"github.com/matheus3301/crawlspace/internal/identity"
	"github.com/matheus3301/crawlspace/internal/report"
	"github.com/matheus3301/crawlspace/internal/transcript"
	"github.com/spf13/cobra"
)

var (
	plainOutput bool
	fromReport  string
	reportLine  int
)

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&archiveFlag, "archive", "", "export folder (default: folder holding users.json above FILE)")
	showCmd.Flags().BoolVar(&plainOutput, "plain", false, "disable colors")
	showCmd.Flags().StringVar(&fromReport, "from-report", "", "saved text report to pick the file from")
	showCmd.Flags().IntVar(&reportLine, "line", 0, "1-based line of --from-report inside the wanted result")
}

// showCmd prints the conversation of one export file
var showCmd = &cobra.Command{
	Use:   "show [FILE]",
	Short: "Show the conversation of an export file",
	Long: `Reconstruct the conversation stored in one export file, one message per entry,
each author in a stable color.

Examples:
  # Relative to the archive
  crawlspace show --archive ./export general/2024-01-15.json

  # The file of the result at line 7 of a saved report
  crawlspace search --archive ./export -q budget > hits.txt
  crawlspace show --from-report hits.txt --line 7`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

// runShow handles the show command
func runShow(cmd *cobra.Command, args []string) error {
	path, err := showTarget(args)
	if err != nil {
		return err
	}

	return withService(true, func(_ context.Context, svc *app.Service) error {
		root := svc.ResolveArchive(archiveFlag)
		if root == "" {
			root = findArchive(path)
		}
		sess, err := svc.Open(root)
		if err != nil {
			return err
		}
		entries, err := sess.Conversation(path)
		if err != nil {
			return err
		}
		renderTranscript(os.Stdout, entries, plainOutput)
		return nil
	})
}

// showTarget picks the file from the argument or the saved report.
func showTarget(args []string) (string, error) {
	if fromReport == "" {
		if len(args) == 0 {
			return "", errors.New("a FILE argument or --from-report is required")
		}
		return args[0], nil
	}
	if len(args) > 0 {
		return "", errors.New("FILE and --from-report are mutually exclusive")
	}
	data, err := os.ReadFile(fromReport)
	if err != nil {
		return "", fmt.Errorf("read report: %w", err)
	}
	path, ok := report.PathAt(string(data), reportLine-1)
	if !ok {
		return "", fmt.Errorf("no result at line %d of %s", reportLine, fromReport)
	}
	return path, nil
}

// findArchive walks up from the file looking for the folder holding the
// roster, falling back to the file's own folder.
func findArchive(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path)
	}
	start := filepath.Dir(abs)
	for dir := start; ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, identity.RosterFile)); err == nil {
			return dir
		}
		if parent := filepath.Dir(dir); parent == dir {
			return start
		}
	}
}

func renderTranscript(w io.Writer, entries []transcript.Entry, plain bool) {
	nameStyle := lipgloss.NewStyle().Bold(true)
	timeStyle := lipgloss.NewStyle().Faint(true)
	noteStyle := lipgloss.NewStyle().Italic(true)

	for _, e := range entries {
		name, ts, body := e.DisplayName, e.Timestamp, e.Body
		if !plain {
			name = nameStyle.Foreground(lipgloss.Color(e.Color.Hex())).Render(name)
			ts = timeStyle.Render(ts)
			if e.Variant == archive.Deleted || e.Variant == archive.System {
				body = noteStyle.Render(body)
			}
		}
		_, _ = fmt.Fprintf(w, "%s  %s\n%s\n\n", name, ts, body)
	}
}
