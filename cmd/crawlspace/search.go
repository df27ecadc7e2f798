package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/matheus3301/crawlspace/internal/app"
	"github.com/matheus3301/crawlspace/internal/report"
	"github.com/matheus3301/crawlspace/internal/scan"
	"github.com/matheus3301/crawlspace/internal/search"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	termsFile   string
	queryLines  []string
	jsonOutput  bool
	noHistory   bool
	quietSearch bool
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&archiveFlag, "archive", "", "export folder (default: $CRAWLSPACE_ARCHIVE or config default_archive)")
	searchCmd.Flags().StringVar(&termsFile, "terms", "", "file with search words, one group per line")
	searchCmd.Flags().StringArrayVarP(&queryLines, "query", "q", nil, "word group to search for (repeatable)")
	searchCmd.Flags().BoolVar(&jsonOutput, "json", false, "write the report as JSON")
	searchCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this run")
	searchCmd.Flags().BoolVar(&quietSearch, "quiet", false, "do not print progress")
}

// searchCmd scans an export folder for sentences matching the search words
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search an export folder",
	Long: `Search every .json file of a Slack export for sentences matching the search words.

` + search.HelpText + `

Examples:
  # Sentences mentioning both "budget" and "cut", or "layoff"
  crawlspace search --archive ./export -q "budget cut" -q layoff

  # Words from a file, JSON report
  crawlspace search --archive ./export --terms words.txt --json > report.json`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

// runSearch handles the search command
func runSearch(cmd *cobra.Command, args []string) error {
	terms, err := collectTerms(termsFile, queryLines)
	if err != nil {
		return err
	}

	return withService(noHistory, func(ctx context.Context, svc *app.Service) error {
		sess, err := svc.Open(svc.ResolveArchive(archiveFlag))
		if err != nil {
			return err
		}

		task, err := svc.StartSearch(ctx, sess, terms)
		if err != nil {
			return err
		}

		var (
			g   errgroup.Group
			rep *scan.Report
		)
		g.Go(func() error {
			for p := range task.Progress() {
				if !quietSearch {
					fmt.Fprintf(os.Stderr, "\rScanning %d/%d files", p.Scanned, p.Total)
				}
			}
			if !quietSearch {
				fmt.Fprintln(os.Stderr)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			rep, err = task.Wait()
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		for _, fe := range rep.FileErrors {
			fmt.Fprintln(os.Stderr, fe.Error())
		}

		if jsonOutput {
			if err := report.WriteJSON(os.Stdout, rep); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		} else {
			fmt.Print(report.Format(rep.Results))
		}
		fmt.Fprintln(os.Stderr, report.Summary(len(rep.Results), rep.Elapsed))
		return nil
	})
}

// collectTerms merges the terms file and --query groups into one query text.
func collectTerms(path string, lines []string) (string, error) {
	var parts []string
	if path != "" {
		text, err := search.LoadTermsFile(path)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	parts = append(parts, lines...)
	terms := strings.Join(parts, "\n")
	if strings.TrimSpace(terms) == "" {
		return "", search.ErrEmptyQuery
	}
	return terms, nil
}
