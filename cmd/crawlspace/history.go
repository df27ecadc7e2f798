package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/matheus3301/crawlspace/internal/app"
	"github.com/matheus3301/crawlspace/internal/report"
	"github.com/matheus3301/crawlspace/internal/scan"
	"github.com/spf13/cobra"
)

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to list")
}

// historyCmd lists recorded runs or prints one of them
var historyCmd = &cobra.Command{
	Use:   "history [RUN_ID]",
	Short: "List recorded searches",
	Long: `List recorded searches, newest first. With a run id (or a unique prefix of one),
print the results of that run in the same format as the search command.

Examples:
  crawlspace history
  crawlspace history 3f2a9c`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

// runHistory handles the history command
func runHistory(cmd *cobra.Command, args []string) error {
	return withService(false, func(_ context.Context, svc *app.Service) error {
		if len(args) == 1 {
			return printRun(svc, args[0])
		}

		runs, err := svc.History(historyLimit)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, []string{
				r.ID[:min(8, len(r.ID))],
				time.UnixMilli(r.StartedAt).Format(time.DateTime),
				r.Query,
				r.Archive,
				strconv.Itoa(r.FilesScanned),
				strconv.Itoa(r.ResultCount),
			})
		}
		writeTable(os.Stdout, []column{
			{title: "RUN"},
			{title: "STARTED"},
			{title: "WORDS", width: 30},
			{title: "ARCHIVE", width: 36},
			{title: "FILES"},
			{title: "HITS"},
		}, rows)
		return nil
	})
}

func printRun(svc *app.Service, id string) error {
	d, err := svc.Run(id)
	if err != nil {
		return err
	}
	results := make([]scan.Result, 0, len(d.Hits))
	for _, h := range d.Hits {
		results = append(results, scan.Result{DisplayName: h.DisplayName, Snippet: h.Snippet, Path: h.Path})
	}
	fmt.Print(report.Format(results))
	for _, fe := range d.FileErrors {
		fmt.Fprintf(os.Stderr, "error reading file %s: %s\n", fe.Path, fe.Message)
	}
	elapsed := time.Duration(d.Run.ElapsedMS) * time.Millisecond
	fmt.Fprintf(os.Stderr, "Run %s on %s\n", d.Run.ID, d.Run.Archive)
	fmt.Fprintln(os.Stderr, report.Summary(len(results), elapsed))
	return nil
}
