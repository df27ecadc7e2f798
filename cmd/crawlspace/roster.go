package main

import (
	"context"
	"os"

	"github.com/matheus3301/crawlspace/internal/app"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rosterCmd)
	rosterCmd.Flags().StringVar(&archiveFlag, "archive", "", "export folder (default: $CRAWLSPACE_ARCHIVE or config default_archive)")
}

// rosterCmd lists the users of an export
var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List the users of an export",
	Long: `List the users recorded in the export's users.json, the names search
results and transcripts resolve ids to.`,
	Args: cobra.NoArgs,
	RunE: runRoster,
}

// runRoster handles the roster command
func runRoster(cmd *cobra.Command, args []string) error {
	return withService(true, func(_ context.Context, svc *app.Service) error {
		sess, err := svc.Open(svc.ResolveArchive(archiveFlag))
		if err != nil {
			return err
		}

		var rows [][]string
		for _, u := range sess.Roster().Users() {
			flags := ""
			switch {
			case u.Deleted:
				flags = "deleted"
			case u.IsBot:
				flags = "bot"
			}
			rows = append(rows, []string{u.ID, u.Name, u.Profile.RealName, u.Profile.DisplayName, flags})
		}
		writeTable(os.Stdout, []column{
			{title: "ID"},
			{title: "NAME", width: 20},
			{title: "REAL NAME", width: 28},
			{title: "DISPLAY NAME", width: 20},
			{title: "FLAGS"},
		}, rows)
		return nil
	})
}
