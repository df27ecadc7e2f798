package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/crawlspace/internal/app"
	"github.com/matheus3301/crawlspace/internal/search"
	"github.com/matheus3301/crawlspace/internal/tui"
	"go.uber.org/fx"
)

func main() {
	archiveFlag := flag.String("archive", "", "export folder to open (overrides config default)")
	termsFlag := flag.String("terms", "", "file with search words to preload")
	configFlag := flag.String("config", "", "config file (default: ~/.crawlspace/config.toml)")
	noHistory := flag.Bool("no-history", false, "do not record searches")
	flag.Parse()

	var svc *app.Service
	fxApp := fx.New(
		app.Module(app.Params{
			Binary:     "crawltui",
			ConfigPath: *configFlag,
			NoHistory:  *noHistory,
		}),
		fx.Populate(&svc),
		fx.NopLogger,
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	code := run(svc, *archiveFlag, *termsFlag)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	_ = fxApp.Stop(stopCtx)
	os.Exit(code)
}

func run(svc *app.Service, archive, termsPath string) int {
	t := tui.NewApp(svc)
	if termsPath != "" {
		text, err := search.LoadTermsFile(termsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		if err := t.SetTerms(text); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}
	if err := t.Run(svc.ResolveArchive(archive)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
