// Command onepage runs the full sales reporting pipeline: it loads the
// sales, store and email spreadsheets, computes the daily and annual
// rankings, writes the per-store backup workbooks and the two ranking
// workbooks, and mails every store manager plus management.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"onepage/internal/app"
	"onepage/internal/config"
	"onepage/internal/infrastructure"
	"onepage/pkg/contracts"
)

func main() {
	dateFlag := flag.String("date", "", "analysis date (YYYY-MM-DD, defaults to the latest sale date)")
	noMail := flag.Bool("no-mail", false, "write all outputs but send no mail")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	runID := uuid.NewString()
	slog.SetDefault(logger.With(slog.String("run_id", runID)))
	ctx := infrastructure.WithRunID(context.Background(), runID)

	opts := app.Options{SkipMail: *noMail}
	if *dateFlag != "" {
		date, err := time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			slog.Error("invalid -date value", "value", *dateFlag, "error", err)
			os.Exit(1)
		}
		opts.AnalysisDate = &date
	}

	result, err := app.New(cfg).Run(ctx, opts)
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	if result.MailFailures > 0 {
		slog.Warn("run completed with mail failures", "failures", result.MailFailures)
		os.Exit(1)
	}
}
