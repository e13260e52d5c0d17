// Command rankings is a dry-run version of the pipeline: it loads the
// inputs, computes both rankings, writes the output workbooks and prints the
// top of each ranking without sending any mail.
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
	"onepage/pkg/contracts/domain"
)

func main() {
	dateFlag := flag.String("date", "", "analysis date (YYYY-MM-DD, defaults to the latest sale date)")
	top := flag.Int("top", 5, "number of ranking entries to print")
	flag.Parse()

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

	opts := app.Options{SkipMail: true}
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

	printRanking("Daily ranking", result.Daily, *top)
	printRanking("Annual ranking", result.Annual, *top)
}

func printRanking(title string, r domain.Ranking, top int) {
	fmt.Printf("%s (%s):\n", title, r.Date.Format("2006-01-02"))
	for _, entry := range r.Entries {
		if entry.Position > top {
			break
		}
		fmt.Printf("  %2d. %-20s %12s\n", entry.Position, entry.StoreName, entry.Total.StringFixed(2))
	}
}
