// Package app orchestrates one reporting run: load the inputs, compute
// rankings and indicators, write the backup workbooks, send the mails.
// One pass, synchronous, no state kept across runs.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"onepage/internal/config"
	"onepage/internal/dataset"
	"onepage/internal/exporter"
	"onepage/internal/files"
	"onepage/internal/notifier"
	"onepage/internal/report"
	"onepage/pkg/contracts/domain"
)

// App runs the reporting pipeline
type App struct {
	cfg *config.Config
}

// New creates an App for the given configuration
func New(cfg *config.Config) *App {
	return &App{cfg: cfg}
}

// Options controls a single run
type Options struct {
	// AnalysisDate overrides the analysis date; nil means the latest
	// transaction date found in the sales data.
	AnalysisDate *time.Time
	// SkipMail writes all outputs but sends nothing
	SkipMail bool
}

// Result summarizes what a run produced
type Result struct {
	AnalysisDate time.Time
	Daily        domain.Ranking
	Annual       domain.Ranking
	MailFailures int
}

// Run executes one full pass of the pipeline. Input and ranking problems are
// fatal before any output is written; a write failure for one store's
// workbook is reported but does not stop the other stores or the mails.
func (a *App) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	loader := dataset.NewLoader(a.cfg.Paths)
	ds, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	analysisDate, err := resolveAnalysisDate(ds, opts.AnalysisDate)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "starting run",
		slog.String("analysis_date", analysisDate.Format("2006-01-02")),
		slog.Int("stores", len(ds.Stores)))

	daily, annual, err := report.BuildRankings(ds, analysisDate)
	if err != nil {
		return nil, fmt.Errorf("building rankings: %w", err)
	}
	indicators := report.BuildIndicators(ds, analysisDate)
	salesByStore := report.SalesByStore(ds, analysisDate)

	fm := files.NewManager(a.cfg.Paths.BackupDir)
	if err := fm.EnsureTree(ds.Stores); err != nil {
		return nil, fmt.Errorf("preparing backup tree: %w", err)
	}

	writer := exporter.NewExcelWriter(fm)

	var runErrs []error
	reports := make([]notifier.StoreReport, 0, len(ds.Stores))
	for _, store := range ds.Stores {
		path, err := writer.WriteStoreReport(store, salesByStore[store.ID], indicators[store.ID], analysisDate)
		if err != nil {
			slog.ErrorContext(ctx, "failed to write store report",
				slog.String("store", store.Name),
				slog.String("error", err.Error()))
			runErrs = append(runErrs, fmt.Errorf("store report %s: %w", store.Name, err))
			path = ""
		}
		reports = append(reports, notifier.StoreReport{
			Store:      store,
			Indicators: indicators[store.ID],
			Attachment: path,
		})
	}

	dailyPath, err := writer.WriteRanking(daily)
	if err != nil {
		return nil, fmt.Errorf("writing daily ranking: %w", err)
	}
	annualPath, err := writer.WriteRanking(annual)
	if err != nil {
		return nil, fmt.Errorf("writing annual ranking: %w", err)
	}

	result := &Result{AnalysisDate: analysisDate, Daily: daily, Annual: annual}

	if !opts.SkipMail {
		mailer, err := notifier.NewSMTPMailer(a.cfg.SMTP, a.cfg.Mail.SenderName)
		if err != nil {
			return nil, fmt.Errorf("opening mail session: %w", err)
		}
		defer func() {
			if cerr := mailer.Close(); cerr != nil {
				slog.WarnContext(ctx, "failed to close mail session", slog.String("error", cerr.Error()))
			}
		}()

		n := notifier.New(mailer, a.cfg.Goals, a.cfg.Mail.SenderName)
		result.MailFailures = n.NotifyManagers(ds, analysisDate, reports, daily, annual)
		if err := n.NotifyManagement(ds, analysisDate, daily, annual, []string{dailyPath, annualPath}); err != nil {
			runErrs = append(runErrs, err)
		}
	}

	slog.InfoContext(ctx, "run finished",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("mail_failures", result.MailFailures),
		slog.Int("errors", len(runErrs)))

	return result, errors.Join(runErrs...)
}

// resolveAnalysisDate picks the override when given, otherwise the latest
// transaction date in the sales data
func resolveAnalysisDate(ds *domain.Dataset, override *time.Time) (time.Time, error) {
	if override != nil {
		return *override, nil
	}
	latest, ok := ds.LatestSaleDate()
	if !ok {
		return time.Time{}, fmt.Errorf("cannot determine analysis date: no dated sales")
	}
	return latest, nil
}
