package notifier

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"onepage/internal/config"
	apperrors "onepage/internal/errors"
	"onepage/pkg/contracts/domain"
)

// StoreReport bundles everything the per-manager mail needs for one store.
// Attachment may be empty when the store's workbook failed to write; the
// mail is still sent without it.
type StoreReport struct {
	Store      domain.Store
	Indicators domain.StoreIndicators
	Attachment string
}

// Notifier composes and dispatches the run's emails
type Notifier struct {
	mailer Mailer
	goals  config.GoalsConfig
	sender string
}

// New creates a notifier on top of an open mail session
func New(mailer Mailer, goals config.GoalsConfig, senderName string) *Notifier {
	return &Notifier{mailer: mailer, goals: goals, sender: senderName}
}

// NotifyManagers sends one OnePage mail per store with a resolvable manager
// contact. A dispatch failure for one recipient is logged and does not stop
// the remaining recipients; the number of failed sends is returned.
func (n *Notifier) NotifyManagers(ds *domain.Dataset, date time.Time, reports []StoreReport, daily, annual domain.Ranking) int {
	contacts := ds.ContactsByStoreName()
	day := fmt.Sprintf("%d/%d", date.Day(), int(date.Month()))

	failures := 0
	for _, report := range reports {
		contact, ok := contacts[report.Store.Name]
		if !ok {
			slog.Warn("no manager contact for store, skipping mail",
				slog.String("store", report.Store.Name))
			continue
		}

		data := onePageData{
			Manager:        contact.Manager,
			StoreName:      report.Store.Name,
			Day:            day,
			DayRows:        indicatorRows(report.Indicators.Day, n.goals.Day),
			YearRows:       indicatorRows(report.Indicators.Year, n.goals.Year),
			DailyPosition:  daily.PositionOf(report.Store.ID),
			AnnualPosition: annual.PositionOf(report.Store.ID),
			StoreCount:     len(daily.Entries),
			Sender:         n.sender,
		}

		var body bytes.Buffer
		if err := onePageTemplate.Execute(&body, data); err != nil {
			slog.Error("failed to render manager mail",
				slog.String("store", report.Store.Name),
				slog.String("error", err.Error()))
			failures++
			continue
		}

		msg := Message{
			To:       contact.Email,
			ToName:   contact.Manager,
			Subject:  fmt.Sprintf("OnePage %s - Store %s", day, report.Store.Name),
			HTMLBody: body.String(),
		}
		if report.Attachment != "" {
			msg.Attachments = []string{report.Attachment}
		}

		if err := n.mailer.Send(msg); err != nil {
			slog.Error("failed to send manager mail",
				slog.String("store", report.Store.Name),
				slog.String("recipient", contact.Email),
				slog.String("error", err.Error()))
			failures++
			continue
		}

		slog.Info("manager mail sent",
			slog.String("store", report.Store.Name),
			slog.String("manager", contact.Manager),
			slog.String("recipient", contact.Email))
	}

	return failures
}

// NotifyManagement sends the summary mail to the management contact with the
// full rankings and both ranking workbooks attached
func (n *Notifier) NotifyManagement(ds *domain.Dataset, date time.Time, daily, annual domain.Ranking, attachments []string) error {
	contact, ok := ds.ManagementContact()
	if !ok {
		return apperrors.NewDataError(apperrors.CodeNoContact, "contacts",
			"no management contact (store name "+domain.ManagementStoreName+") in email directory")
	}

	day := fmt.Sprintf("%d/%d", date.Day(), int(date.Month()))

	data := summaryData{
		Day:        day,
		BestDay:    entryLabel(daily.Best()),
		WorstDay:   entryLabel(daily.Worst()),
		BestYear:   entryLabel(annual.Best()),
		WorstYear:  entryLabel(annual.Worst()),
		DailyRows:  rankingRows(daily),
		AnnualRows: rankingRows(annual),
		Sender:     n.sender,
	}

	var body bytes.Buffer
	if err := summaryTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render summary mail: %w", err)
	}

	msg := Message{
		To:          contact.Email,
		ToName:      contact.Manager,
		Subject:     fmt.Sprintf("Store ranking %s", day),
		HTMLBody:    body.String(),
		Attachments: attachments,
	}

	if err := n.mailer.Send(msg); err != nil {
		return fmt.Errorf("failed to send summary mail: %w", err)
	}

	slog.Info("summary mail sent", slog.String("recipient", contact.Email))
	return nil
}

// indicatorRows grades one window's indicators against its goals
func indicatorRows(ind domain.PeriodIndicators, goals config.GoalValues) []indicatorRow {
	return []indicatorRow{
		{
			Name:  "Revenue",
			Value: formatMoney(ind.Revenue),
			Goal:  formatMoney(goals.RevenueGoal()),
			Color: string(domain.CompareGoal(ind.Revenue, goals.RevenueGoal())),
		},
		{
			Name:  "Product Diversity",
			Value: strconv.Itoa(ind.ProductCount),
			Goal:  strconv.Itoa(goals.ProductCount),
			Color: string(domain.CompareGoal(decimal.NewFromInt(int64(ind.ProductCount)), decimal.NewFromInt(int64(goals.ProductCount)))),
		},
		{
			Name:  "Average Ticket",
			Value: formatMoney(ind.AverageTicket),
			Goal:  formatMoney(goals.AverageTicketGoal()),
			Color: string(domain.CompareGoal(ind.AverageTicket, goals.AverageTicketGoal())),
		},
	}
}

// rankingRows renders a ranking into template rows
func rankingRows(r domain.Ranking) []summaryRow {
	rows := make([]summaryRow, 0, len(r.Entries))
	for _, entry := range r.Entries {
		rows = append(rows, summaryRow{
			Position: entry.Position,
			Store:    entry.StoreName,
			Total:    formatMoney(entry.Total),
		})
	}
	return rows
}

func entryLabel(entry domain.RankingEntry, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", entry.StoreName, formatMoney(entry.Total))
}
