package worker

// alert_worker.go
// Sends price-drop notification emails from QueueAlert.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/xsha511/brightdata-scraper/internal/infra"
)

// PriceAlertJob is the job envelope sent to QueueAlert.
type PriceAlertJob struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	URL       string          `json:"url"`
	Currency  string          `json:"currency"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	DropPct   decimal.Decimal `json:"drop_pct"`
}

type AlertWorker struct {
	mailer *infra.Mailer
	to     string
}

func NewAlertWorker(mailer *infra.Mailer, to string) *AlertWorker {
	return &AlertWorker{mailer: mailer, to: to}
}

func (w *AlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var job PriceAlertJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return fmt.Errorf("alert_worker: invalid payload: %w", err)
	}
	if w.to == "" {
		log.Warn().Str("product_id", job.ProductID).Msg("alert_worker: no recipient configured — skipping")
		return nil
	}

	subject := fmt.Sprintf("Price drop: %s", job.Title)
	body := fmt.Sprintf(
		"%s\n\nPrice dropped %s%% — %s %s → %s %s\n\n%s\n",
		job.Title,
		job.DropPct.StringFixed(1),
		job.OldPrice.StringFixed(2), job.Currency,
		job.NewPrice.StringFixed(2), job.Currency,
		job.URL,
	)

	if err := w.mailer.Send(w.to, subject, body); err != nil {
		return fmt.Errorf("alert_worker: send: %w", err)
	}
	log.Info().Str("product_id", job.ProductID).Str("to", w.to).Msg("price alert sent")
	return nil
}
