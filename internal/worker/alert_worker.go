package worker

// alert_worker.go
// Sends low-stock alert emails from QueueAlert via SMTP.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qureshi08/NPF-1/internal/infra"

	"github.com/rs/zerolog/log"
)

// LowStockAlertPayload is the job envelope sent to QueueAlert.
type LowStockAlertPayload struct {
	ProductName  string `json:"product_name"`
	SKU          string `json:"sku"`
	Stock        int    `json:"stock"`
	ReorderLevel int    `json:"reorder_level"`
}

// AlertWorker emails stock alerts to the configured address.
type AlertWorker struct {
	mailer     *infra.Mailer
	alertEmail string
}

func NewAlertWorker(mailer *infra.Mailer, alertEmail string) *AlertWorker {
	return &AlertWorker{mailer: mailer, alertEmail: alertEmail}
}

// Process sends one low-stock alert email.
func (w *AlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload LowStockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if w.alertEmail == "" {
		log.Warn().Msg("alert_worker: no alert email configured — skipping")
		return nil
	}

	subject := fmt.Sprintf("Low stock: %s (%s)", payload.ProductName, payload.SKU)
	body := fmt.Sprintf(
		"Stock for %s (%s) has dropped to %d units, at or below the reorder level of %d.\n\nPlease restock soon.",
		payload.ProductName, payload.SKU, payload.Stock, payload.ReorderLevel,
	)

	if err := w.mailer.Send(w.alertEmail, subject, body, ""); err != nil {
		return err
	}
	log.Info().Str("sku", payload.SKU).Msg("alert_worker: low stock alert sent")
	return nil
}
