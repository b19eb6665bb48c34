// Package webhook delivers sale notifications to an external HTTP endpoint.
// Delivery happens after the sale is committed; a failed delivery surfaces
// as a warning on the response, never as a rollback.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"orfebre/internal/core/apperror"
	appctx "orfebre/internal/core/context"
	"orfebre/internal/core/id"
	"orfebre/internal/core/types"
	"orfebre/internal/domain/documents/sale"
	"orfebre/pkg/config"
)

// salePayload is the JSON body posted to the sink. Field names match what
// the workshop's accounting sheet importer expects.
type salePayload struct {
	Fecha     time.Time     `json:"fecha"`
	Numero    string        `json:"numero"`
	Total     types.Money   `json:"total"`
	MedioPago string        `json:"medio_pago"`
	Cliente   string        `json:"cliente,omitempty"`
	UsuarioID string        `json:"usuario_id,omitempty"`
	Detalles  []linePayload `json:"detalles"`
}

type linePayload struct {
	ProductoID     id.ID       `json:"producto_id"`
	Cantidad       int64       `json:"cantidad"`
	PrecioUnitario types.Money `json:"precio_unitario"`
	Subtotal       types.Money `json:"subtotal"`
}

// SaleSink posts committed sales to a configured URL.
type SaleSink struct {
	url    string
	client *http.Client
}

var _ sale.Sink = (*SaleSink)(nil)

// NewSaleSink creates a sink from webhook configuration. Returns nil when
// no URL is configured, which disables delivery.
func NewSaleSink(cfg config.WebhookConfig) *SaleSink {
	if cfg.SaleURL == "" {
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &SaleSink{
		url:    cfg.SaleURL,
		client: &http.Client{Timeout: timeout},
	}
}

// DeliverSale posts the sale to the sink. Any transport error or non-2xx
// status maps to an external sink error.
func (s *SaleSink) DeliverSale(ctx context.Context, doc *sale.Sale) error {
	payload := salePayload{
		Fecha:     doc.Date,
		Numero:    doc.Number,
		Total:     doc.Total,
		MedioPago: string(doc.PaymentMethod),
		Cliente:   doc.CustomerName,
		UsuarioID: appctx.GetUserID(ctx),
		Detalles:  make([]linePayload, 0, len(doc.Lines)),
	}
	for _, l := range doc.Lines {
		payload.Detalles = append(payload.Detalles, linePayload{
			ProductoID:     l.ProductID,
			Cantidad:       l.Quantity,
			PrecioUnitario: l.UnitPrice,
			Subtotal:       l.Subtotal,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperror.NewExternalSink("sale webhook", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return apperror.NewExternalSink("sale webhook", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return apperror.NewExternalSink("sale webhook", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperror.NewExternalSink("sale webhook",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	return nil
}
