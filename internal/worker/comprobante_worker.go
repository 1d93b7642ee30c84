package worker

// comprobante_worker.go
// Processes voucher jobs from QueueComprobante: renders the pedido voucher PDF
// and hands it to the email queue. PDF or lookup failures leave the voucher
// record in estado="pendiente" with a scheduled retry; the retry cron picks
// those up later.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gastonr9/sublimo-app-sub000/internal/infra"
	"github.com/gastonr9/sublimo-app-sub000/internal/model"
	"github.com/gastonr9/sublimo-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxComprobanteRetries bounds the retry cron before a voucher is parked in
// the DLQ with estado="error".
const MaxComprobanteRetries = 3

// ComprobanteJobPayload is the job envelope sent to QueueComprobante.
type ComprobanteJobPayload struct {
	PedidoID     string `json:"pedido_id"`
	ClienteEmail string `json:"cliente_email"`
}

// ComprobanteWorker generates pedido vouchers and enqueues their delivery.
type ComprobanteWorker struct {
	comprobanteRepo repository.ComprobanteRepository
	pedidoRepo      repository.PedidoRepository
	dispatcher      *Dispatcher
	pdfStoragePath  string
}

func NewComprobanteWorker(
	comprobanteRepo repository.ComprobanteRepository,
	pedidoRepo repository.PedidoRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *ComprobanteWorker {
	return &ComprobanteWorker{
		comprobanteRepo: comprobanteRepo,
		pedidoRepo:      pedidoRepo,
		dispatcher:      dispatcher,
		pdfStoragePath:  pdfStoragePath,
	}
}

// Process handles a single voucher job:
//  1. Fetch the pedido with its line and diseño
//  2. Create the Comprobante record with estado="pendiente"
//  3. Render the PDF voucher
//  4. Enqueue the email job and mark the voucher "emitido"
func (w *ComprobanteWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ComprobanteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("comprobante_worker: invalid payload")
		return
	}

	pedidoID, err := uuid.Parse(payload.PedidoID)
	if err != nil {
		log.Error().Str("pedido_id", payload.PedidoID).Msg("comprobante_worker: invalid pedido_id")
		return
	}

	pedido, err := w.pedidoRepo.FindByID(ctx, pedidoID)
	if err != nil {
		log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("comprobante_worker: pedido not found")
		return
	}

	comp := &model.Comprobante{
		PedidoID: pedidoID,
		Estado:   "pendiente",
	}
	if err := w.comprobanteRepo.Create(ctx, comp); err != nil {
		// Re-delivery of the same job hits the unique index on pedido_id —
		// reuse the existing record instead of failing.
		existing, findErr := w.comprobanteRepo.FindByPedidoID(ctx, pedidoID)
		if findErr != nil {
			log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("comprobante_worker: failed to create comprobante")
			return
		}
		comp = existing
	}

	pdfPath, pdfErr := infra.GenerateVoucherPDF(pedido, w.pdfStoragePath)
	if pdfErr != nil {
		w.scheduleRetry(ctx, comp, fmt.Sprintf("PDF generation failed: %v", pdfErr))
		return
	}
	comp.PDFPath = &pdfPath

	emailJob := EmailJobPayload{
		ToEmail: payload.ClienteEmail,
		Subject: fmt.Sprintf("Tu pedido Sublimo — %s %s", pedido.NombreCliente, pedido.ApellidoCliente),
		Body:    "Adjuntamos el comprobante de tu pedido. ¡Gracias por tu compra!",
		PDFPath: pdfPath,
	}
	if payload.ClienteEmail != "" {
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			w.scheduleRetry(ctx, comp, fmt.Sprintf("email enqueue failed: %v", err))
			return
		}
	}

	comp.Estado = "emitido"
	comp.NextRetryAt = nil
	comp.LastError = nil
	if err := w.comprobanteRepo.Update(ctx, comp); err != nil {
		log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("comprobante_worker: failed to update comprobante")
		return
	}
	log.Info().Str("pedido_id", payload.PedidoID).Str("pdf", pdfPath).Msg("comprobante_worker: voucher emitted")
}

// scheduleRetry records the failure and sets the next attempt for the cron.
func (w *ComprobanteWorker) scheduleRetry(ctx context.Context, comp *model.Comprobante, reason string) {
	comp.RetryCount++
	comp.LastError = &reason
	next := time.Now().Add(computeRetryBackoff(comp.RetryCount))
	comp.NextRetryAt = &next
	if comp.RetryCount >= MaxComprobanteRetries {
		comp.Estado = "error"
		comp.NextRetryAt = nil
	}
	if err := w.comprobanteRepo.Update(ctx, comp); err != nil {
		log.Error().Err(err).Str("comprobante_id", comp.ID.String()).Msg("comprobante_worker: failed to schedule retry")
		return
	}
	log.Warn().
		Str("comprobante_id", comp.ID.String()).
		Int("retry_count", comp.RetryCount).
		Str("reason", reason).
		Msg("comprobante_worker: voucher attempt failed")
}

// computeRetryBackoff: 1m, 2m, 4m … capped at 15m.
func computeRetryBackoff(retryCount int) time.Duration {
	d := time.Duration(1<<uint(retryCount-1)) * time.Minute
	if d > 15*time.Minute {
		d = 15 * time.Minute
	}
	return d
}
