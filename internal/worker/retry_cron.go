package worker

// retry_cron.go
// Background goroutine that periodically re-attempts voucher deliveries stuck
// in estado='pendiente' with a next_retry_at in the past. Uses the circuit
// breaker to avoid hammering a downed SMTP relay.

import (
	"context"
	"fmt"
	"time"

	"github.com/gastonr9/sublimo-app-sub000/internal/infra"
	"github.com/gastonr9/sublimo-app-sub000/internal/model"
	"github.com/gastonr9/sublimo-app-sub000/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	ComprobanteRepo repository.ComprobanteRepository
	Mailer          *infra.Mailer
	CB              *infra.CircuitBreaker
	RDB             *redis.Client
	PDFStoragePath  string
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries pending vouchers, and re-attempts generation/delivery through the
// circuit breaker. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If the CB is open, skip entirely — don't hammer a downed relay
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	now := time.Now()
	comprobantes, err := cfg.ComprobanteRepo.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(comprobantes) == 0 {
		return
	}

	log.Info().Int("count", len(comprobantes)).Msg("retry_cron: processing pending comprobantes")

	for i := range comprobantes {
		comp := &comprobantes[i]

		// CB state may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}
		if comp.Pedido == nil {
			continue
		}

		// Regenerate the PDF if the first attempt never produced one
		pdfPath := ""
		if comp.PDFPath != nil {
			pdfPath = *comp.PDFPath
		}
		if pdfPath == "" {
			generated, pdfErr := infra.GenerateVoucherPDF(comp.Pedido, cfg.PDFStoragePath)
			if pdfErr != nil {
				recordRetryFailure(ctx, cfg, comp, fmt.Sprintf("PDF generation failed: %v", pdfErr))
				continue
			}
			pdfPath = generated
			comp.PDFPath = &pdfPath
		}

		email := ""
		if comp.Pedido.EmailCliente != nil {
			email = *comp.Pedido.EmailCliente
		}

		sendErr := error(nil)
		if email != "" {
			sendErr = cfg.CB.Execute(func() error {
				return cfg.Mailer.SendComprobante(email,
					fmt.Sprintf("Tu pedido Sublimo — %s %s", comp.Pedido.NombreCliente, comp.Pedido.ApellidoCliente),
					"Adjuntamos el comprobante de tu pedido. ¡Gracias por tu compra!",
					pdfPath)
			})
		}
		if sendErr != nil {
			recordRetryFailure(ctx, cfg, comp, sendErr.Error())
			continue
		}

		comp.Estado = "emitido"
		comp.NextRetryAt = nil
		comp.LastError = nil
		_ = cfg.ComprobanteRepo.Update(ctx, comp)
		log.Info().
			Str("comprobante_id", comp.ID.String()).
			Int("total_retries", comp.RetryCount).
			Msg("retry_cron: voucher emitted after retry")
	}
}

func recordRetryFailure(ctx context.Context, cfg RetryCronConfig, comp *model.Comprobante, reason string) {
	comp.RetryCount++
	comp.LastError = &reason
	next := time.Now().Add(computeRetryBackoff(comp.RetryCount))
	comp.NextRetryAt = &next

	if comp.RetryCount >= MaxComprobanteRetries {
		comp.Estado = "error"
		comp.NextRetryAt = nil
		payload := fmt.Sprintf(`{"pedido_id":"%s","comprobante_id":"%s"}`, comp.PedidoID, comp.ID)
		SendToDLQ(ctx, cfg.RDB, QueueComprobante, "comprobante", []byte(payload),
			fmt.Sprintf("max retries (%d) exceeded: %s", MaxComprobanteRetries, reason),
			comp.RetryCount)
		log.Error().
			Str("comprobante_id", comp.ID.String()).
			Int("retries", comp.RetryCount).
			Msg("retry_cron: max retries exceeded, moved to DLQ")
	} else {
		log.Warn().
			Str("comprobante_id", comp.ID.String()).
			Int("retry_count", comp.RetryCount).
			Time("next_retry_at", *comp.NextRetryAt).
			Msg("retry_cron: attempt failed, scheduled next retry")
	}

	_ = cfg.ComprobanteRepo.Update(ctx, comp)
}
