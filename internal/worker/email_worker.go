package worker

// email_worker.go
// Processes email jobs from QueueEmail: mails the voucher PDF to the customer.
// SMTP sends go through the circuit breaker so a downed relay fails fast
// instead of tying up the pool.

import (
	"context"
	"encoding/json"

	"github.com/gastonr9/sublimo-app-sub000/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// EmailWorker sends voucher emails via SMTP.
type EmailWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

// Process sends an email with the PDF voucher as attachment.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	err := w.cb.Execute(func() error {
		return w.mailer.SendComprobante(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: comprobante sent")
}
