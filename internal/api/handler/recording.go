package handler

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/recording"
	"github.com/vfg2006/sales-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/sales-metrics-api/pkg/log"
	"github.com/vfg2006/sales-metrics-api/pkg/middleware"
)

// Limite do corpo dos eventos enviados pelo CRM
const maxEventBodyBytes = 64 << 10

// decodeEvent lê o corpo limitado a maxEventBodyBytes e responde o erro adequado
func decodeEvent(w http.ResponseWriter, r *http.Request, logger log.Logger, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.WithField("limit_bytes", tooLarge.Limit).Warn("metrics: corpo do evento acima do limite")
			apiErrors.WriteError(w, apiErrors.ErrPayloadTooLarge, "Corpo da requisição muito grande", nil)
			return false
		}
		logger.WithError(err).Warn("metrics: falha ao ler o corpo do evento")
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		logger.WithError(err).Warn("metrics: corpo do evento inválido")
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
		return false
	}

	return true
}

// RecordActivity registra de forma síncrona uma atividade enviada pelo módulo de CRM
func RecordActivity(recorder recording.Recorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantFromContext(r.Context())
		logger := log.ForTenant(r.Context(), tenantID)

		var activity domain.Activity
		if !decodeEvent(w, r, logger, &activity) {
			return
		}

		if err := recorder.RecordActivity(r.Context(), tenantID, activity); err != nil {
			writeServiceError(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

// RecordLeadCreated registra de forma síncrona a criação de um lead
func RecordLeadCreated(recorder recording.Recorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantFromContext(r.Context())
		logger := log.ForTenant(r.Context(), tenantID)

		var lead domain.LeadCreated
		if !decodeEvent(w, r, logger, &lead) {
			return
		}

		if err := recorder.RecordLeadCreated(r.Context(), tenantID, lead); err != nil {
			writeServiceError(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
