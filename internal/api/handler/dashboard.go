package handler

import (
	"net/http"
	"strconv"

	"github.com/vfg2006/sales-metrics-api/internal/usecases/dashboard"
	"github.com/vfg2006/sales-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/sales-metrics-api/pkg/log"
	"github.com/vfg2006/sales-metrics-api/pkg/middleware"
)

const defaultPeriodDays = 7

// GetDashboard devolve o dashboard do tenant do token; sem token, os dados de demonstração
func GetDashboard(assembler dashboard.Assembler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := middleware.TenantFromContext(r.Context())

		logger := log.ForTenant(r.Context(), tenantID)

		periodDays := defaultPeriodDays
		if raw := r.URL.Query().Get("period"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				logger.WithField("period", raw).Warn("dashboard: parâmetro period inválido")
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "period deve ser um número inteiro de dias", nil)
				return
			}
			periodDays = parsed
		}

		view, err := assembler.GetDashboard(r.Context(), tenantID, periodDays)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		logger.WithFields(log.Fields{
			"period_days": periodDays,
			"demo_served": view.IsDemo,
		}).Info("dashboard: montado com sucesso")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view); err != nil {
			logger.WithError(err).Error("dashboard: erro ao serializar resposta")
		}
	})
}
