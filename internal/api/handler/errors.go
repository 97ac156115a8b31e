package handler

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/sales-metrics-api/pkg/log"
)

// writeServiceError converte as falhas tipadas do motor de métricas em respostas da API
func writeServiceError(w http.ResponseWriter, logger log.Logger, err error) {
	var metricsErr *domain.MetricsError
	if errors.As(err, &metricsErr) && metricsErr.Code != "" {
		logServiceError(logger, apiErrors.StatusFor(metricsErr.Code), err)
		apiErrors.WriteError(w, metricsErr.Code, metricsErr.Error(), nil)
		return
	}

	var code string
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		code = apiErrors.ErrInvalidRequest
	case errors.Is(err, domain.ErrConflict):
		code = apiErrors.ErrWriteConflict
	case errors.Is(err, domain.ErrUnauthorized):
		code = apiErrors.ErrInsufficientPrivilege
	case errors.Is(err, domain.ErrUnavailable):
		code = apiErrors.ErrCommunication
	default:
		code = apiErrors.ErrDatabaseOperation
	}

	logServiceError(logger, apiErrors.StatusFor(code), err)

	message := err.Error()
	if code == apiErrors.ErrDatabaseOperation {
		message = "Erro ao processar métricas"
	}
	apiErrors.WriteError(w, code, message, nil)
}

func logServiceError(logger log.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.WithError(err).Error("falha ao processar requisição de métricas")
		return
	}
	logger.WithError(err).Warn("requisição de métricas recusada")
}
