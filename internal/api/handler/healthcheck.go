package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck verifica uma dependência do serviço, como o banco de métricas
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func HealthcheckHandler(checks ...HealthCheck) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := healthResponse{
			Status:    "ok",
			Timestamp: time.Now().Format(time.RFC3339),
		}
		status := http.StatusOK

		if len(checks) > 0 {
			response.Checks = make(map[string]string, len(checks))
		}

		for _, check := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			err := check.Check(ctx)
			cancel()

			if err != nil {
				logrus.WithError(err).WithField("check", check.Name).Warn("healthcheck: dependência indisponível")
				response.Checks[check.Name] = err.Error()
				response.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			response.Checks[check.Name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.WithError(err).Warn("error responding to healthcheck")
		}
	})
}
