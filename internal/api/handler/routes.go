package handler

import (
	"net/http"

	"github.com/vfg2006/sales-metrics-api/internal/api/handler/router"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/dashboard"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/recording"
	"github.com/vfg2006/sales-metrics-api/pkg/metrics"
	"github.com/vfg2006/sales-metrics-api/pkg/middleware"
)

func Healthcheck(checks ...HealthCheck) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(checks...),
		},
	}
}

func Metrics(manager *metrics.Manager) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: manager.Handler(),
		},
	}
}

func Dashboard(assembler dashboard.Assembler) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/dashboard",
			Method:  http.MethodGet,
			Handler: GetDashboard(assembler),
		},
	}
}

func Recording(recorder recording.Recorder) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/metrics/activities",
			Method:      http.MethodPost,
			Handler:     RecordActivity(recorder),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireTenant()},
		},
		{
			Path:        "/v1/metrics/leads",
			Method:      http.MethodPost,
			Handler:     RecordLeadCreated(recorder),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireTenant()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
