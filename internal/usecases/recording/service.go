// Package recording implementa o Metrics Recorder: traduz eventos de domínio em
// deltas de contadores e os aplica ao counter store.
package recording

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository"
	"github.com/vfg2006/sales-metrics-api/internal/config"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/sales-metrics-api/pkg/log"
	"github.com/vfg2006/sales-metrics-api/pkg/metrics"
	"github.com/vfg2006/sales-metrics-api/pkg/utils"
)

const eventTypeLead = "lead"

// Recorder é chamado de forma síncrona pelo módulo de CRM, uma vez por evento real
type Recorder interface {
	RecordActivity(ctx context.Context, tenantID string, activity domain.Activity) error
	RecordLeadCreated(ctx context.Context, tenantID string, lead domain.LeadCreated) error
}

type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type Service struct {
	repo     repository.DailyMetricRepository
	location *time.Location
	retry    RetryConfig
	metrics  *metrics.Manager
	now      func() time.Time
}

func NewService(
	repo repository.DailyMetricRepository,
	cfg *config.Config,
	metricsManager *metrics.Manager,
) Recorder {
	return &Service{
		repo:     repo,
		location: cfg.Metrics.Location,
		retry: RetryConfig{
			MaxRetries:      cfg.Metrics.WriteMaxRetries,
			InitialInterval: cfg.Metrics.WriteInitialBackoff,
			MaxInterval:     cfg.Metrics.WriteMaxBackoff,
		},
		metrics: metricsManager,
		now:     time.Now,
	}
}

func (s *Service) RecordActivity(ctx context.Context, tenantID string, activity domain.Activity) error {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"tenant_id":     tenantID,
		"actor_id":      activity.ActorID,
		"activity_id":   activity.ID,
		"activity_type": activity.Type,
	})

	key, err := s.keyFor(tenantID, activity.ActorID, activity.Timestamp)
	if err != nil {
		s.metrics.EventRejected(string(activity.Type))
		logger.WithError(err).Warn("recorder: atividade rejeitada")
		return err
	}

	delta, err := ActivityDelta(activity)
	if err != nil {
		s.metrics.EventRejected(string(activity.Type))
		logger.WithError(err).Warn("recorder: atividade rejeitada")
		return withTenant(err, tenantID)
	}

	return s.apply(ctx, logger, key, delta, activity.ID, string(activity.Type))
}

func (s *Service) RecordLeadCreated(ctx context.Context, tenantID string, lead domain.LeadCreated) error {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"tenant_id": tenantID,
		"actor_id":  lead.ActorID,
		"lead_id":   lead.ID,
	})

	key, err := s.keyFor(tenantID, lead.ActorID, lead.Timestamp)
	if err != nil {
		s.metrics.EventRejected(eventTypeLead)
		logger.WithError(err).Warn("recorder: criação de lead rejeitada")
		return err
	}

	delta, err := LeadDelta(lead)
	if err != nil {
		s.metrics.EventRejected(eventTypeLead)
		logger.WithError(err).Warn("recorder: criação de lead rejeitada")
		return withTenant(err, tenantID)
	}

	return s.apply(ctx, logger, key, delta, lead.ID, eventTypeLead)
}

// keyFor valida a identidade do evento e resolve o dia no fuso de relatório
func (s *Service) keyFor(tenantID, actorID string, timestamp time.Time) (domain.MetricKey, error) {
	if tenantID == "" {
		return domain.MetricKey{}, domain.NewMetricsError(domain.ErrInvalidInput, apiErrors.ErrMissingTenant, tenantID, "tenant é obrigatório")
	}
	if actorID == "" {
		return domain.MetricKey{}, domain.NewMetricsError(domain.ErrInvalidInput, apiErrors.ErrInvalidEvent, tenantID, "actor_id é obrigatório")
	}

	if timestamp.IsZero() {
		timestamp = s.now()
	}

	return domain.MetricKey{
		TenantID: tenantID,
		Date:     utils.StartOfDay(timestamp, s.location),
		ActorID:  actorID,
	}, nil
}

// apply aplica o delta repetindo somente em conflito de escrita, com backoff exponencial
func (s *Service) apply(ctx context.Context, logger log.Logger, key domain.MetricKey, delta domain.Counters, eventID, eventType string) error {
	logger = logger.WithField("date", key.DateString())

	if delta.IsEmpty() {
		logger.Debug("recorder: evento sem impacto nos contadores")
		return nil
	}

	operation := func() error {
		err := s.repo.ApplyDelta(ctx, key, delta, eventID)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrConflict) {
			s.metrics.WriteConflict()
			logger.WithError(err).Debug("recorder: conflito de escrita, nova tentativa")
			return err
		}
		return backoff.Permanent(err)
	}

	err := backoff.Retry(operation, s.newBackOff(ctx))
	switch {
	case err == nil:
		s.metrics.EventRecorded(eventType)
		logger.Debug("recorder: delta aplicado")
		return nil

	case errors.Is(err, domain.ErrDuplicateEvent):
		s.metrics.EventDuplicate()
		logger.Info("recorder: evento já aplicado, ignorando")
		return nil

	case errors.Is(err, domain.ErrConflict):
		s.metrics.WriteFailure()
		logger.WithError(err).Error("recorder: tentativas esgotadas após conflitos de escrita")
		return domain.NewMetricsError(domain.ErrConflict, apiErrors.ErrWriteConflict, key.TenantID, "tentativas de escrita esgotadas")

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.metrics.WriteFailure()
		logger.WithError(err).Error("recorder: escrita interrompida")
		return domain.NewMetricsError(domain.ErrUnavailable, apiErrors.ErrCommunication, key.TenantID, err.Error())

	default:
		s.metrics.WriteFailure()
		logger.WithError(err).Error("recorder: falha ao aplicar delta")
		return errors.Wrapf(err, "erro ao gravar métricas do vendedor %s em %s", key.ActorID, key.DateString())
	}
}

func (s *Service) newBackOff(ctx context.Context) backoff.BackOff {
	exponential := backoff.NewExponentialBackOff()
	if s.retry.InitialInterval > 0 {
		exponential.InitialInterval = s.retry.InitialInterval
	}
	if s.retry.MaxInterval > 0 {
		exponential.MaxInterval = s.retry.MaxInterval
	}
	exponential.MaxElapsedTime = 0 // limitado pelo número de tentativas

	return backoff.WithContext(backoff.WithMaxRetries(exponential, s.retry.MaxRetries), ctx)
}

func withTenant(err error, tenantID string) error {
	var metricsErr *domain.MetricsError
	if errors.As(err, &metricsErr) {
		metricsErr.TenantID = tenantID
		if metricsErr.Code == "" {
			metricsErr.Code = apiErrors.ErrInvalidEvent
		}
	}
	return err
}
