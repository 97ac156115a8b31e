// Package dashboard implementa o Dashboard Assembler: período atual e anterior,
// tendências, série diária e leaderboard, com substituição por dados de demonstração.
package dashboard

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository"
	"github.com/vfg2006/sales-metrics-api/internal/config"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/sales-metrics-api/pkg/log"
	"github.com/vfg2006/sales-metrics-api/pkg/metrics"
	"github.com/vfg2006/sales-metrics-api/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const defaultQueryTimeout = 5 * time.Second

// Motivos de substituição pelos dados de demonstração
const (
	demoReasonUnauthenticated = "unauthenticated"
	demoReasonUnauthorized    = "unauthorized"
	demoReasonEmpty           = "empty"
)

type Assembler interface {
	GetDashboard(ctx context.Context, tenantID string, periodDays int) (*domain.DashboardView, error)
	GetDashboardAt(ctx context.Context, tenantID string, periodDays int, now time.Time) (*domain.DashboardView, error)
}

type Service struct {
	aggregator   aggregating.Aggregator
	closedDeals  repository.ClosedDealRepository
	directory    repository.ActorDirectory
	location     *time.Location
	queryTimeout time.Duration
	metrics      *metrics.Manager
	now          func() time.Time
}

func NewService(
	cfg *config.Config,
	aggregator aggregating.Aggregator,
	closedDeals repository.ClosedDealRepository,
	directory repository.ActorDirectory,
	metricsManager *metrics.Manager,
) Assembler {
	location := cfg.Metrics.Location
	if location == nil {
		location = time.UTC
	}

	queryTimeout := cfg.Metrics.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}

	return &Service{
		aggregator:   aggregator,
		closedDeals:  closedDeals,
		directory:    directory,
		location:     location,
		queryTimeout: queryTimeout,
		metrics:      metricsManager,
		now:          time.Now,
	}
}

// period é um intervalo de dias civis; end é o último instante do último dia
type period struct {
	days  int
	start time.Time
	end   time.Time
}

// periodsFor resolve os últimos periodDays dias terminando hoje e o intervalo
// de mesmo tamanho imediatamente anterior
func periodsFor(now time.Time, periodDays int, location *time.Location) (current, previous period) {
	today := utils.StartOfDay(now, location)

	current = period{
		days:  periodDays,
		start: today.AddDate(0, 0, -(periodDays - 1)),
		end:   utils.EndOfDay(today, location),
	}
	previous = period{
		days:  periodDays,
		start: current.start.AddDate(0, 0, -periodDays),
		end:   current.start.Add(-time.Nanosecond),
	}

	return current, previous
}

func (s *Service) GetDashboard(ctx context.Context, tenantID string, periodDays int) (*domain.DashboardView, error) {
	return s.GetDashboardAt(ctx, tenantID, periodDays, s.now())
}

func (s *Service) GetDashboardAt(ctx context.Context, tenantID string, periodDays int, now time.Time) (*domain.DashboardView, error) {
	startedAt := time.Now()

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"tenant_id":   tenantID,
		"period_days": periodDays,
	})

	if !domain.IsValidPeriodDays(periodDays) {
		return nil, domain.NewMetricsError(domain.ErrInvalidInput, apiErrors.ErrInvalidPeriod, tenantID, "período deve ser 7, 14, 30 ou 90 dias")
	}

	current, previous := periodsFor(now, periodDays, s.location)

	if tenantID == "" {
		logger.WithField("demo_reason", demoReasonUnauthenticated).Info("dashboard: usando dados de demonstração")
		s.metrics.DashboardServed(metrics.DashboardOutcomeDemo, time.Since(startedAt))
		return demo.view(current), nil
	}

	view, err := s.assemble(ctx, tenantID, current, previous)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		logger.WithField("demo_reason", demoReasonUnauthorized).WithError(err).Warn("dashboard: leitura não autorizada, usando dados de demonstração")
		s.metrics.DashboardServed(metrics.DashboardOutcomeDemo, time.Since(startedAt))
		return demo.view(current), nil

	case err != nil:
		logger.WithError(err).Error("dashboard: erro ao montar dashboard")
		s.metrics.DashboardServed(metrics.DashboardOutcomeError, time.Since(startedAt))
		return nil, err
	}

	// Somente uma consulta bem sucedida e vazia leva aos dados de demonstração
	if view.Summary.Dials == 0 && len(view.Leaderboard) == 0 {
		logger.WithField("demo_reason", demoReasonEmpty).Info("dashboard: tenant sem dados no período, usando dados de demonstração")
		s.metrics.DashboardServed(metrics.DashboardOutcomeDemo, time.Since(startedAt))
		return demo.view(current), nil
	}

	s.metrics.DashboardServed(metrics.DashboardOutcomeReal, time.Since(startedAt))
	return view, nil
}

func (s *Service) assemble(ctx context.Context, tenantID string, current, previous period) (*domain.DashboardView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var (
		currentResult  *aggregating.Result
		previousResult *aggregating.Result
		deals          []domain.ClosedDeal
		actors         map[string]domain.Actor
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		result, err := s.aggregator.Aggregate(groupCtx, tenantID, current.start, current.end)
		if err != nil {
			return errors.Wrap(err, "erro ao agregar o período atual")
		}
		currentResult = result
		return nil
	})

	group.Go(func() error {
		result, err := s.aggregator.Aggregate(groupCtx, tenantID, previous.start, previous.end)
		if err != nil {
			return errors.Wrap(err, "erro ao agregar o período anterior")
		}
		previousResult = result
		return nil
	})

	group.Go(func() error {
		result, err := s.closedDeals.ListClosedWon(groupCtx, tenantID, current.start, current.end)
		if err != nil {
			return errors.Wrap(err, "erro ao buscar negócios fechados")
		}
		deals = result
		return nil
	})

	group.Go(func() error {
		result, err := s.directory.ListActors(groupCtx, tenantID)
		if err != nil {
			return errors.Wrap(err, "erro ao buscar diretório de vendedores")
		}
		actors = result
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, unavailableOnTimeout(err, tenantID)
	}

	summary := currentResult.Summary
	summary.DealsWon = int64(len(deals))
	summary.RevenueWon = sumDeals(deals)
	summary.CalculateRates()

	return &domain.DashboardView{
		Summary:     summary,
		Trends:      aggregating.CalculateTrends(currentResult.Summary, previousResult.Summary),
		DailySeries: currentResult.DailySeries,
		Leaderboard: ranking.BuildLeaderboard(currentResult.PerActor, actors, deals),
		IsDemo:      false,
		PeriodDays:  current.days,
		PeriodStart: current.start,
		PeriodEnd:   current.end,
	}, nil
}

// unavailableOnTimeout tipa estouros de prazo que chegam crus do store
func unavailableOnTimeout(err error, tenantID string) error {
	var metricsErr *domain.MetricsError
	if errors.As(err, &metricsErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.NewMetricsError(domain.ErrUnavailable, apiErrors.ErrCommunication, tenantID, err.Error())
	}
	return err
}

func sumDeals(deals []domain.ClosedDeal) decimal.Decimal {
	total := decimal.Zero
	for _, deal := range deals {
		total = total.Add(deal.DealValue)
	}
	return total
}
