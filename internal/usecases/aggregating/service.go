// Package aggregating implementa o Range Aggregator e o Trend Calculator
package aggregating

import (
	"context"
	"time"

	"github.com/vfg2006/sales-metrics-api/infrastructure/repository"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/pkg/log"
	"github.com/vfg2006/sales-metrics-api/pkg/utils"
)

// Result é o resultado da agregação de um intervalo de dias
type Result struct {
	Summary     domain.PeriodAggregate
	DailySeries []domain.DayPoint
	// PerActor segue a ordem em que cada vendedor aparece nos registros (data, vendedor)
	PerActor []domain.ActorAggregate
}

type Aggregator interface {
	Aggregate(ctx context.Context, tenantID string, startDate, endDate time.Time) (*Result, error)
}

type Service struct {
	repo repository.DailyMetricRepository
}

func NewService(repo repository.DailyMetricRepository) Aggregator {
	return &Service{
		repo: repo,
	}
}

// Aggregate busca os registros do tenant entre startDate e endDate (inclusive) e
// os consolida em um resumo, uma série diária sem lacunas e um total por vendedor
func (s *Service) Aggregate(ctx context.Context, tenantID string, startDate, endDate time.Time) (*Result, error) {
	if endDate.Before(startDate) {
		return nil, domain.InvalidInputf("intervalo inválido: %s > %s",
			startDate.Format(time.DateOnly), endDate.Format(time.DateOnly))
	}

	records, err := s.repo.ListByDateRange(ctx, tenantID, startDate, endDate)
	if err != nil {
		log.ForContext(ctx).WithFields(log.Fields{
			"tenant_id":  tenantID,
			"start_date": startDate.Format(time.DateOnly),
			"end_date":   endDate.Format(time.DateOnly),
		}).WithError(err).Error("aggregator: erro ao buscar métricas diárias")
		return nil, err
	}

	return Fold(records, startDate, endDate), nil
}

// Fold consolida registros já carregados. Registros fora do intervalo são ignorados.
func Fold(records []*domain.DailyMetricRecord, startDate, endDate time.Time) *Result {
	dates := utils.GenerateDateRange(startDate, endDate)

	byDate := make(map[string]domain.Counters, len(dates))
	for _, d := range dates {
		byDate[d.Format(time.DateOnly)] = domain.Counters{}
	}

	result := &Result{}
	actorIndex := make(map[string]int)

	for _, record := range records {
		date := record.Date.Format(time.DateOnly)
		dayTotal, inRange := byDate[date]
		if !inRange {
			continue
		}

		byDate[date] = dayTotal.Add(record.Counters)
		result.Summary.Counters = result.Summary.Counters.Add(record.Counters)

		idx, seen := actorIndex[record.ActorID]
		if !seen {
			idx = len(result.PerActor)
			actorIndex[record.ActorID] = idx
			result.PerActor = append(result.PerActor, domain.ActorAggregate{ActorID: record.ActorID})
		}
		result.PerActor[idx].Counters = result.PerActor[idx].Counters.Add(record.Counters)
	}

	result.DailySeries = make([]domain.DayPoint, 0, len(dates))
	for _, d := range dates {
		date := d.Format(time.DateOnly)
		result.DailySeries = append(result.DailySeries, domain.DayPoint{
			Date:     date,
			Counters: byDate[date],
		})
	}

	result.Summary.CalculateRates()

	return result
}
