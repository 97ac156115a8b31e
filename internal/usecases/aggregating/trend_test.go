package aggregating

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

func TestTrend(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		expected int
	}{
		{name: "Sem atividade nos dois períodos", current: 0, previous: 0, expected: 0},
		{name: "Atividade nova sobre base zero", current: 5, previous: 0, expected: 100},
		{name: "Atividade zerada", current: 0, previous: 5, expected: -100},
		{name: "Crescimento de 50%", current: 150, previous: 100, expected: 50},
		{name: "Queda de 25%", current: 75, previous: 100, expected: -25},
		{name: "Sem variação", current: 42, previous: 42, expected: 0},
		{name: "Arredonda a dízima para baixo", current: 4, previous: 3, expected: 33},
		{name: "Arredonda a dízima para cima", current: 5, previous: 3, expected: 67},
		{name: "Meio positivo arredonda para cima", current: 13, previous: 8, expected: 63},
		{name: "Meio negativo arredonda para cima", current: 3, previous: 8, expected: -62},
		{name: "Crescimento acima de 100%", current: 30, previous: 10, expected: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Trend(tt.current, tt.previous))
		})
	}
}

func TestCalculateTrends(t *testing.T) {
	current := domain.PeriodAggregate{
		Counters: domain.Counters{
			Dials:            150,
			Connects:         10,
			MeetingsHeld:     0,
			RevenueGenerated: decimal.NewFromInt(3000),
		},
	}
	previous := domain.PeriodAggregate{
		Counters: domain.Counters{
			Dials:            100,
			Connects:         0,
			MeetingsHeld:     4,
			RevenueGenerated: decimal.NewFromInt(2000),
		},
	}

	trends := CalculateTrends(current, previous)

	assert.Equal(t, domain.Trends{Dials: 50, Connects: 100, Meetings: -100, Pipeline: 50}, trends)
}
