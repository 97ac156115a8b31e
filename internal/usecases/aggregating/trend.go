package aggregating

import (
	"math"

	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

// Trend retorna a variação percentual inteira de current sobre previous.
// Com base zero: 100 se houve atividade nova, 0 caso contrário.
func Trend(current, previous float64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}

	change := (current - previous) / previous * 100

	// Meio arredonda para cima
	return int(math.Floor(change + 0.5))
}

// CalculateTrends aplica Trend a cada indicador acompanhado no dashboard
func CalculateTrends(current, previous domain.PeriodAggregate) domain.Trends {
	return domain.Trends{
		Dials:    Trend(float64(current.Dials), float64(previous.Dials)),
		Connects: Trend(float64(current.Connects), float64(previous.Connects)),
		Meetings: Trend(float64(current.MeetingsHeld), float64(previous.MeetingsHeld)),
		Pipeline: Trend(current.RevenueGenerated.InexactFloat64(), previous.RevenueGenerated.InexactFloat64()),
	}
}
