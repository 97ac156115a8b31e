package domain

import "time"

// AvailablePeriodDays são os tamanhos de período aceitos pelo dashboard
var AvailablePeriodDays = []int{7, 14, 30, 90}

// IsValidPeriodDays verifica se o período solicitado é suportado
func IsValidPeriodDays(days int) bool {
	for _, d := range AvailablePeriodDays {
		if d == days {
			return true
		}
	}
	return false
}

// Trends são as variações percentuais em relação ao período anterior
type Trends struct {
	Dials    int `json:"dials"`
	Connects int `json:"connects"`
	Meetings int `json:"meetings"`
	Pipeline int `json:"pipeline"`
}

type DashboardView struct {
	Summary     PeriodAggregate    `json:"summary"`
	Trends      Trends             `json:"trends"`
	DailySeries []DayPoint         `json:"daily_series"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	IsDemo      bool               `json:"is_demo"`
	PeriodDays  int                `json:"period_days"`
	PeriodStart time.Time          `json:"period_start"`
	PeriodEnd   time.Time          `json:"period_end"`
}
