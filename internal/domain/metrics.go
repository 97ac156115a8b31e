// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricKey identifica um registro diário: um por (tenant, dia, vendedor)
type MetricKey struct {
	TenantID string
	Date     time.Time // Dia civil no fuso de relatório, meia-noite
	ActorID  string
}

// DateString retorna o dia da chave no formato YYYY-MM-DD
func (k MetricKey) DateString() string {
	return k.Date.Format(time.DateOnly)
}

// Counters são os contadores brutos de um dia. Também servem como delta parcial:
// campos zerados não são tocados no incremento.
type Counters struct {
	Dials            int64           `json:"dials"`
	Connects         int64           `json:"connects"`
	MeetingsHeld     int64           `json:"meetings_held"`
	TalkTimeSeconds  int64           `json:"talk_time_seconds"`
	RevenueGenerated decimal.Decimal `json:"revenue_generated"`
	LeadsCreated     int64           `json:"leads_created"`
}

// IsEmpty indica que o delta não altera nenhum contador
func (c Counters) IsEmpty() bool {
	return c.Dials == 0 &&
		c.Connects == 0 &&
		c.MeetingsHeld == 0 &&
		c.TalkTimeSeconds == 0 &&
		c.RevenueGenerated.IsZero() &&
		c.LeadsCreated == 0
}

// Add soma campo a campo
func (c Counters) Add(other Counters) Counters {
	return Counters{
		Dials:            c.Dials + other.Dials,
		Connects:         c.Connects + other.Connects,
		MeetingsHeld:     c.MeetingsHeld + other.MeetingsHeld,
		TalkTimeSeconds:  c.TalkTimeSeconds + other.TalkTimeSeconds,
		RevenueGenerated: c.RevenueGenerated.Add(other.RevenueGenerated),
		LeadsCreated:     c.LeadsCreated + other.LeadsCreated,
	}
}

// DailyMetricRecord representa uma linha da tabela daily_metrics
type DailyMetricRecord struct {
	ID       int64     `json:"id"`
	TenantID string    `json:"tenant_id"`
	Date     time.Time `json:"date"`
	ActorID  string    `json:"actor_id"`
	Counters
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PeriodAggregate é a soma dos registros de um período mais as taxas derivadas.
// DealsWon e RevenueWon vêm da fonte de negócios fechados, não dos contadores.
type PeriodAggregate struct {
	Counters
	DealsWon    int64           `json:"deals_won"`
	RevenueWon  decimal.Decimal `json:"revenue_won"`
	ConnectRate float64         `json:"connect_rate"`
	MeetingRate float64         `json:"meeting_rate"`
	CloseRate   float64         `json:"close_rate"`
}

// CalculateRates recalcula as taxas derivadas; denominador zero resulta em 0
func (a *PeriodAggregate) CalculateRates() {
	a.ConnectRate = ratio(a.Connects, a.Dials)
	a.MeetingRate = ratio(a.MeetingsHeld, a.Connects)
	a.CloseRate = ratio(a.DealsWon, a.MeetingsHeld)
}

// DayPoint é um ponto da série diária (somado entre vendedores)
type DayPoint struct {
	Date string `json:"date"`
	Counters
}

// ActorAggregate são os contadores de um vendedor somados no período
type ActorAggregate struct {
	ActorID string
	Counters
}

func ratio(numerator, denominator int64) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}
