package recording

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

// Resultados de ligação que contam como conexão
var connectOutcomes = map[domain.Outcome]bool{
	domain.OutcomeConnected:  true,
	domain.OutcomeMeetingSet: true,
	domain.OutcomeQualified:  true,
}

// Resultados de reunião que atribuem o valor do negócio ao pipeline
var pipelineOutcomes = map[domain.Outcome]bool{
	domain.OutcomeQualified:    true,
	domain.OutcomeContractSent: true,
	domain.OutcomeClosedWon:    true,
}

// ActivityDelta traduz uma atividade no delta de contadores correspondente.
// E-mails não alteram contadores e resultam em delta vazio.
func ActivityDelta(activity domain.Activity) (domain.Counters, error) {
	if !activity.Type.IsValid() {
		return domain.Counters{}, domain.InvalidInputf("tipo de atividade desconhecido: %q", activity.Type)
	}

	if activity.DurationSeconds != nil && *activity.DurationSeconds < 0 {
		return domain.Counters{}, domain.InvalidInputf("duração negativa: %d", *activity.DurationSeconds)
	}

	var dealValue decimal.Decimal
	if activity.DealValue != nil {
		value, err := moneyFromFloat(*activity.DealValue, "deal_value")
		if err != nil {
			return domain.Counters{}, err
		}
		dealValue = value
	}

	delta := domain.Counters{}

	switch activity.Type {
	case domain.ActivityTypeCall:
		delta.Dials = 1
		if connectOutcomes[activity.Outcome] {
			delta.Connects = 1
		}
		if activity.Outcome == domain.OutcomeMeetingSet {
			delta.MeetingsHeld = 1
		}
		if activity.DurationSeconds != nil {
			delta.TalkTimeSeconds = *activity.DurationSeconds
		}

	case domain.ActivityTypeMeeting:
		delta.MeetingsHeld = 1
		if pipelineOutcomes[activity.Outcome] && activity.DealValue != nil {
			delta.RevenueGenerated = dealValue
		}

	case domain.ActivityTypeEmail:
		// Registrado fora do motor de métricas
	}

	return delta, nil
}

// LeadDelta traduz a criação de um lead; valor ausente conta como zero
func LeadDelta(lead domain.LeadCreated) (domain.Counters, error) {
	delta := domain.Counters{LeadsCreated: 1}

	if lead.LeadValue != nil {
		value, err := moneyFromFloat(*lead.LeadValue, "lead_value")
		if err != nil {
			return domain.Counters{}, err
		}
		delta.RevenueGenerated = value
	}

	return delta, nil
}

// Valores monetários seguem a coluna NUMERIC(18,2)
const moneyScale = 2

var maxMoney = decimal.New(1, 18-moneyScale)

func moneyFromFloat(value float64, field string) (decimal.Decimal, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Decimal{}, domain.InvalidInputf("%s não é um número finito", field)
	}
	if value < 0 {
		return decimal.Decimal{}, domain.InvalidInputf("%s negativo: %v", field, value)
	}

	money := decimal.NewFromFloat(value)
	if money.Exponent() < -moneyScale {
		return decimal.Decimal{}, domain.InvalidInputf("%s com mais de %d casas decimais: %v", field, moneyScale, value)
	}
	if money.GreaterThanOrEqual(maxMoney) {
		return decimal.Decimal{}, domain.InvalidInputf("%s acima do limite: %v", field, value)
	}
	return money, nil
}
