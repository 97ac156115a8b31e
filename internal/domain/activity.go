package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ActivityType string

const (
	ActivityTypeCall    ActivityType = "call"
	ActivityTypeMeeting ActivityType = "meeting"
	ActivityTypeEmail   ActivityType = "email"
)

// IsValid verifica se o tipo de atividade é conhecido
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityTypeCall, ActivityTypeMeeting, ActivityTypeEmail:
		return true
	}
	return false
}

type Outcome string

const (
	OutcomeConnected    Outcome = "connected"
	OutcomeMeetingSet   Outcome = "meeting_set"
	OutcomeQualified    Outcome = "qualified"
	OutcomeContractSent Outcome = "contract_sent"
	OutcomeClosedWon    Outcome = "closed_won"
	OutcomeNoAnswer     Outcome = "no_answer"
	OutcomeVoicemail    Outcome = "voicemail"
)

// Activity é o evento enviado pelo módulo de CRM a cada atividade registrada
type Activity struct {
	ID              string       `json:"id,omitempty"`
	Type            ActivityType `json:"type"`
	Outcome         Outcome      `json:"outcome"`
	LeadID          string       `json:"lead_id"`
	ActorID         string       `json:"actor_id"`
	Timestamp       time.Time    `json:"timestamp"`
	DurationSeconds *int64       `json:"duration_seconds,omitempty"`
	DealValue       *float64     `json:"deal_value,omitempty"`
}

// LeadCreated é o evento de criação de um novo lead
type LeadCreated struct {
	ID        string    `json:"id,omitempty"`
	ActorID   string    `json:"actor_id"`
	LeadValue *float64  `json:"lead_value,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ClosedDeal é um lead com status closed-won no período consultado
type ClosedDeal struct {
	ActorID   string          `json:"actor_id"`
	DealValue decimal.Decimal `json:"deal_value"`
}

// Actor é a entrada do diretório de vendedores usada no leaderboard
type Actor struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}
