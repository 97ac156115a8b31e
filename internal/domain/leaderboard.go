package domain

import "github.com/shopspring/decimal"

type Badge string

const (
	BadgeMVP     Badge = "MVP"
	BadgeTopGun  Badge = "Top Gun"
	BadgeCloser  Badge = "Closer"
	BadgeHustler Badge = "Hustler"
)

type LeaderboardEntry struct {
	ActorID           string          `json:"actor_id"`
	DisplayName       string          `json:"display_name"`
	AvatarURL         *string         `json:"avatar_url,omitempty"`
	Dials             int64           `json:"dials"`
	Connects          int64           `json:"connects"`
	Meetings          int64           `json:"meetings"`
	PipelineGenerated decimal.Decimal `json:"pipeline_generated"`
	RevenueWon        decimal.Decimal `json:"revenue_won"`
	ConnectRate       float64         `json:"connect_rate"`
	Rank              int             `json:"rank"`
	Badges            []Badge         `json:"badges"`
}

// HasBadge verifica se a entrada recebeu o selo
func (e *LeaderboardEntry) HasBadge(badge Badge) bool {
	for _, b := range e.Badges {
		if b == badge {
			return true
		}
	}
	return false
}
