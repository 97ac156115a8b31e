// Package ranking monta o leaderboard de vendedores de um período
package ranking

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

// Limites dos selos. São fixos: os fixtures existentes dependem deles.
const (
	topGunMinDials       = 50
	closerMinMeetings    = 5
	closerMinConnectRate = 0.12
	hustlerMinDials      = 200
)

// BuildLeaderboard ordena os vendedores por receita ganha e, em empate, por
// pipeline gerado. Empates nas duas chaves mantêm a ordem de chegada.
// Vendedores sem nenhuma atividade no período e negócios sem responsável ficam de fora.
func BuildLeaderboard(
	perActor []domain.ActorAggregate,
	directory map[string]domain.Actor,
	closedDeals []domain.ClosedDeal,
) []domain.LeaderboardEntry {
	revenueWon := make(map[string]decimal.Decimal)
	dealOrder := make([]string, 0)
	for _, deal := range closedDeals {
		if deal.ActorID == "" {
			continue
		}
		current, exists := revenueWon[deal.ActorID]
		if !exists {
			dealOrder = append(dealOrder, deal.ActorID)
		}
		revenueWon[deal.ActorID] = current.Add(deal.DealValue)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(perActor))
	seen := make(map[string]bool, len(perActor))

	for _, actor := range perActor {
		if seen[actor.ActorID] {
			continue
		}
		seen[actor.ActorID] = true

		won := revenueWon[actor.ActorID]
		if actor.Counters.IsEmpty() && !won.IsPositive() {
			continue
		}
		entries = append(entries, newEntry(actor.ActorID, actor.Counters, won, directory))
	}

	// Vendedores que só fecharam negócios, sem contadores no período
	for _, actorID := range dealOrder {
		if seen[actorID] {
			continue
		}
		seen[actorID] = true

		won := revenueWon[actorID]
		if !won.IsPositive() {
			continue
		}
		entries = append(entries, newEntry(actorID, domain.Counters{}, won, directory))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if cmp := entries[i].RevenueWon.Cmp(entries[j].RevenueWon); cmp != 0 {
			return cmp > 0
		}
		return entries[i].PipelineGenerated.GreaterThan(entries[j].PipelineGenerated)
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	assignBadges(entries)

	return entries
}

func newEntry(actorID string, counters domain.Counters, revenueWon decimal.Decimal, directory map[string]domain.Actor) domain.LeaderboardEntry {
	entry := domain.LeaderboardEntry{
		ActorID:           actorID,
		DisplayName:       actorID,
		Dials:             counters.Dials,
		Connects:          counters.Connects,
		Meetings:          counters.MeetingsHeld,
		PipelineGenerated: counters.RevenueGenerated,
		RevenueWon:        revenueWon,
		Badges:            []domain.Badge{},
	}

	if actor, exists := directory[actorID]; exists {
		if actor.DisplayName != "" {
			entry.DisplayName = actor.DisplayName
		}
		entry.AvatarURL = actor.AvatarURL
	}

	if counters.Dials > 0 {
		entry.ConnectRate = float64(counters.Connects) / float64(counters.Dials)
	}

	return entry
}

// assignBadges avalia cada selo de forma independente, depois do ranking
func assignBadges(entries []domain.LeaderboardEntry) {
	if len(entries) == 0 {
		return
	}

	maxRevenue := entries[0].RevenueWon
	var maxDials int64
	for _, entry := range entries {
		if entry.RevenueWon.GreaterThan(maxRevenue) {
			maxRevenue = entry.RevenueWon
		}
		if entry.Dials > maxDials {
			maxDials = entry.Dials
		}
	}

	for i := range entries {
		entry := &entries[i]

		if maxRevenue.IsPositive() && entry.RevenueWon.Equal(maxRevenue) {
			entry.Badges = append(entry.Badges, domain.BadgeMVP)
		}
		if maxDials > topGunMinDials && entry.Dials == maxDials {
			entry.Badges = append(entry.Badges, domain.BadgeTopGun)
		}
		if entry.Meetings >= closerMinMeetings && entry.ConnectRate > closerMinConnectRate {
			entry.Badges = append(entry.Badges, domain.BadgeCloser)
		}
		if entry.Dials >= hustlerMinDials {
			entry.Badges = append(entry.Badges, domain.BadgeHustler)
		}
	}
}
