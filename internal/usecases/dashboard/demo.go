package dashboard

import (
	_ "embed"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-metrics-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed demo_dashboard.json
var demoDashboardJSON []byte

type demoActor struct {
	ID           string            `json:"id"`
	DisplayName  string            `json:"display_name"`
	DailyPattern []domain.Counters `json:"daily_pattern"`
	// WonPattern traz o valor fechado por dia do padrão; "0" é dia sem negócio
	WonPattern []decimal.Decimal `json:"won_pattern"`
}

type demoDataset struct {
	Trends domain.Trends `json:"trends"`
	Actors []demoActor   `json:"actors"`

	patternDays int
	directory   map[string]domain.Actor
}

// demo é carregado uma única vez e nunca é alterado; as respostas são montadas do zero
var demo = mustLoadDemo(demoDashboardJSON)

func mustLoadDemo(raw []byte) *demoDataset {
	dataset, err := loadDemo(raw)
	if err != nil {
		panic(fmt.Sprintf("dataset de demonstração inválido: %v", err))
	}
	return dataset
}

func loadDemo(raw []byte) (*demoDataset, error) {
	dataset := &demoDataset{}
	if err := json.Unmarshal(raw, dataset); err != nil {
		return nil, err
	}

	if len(dataset.Actors) == 0 {
		return nil, fmt.Errorf("nenhum vendedor de demonstração")
	}

	dataset.patternDays = len(dataset.Actors[0].DailyPattern)
	if dataset.patternDays == 0 {
		return nil, fmt.Errorf("daily_pattern vazio")
	}

	dataset.directory = make(map[string]domain.Actor, len(dataset.Actors))
	for _, actor := range dataset.Actors {
		if len(actor.DailyPattern) != dataset.patternDays || len(actor.WonPattern) != dataset.patternDays {
			return nil, fmt.Errorf("vendedor %s: padrões devem ter %d dias", actor.ID, dataset.patternDays)
		}
		dataset.directory[actor.ID] = domain.Actor{ID: actor.ID, DisplayName: actor.DisplayName}
	}

	return dataset, nil
}

// view monta uma resposta de demonstração para o período. Cada vendedor repete
// o seu padrão diário sobre as datas do período e o resultado passa pela mesma
// consolidação dos dados reais.
func (d *demoDataset) view(p period) *domain.DashboardView {
	dates := utils.GenerateDateRange(p.start, p.end)

	records := make([]*domain.DailyMetricRecord, 0, len(dates)*len(d.Actors))
	deals := make([]domain.ClosedDeal, 0)

	for i, date := range dates {
		day := i % d.patternDays
		for _, actor := range d.Actors {
			records = append(records, &domain.DailyMetricRecord{
				Date:     date,
				ActorID:  actor.ID,
				Counters: actor.DailyPattern[day],
			})
			if won := actor.WonPattern[day]; won.IsPositive() {
				deals = append(deals, domain.ClosedDeal{ActorID: actor.ID, DealValue: won})
			}
		}
	}

	result := aggregating.Fold(records, p.start, p.end)

	summary := result.Summary
	summary.DealsWon = int64(len(deals))
	summary.RevenueWon = sumDeals(deals)
	summary.CalculateRates()

	return &domain.DashboardView{
		Summary:     summary,
		Trends:      d.Trends,
		DailySeries: result.DailySeries,
		Leaderboard: ranking.BuildLeaderboard(result.PerActor, d.directory, deals),
		IsDemo:      true,
		PeriodDays:  p.days,
		PeriodStart: p.start,
		PeriodEnd:   p.end,
	}
}
