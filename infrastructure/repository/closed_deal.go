package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

const (
	leadsTable    = "leads l"
	leadStatusWon = "closed_won"
)

//go:generate mockgen -source=closed_deal.go -destination=mocks/mock_closed_deal.go -package=mocks

// ClosedDealRepository é a fonte somente leitura de negócios fechados (módulo de leads)
type ClosedDealRepository interface {
	ListClosedWon(ctx context.Context, tenantID string, from, to time.Time) ([]domain.ClosedDeal, error)
}

type closedDealRepository struct {
	conn *postgres.Connection
}

func NewClosedDealRepository(conn *postgres.Connection) ClosedDealRepository {
	return &closedDealRepository{
		conn: conn,
	}
}

// ListClosedWon retorna os leads closed-won cuja última atualização está no intervalo
func (r *closedDealRepository) ListClosedWon(ctx context.Context, tenantID string, from, to time.Time) ([]domain.ClosedDeal, error) {
	query, args, err := squirrel.
		Select("l.owner_id", "COALESCE(l.deal_value, 0)").
		From(leadsTable).
		Where(squirrel.Eq{"l.tenant_id": tenantID, "l.status": leadStatusWon}).
		Where(squirrel.GtOrEq{"l.updated_at": from}).
		Where(squirrel.LtOrEq{"l.updated_at": to}).
		OrderBy("l.updated_at ASC", "l.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.TranslateError(err, "erro ao buscar negócios fechados")
	}
	defer rows.Close()

	deals := make([]domain.ClosedDeal, 0)
	for rows.Next() {
		var deal domain.ClosedDeal
		var ownerID sql.NullString
		if err := rows.Scan(&ownerID, &deal.DealValue); err != nil {
			return nil, fmt.Errorf("erro ao escanear negócio fechado: %w", err)
		}

		// Lead sem responsável conta no resumo com ActorID vazio; o leaderboard o ignora
		deal.ActorID = ownerID.String
		deals = append(deals, deal)
	}

	if err = rows.Err(); err != nil {
		return nil, postgres.TranslateError(err, "erro durante a iteração de linhas")
	}

	return deals, nil
}
