// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

const (
	dailyMetricsTable  = "daily_metrics dm"
	appliedEventsTable = "applied_events"
)

//go:generate mockgen -source=daily_metrics.go -destination=mocks/mock_daily_metrics.go -package=mocks

// DailyMetricRepository é o Counter Store: dono exclusivo dos registros diários
type DailyMetricRepository interface {
	// ApplyDelta incrementa atomicamente os campos presentes no delta para a chave.
	// Com eventID não vazio, um id já aplicado para a chave resulta em domain.ErrDuplicateEvent.
	ApplyDelta(ctx context.Context, key domain.MetricKey, delta domain.Counters, eventID string) error
	ListByDateRange(ctx context.Context, tenantID string, startDate, endDate time.Time) ([]*domain.DailyMetricRecord, error)
	DeleteAppliedEventsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type dailyMetricRepository struct {
	conn *postgres.Connection
}

func NewDailyMetricRepository(conn *postgres.Connection) DailyMetricRepository {
	return &dailyMetricRepository{
		conn: conn,
	}
}

func (r *dailyMetricRepository) ApplyDelta(ctx context.Context, key domain.MetricKey, delta domain.Counters, eventID string) error {
	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if eventID != "" {
			recorded, err := r.recordAppliedEvent(ctx, tx, key, eventID)
			if err != nil {
				return err
			}
			if !recorded {
				return domain.ErrDuplicateEvent
			}
		}

		return r.upsertCounters(ctx, tx, key, delta)
	})
	if errors.Is(err, domain.ErrDuplicateEvent) {
		return err
	}

	return postgres.TranslateError(err, "erro ao aplicar delta de métricas")
}

// recordAppliedEvent grava o id do evento junto da chave; false se já existia
func (r *dailyMetricRepository) recordAppliedEvent(ctx context.Context, tx *sql.Tx, key domain.MetricKey, eventID string) (bool, error) {
	query, args, err := appliedEventInsert(key, eventID)
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected > 0, nil
}

func appliedEventInsert(key domain.MetricKey, eventID string) (string, []any, error) {
	return squirrel.StatementBuilder.
		Insert(appliedEventsTable).
		Columns("tenant_id", "date", "actor_id", "event_id").
		Values(key.TenantID, key.DateString(), key.ActorID, eventID).
		Suffix("ON CONFLICT (tenant_id, date, actor_id, event_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// upsertCounters cria o registro com o delta como valor inicial ou incrementa
// apenas os campos presentes, sem regravar o registro inteiro
func (r *dailyMetricRepository) upsertCounters(ctx context.Context, tx *sql.Tx, key domain.MetricKey, delta domain.Counters) error {
	query, args, err := counterUpsert(key, delta)
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

func counterUpsert(key domain.MetricKey, delta domain.Counters) (string, []any, error) {
	columns := []string{"tenant_id", "date", "actor_id"}
	values := []any{key.TenantID, key.DateString(), key.ActorID}
	updates := make([]string, 0, 8)

	for _, field := range deltaColumns(delta) {
		columns = append(columns, field.column)
		values = append(values, field.value)
		updates = append(updates, fmt.Sprintf("%[1]s = daily_metrics.%[1]s + EXCLUDED.%[1]s", field.column))
	}

	updates = append(updates, "version = daily_metrics.version + 1", "updated_at = NOW()")

	return squirrel.StatementBuilder.
		Insert("daily_metrics").
		Columns(columns...).
		Values(values...).
		Suffix("ON CONFLICT (tenant_id, date, actor_id) DO UPDATE SET " + strings.Join(updates, ", ")).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

type deltaColumn struct {
	column string
	value  any
}

// deltaColumns lista somente os campos com incremento diferente de zero
func deltaColumns(delta domain.Counters) []deltaColumn {
	columns := make([]deltaColumn, 0, 6)

	if delta.Dials != 0 {
		columns = append(columns, deltaColumn{"dials", delta.Dials})
	}
	if delta.Connects != 0 {
		columns = append(columns, deltaColumn{"connects", delta.Connects})
	}
	if delta.MeetingsHeld != 0 {
		columns = append(columns, deltaColumn{"meetings_held", delta.MeetingsHeld})
	}
	if delta.TalkTimeSeconds != 0 {
		columns = append(columns, deltaColumn{"talk_time_seconds", delta.TalkTimeSeconds})
	}
	if !delta.RevenueGenerated.IsZero() {
		columns = append(columns, deltaColumn{"revenue_generated", delta.RevenueGenerated})
	}
	if delta.LeadsCreated != 0 {
		columns = append(columns, deltaColumn{"leads_created", delta.LeadsCreated})
	}

	return columns
}

func (r *dailyMetricRepository) ListByDateRange(ctx context.Context, tenantID string, startDate, endDate time.Time) ([]*domain.DailyMetricRecord, error) {
	query, args, err := squirrel.
		Select(
			"dm.id",
			"dm.tenant_id",
			"dm.date",
			"dm.actor_id",
			"dm.dials",
			"dm.connects",
			"dm.meetings_held",
			"dm.talk_time_seconds",
			"dm.revenue_generated",
			"dm.leads_created",
			"dm.version",
			"dm.created_at",
			"dm.updated_at",
		).
		From(dailyMetricsTable).
		Where(squirrel.Eq{"dm.tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"dm.date": startDate.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"dm.date": endDate.Format(time.DateOnly)}).
		OrderBy("dm.date ASC", "dm.actor_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.TranslateError(err, "erro ao executar a query de métricas diárias")
	}
	defer rows.Close()

	records := make([]*domain.DailyMetricRecord, 0)
	for rows.Next() {
		record, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear métrica diária: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, postgres.TranslateError(err, "erro durante a iteração de linhas")
	}

	return records, nil
}

func (r *dailyMetricRepository) DeleteAppliedEventsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := squirrel.
		Delete(appliedEventsTable).
		Where(squirrel.Lt{"applied_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.TranslateError(err, "erro ao remover eventos aplicados")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

func (r *dailyMetricRepository) scanRecord(rows *sql.Rows) (*domain.DailyMetricRecord, error) {
	record := &domain.DailyMetricRecord{}

	err := rows.Scan(
		&record.ID,
		&record.TenantID,
		&record.Date,
		&record.ActorID,
		&record.Dials,
		&record.Connects,
		&record.MeetingsHeld,
		&record.TalkTimeSeconds,
		&record.RevenueGenerated,
		&record.LeadsCreated,
		&record.Version,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return record, nil
}
