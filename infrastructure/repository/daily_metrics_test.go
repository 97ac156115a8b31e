package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

// fakeDB registra os comandos executados e responde com as linhas afetadas configuradas
type fakeDB struct {
	executed    []string
	args        [][]driver.NamedValue
	appliedRows int64
	upsertErr   error
	columns     []string
	rows        [][]driver.Value
	commits     int
	rollbacks   int
}

func (f *fakeDB) Connect(context.Context) (driver.Conn, error) { return &fakeDBConn{f}, nil }
func (f *fakeDB) Driver() driver.Driver                        { return nil }

type fakeDBConn struct{ db *fakeDB }

func (c *fakeDBConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("não suportado") }
func (c *fakeDBConn) Close() error                        { return nil }
func (c *fakeDBConn) Begin() (driver.Tx, error)           { return c, nil }

func (c *fakeDBConn) Commit() error {
	c.db.commits++
	return nil
}

func (c *fakeDBConn) Rollback() error {
	c.db.rollbacks++
	return nil
}

func (c *fakeDBConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.db.executed = append(c.db.executed, query)
	c.db.args = append(c.db.args, args)

	if strings.Contains(query, "applied_events") {
		return driver.RowsAffected(c.db.appliedRows), nil
	}
	if c.db.upsertErr != nil {
		return nil, c.db.upsertErr
	}
	return driver.RowsAffected(1), nil
}

func (c *fakeDBConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.db.executed = append(c.db.executed, query)
	c.db.args = append(c.db.args, args)
	return &fakeRows{columns: c.db.columns, values: c.db.rows}, nil
}

type fakeRows struct {
	columns []string
	values  [][]driver.Value
	next    int
}

func (r *fakeRows) Columns() []string { return r.columns }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.next >= len(r.values) {
		return io.EOF
	}
	copy(dest, r.values[r.next])
	r.next++
	return nil
}

func newFakeRepository(t *testing.T, db *fakeDB) DailyMetricRepository {
	t.Helper()

	sqlDB := sql.OpenDB(db)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewDailyMetricRepository(&postgres.Connection{DB: sqlDB})
}

var testKey = domain.MetricKey{
	TenantID: "tenant-1",
	Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	ActorID:  "actor-1",
}

func TestCounterUpsert(t *testing.T) {
	tests := []struct {
		name       string
		delta      domain.Counters
		present    []string
		absent     []string
		wantValues []any
	}{
		{
			name:       "Apenas ligações",
			delta:      domain.Counters{Dials: 3},
			present:    []string{"dials = daily_metrics.dials + EXCLUDED.dials"},
			absent:     []string{"revenue_generated", "connects", "talk_time_seconds", "leads_created"},
			wantValues: []any{"tenant-1", "2025-03-10", "actor-1", int64(3)},
		},
		{
			name:  "Receita e lead",
			delta: domain.Counters{RevenueGenerated: decimal.RequireFromString("150.25"), LeadsCreated: 1},
			present: []string{
				"revenue_generated = daily_metrics.revenue_generated + EXCLUDED.revenue_generated",
				"leads_created = daily_metrics.leads_created + EXCLUDED.leads_created",
			},
			absent:     []string{"dials", "connects", "meetings_held"},
			wantValues: []any{"tenant-1", "2025-03-10", "actor-1", decimal.RequireFromString("150.25"), int64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := counterUpsert(testKey, tt.delta)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(query, "INSERT INTO daily_metrics"))
			assert.Contains(t, query, "ON CONFLICT (tenant_id, date, actor_id) DO UPDATE SET")
			assert.Contains(t, query, "version = daily_metrics.version + 1")
			for _, fragment := range tt.present {
				assert.Contains(t, query, fragment)
			}
			for _, fragment := range tt.absent {
				assert.NotContains(t, query, fragment)
			}
			assert.Equal(t, tt.wantValues, args)
		})
	}
}

func TestAppliedEventInsert(t *testing.T) {
	query, args, err := appliedEventInsert(testKey, "evt-1")
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO applied_events")
	assert.Contains(t, query, "ON CONFLICT (tenant_id, date, actor_id, event_id) DO NOTHING")
	assert.Equal(t, []any{"tenant-1", "2025-03-10", "actor-1", "evt-1"}, args)
}

func TestDailyMetricRepository_ApplyDelta(t *testing.T) {
	t.Run("Evento novo grava o id e incrementa", func(t *testing.T) {
		db := &fakeDB{appliedRows: 1}
		repo := newFakeRepository(t, db)

		err := repo.ApplyDelta(context.Background(), testKey, domain.Counters{Dials: 1}, "evt-1")

		require.NoError(t, err)
		require.Len(t, db.executed, 2)
		assert.Contains(t, db.executed[0], "applied_events")
		assert.Contains(t, db.executed[1], "daily_metrics")
		assert.Equal(t, 1, db.commits)
	})

	t.Run("Evento repetido não toca os contadores", func(t *testing.T) {
		db := &fakeDB{appliedRows: 0}
		repo := newFakeRepository(t, db)

		err := repo.ApplyDelta(context.Background(), testKey, domain.Counters{Dials: 1}, "evt-1")

		assert.ErrorIs(t, err, domain.ErrDuplicateEvent)
		assert.Len(t, db.executed, 1)
		assert.Equal(t, 0, db.commits)
		assert.Equal(t, 1, db.rollbacks)
	})

	t.Run("Sem id de evento vai direto ao incremento", func(t *testing.T) {
		db := &fakeDB{}
		repo := newFakeRepository(t, db)

		err := repo.ApplyDelta(context.Background(), testKey, domain.Counters{MeetingsHeld: 1}, "")

		require.NoError(t, err)
		require.Len(t, db.executed, 1)
		assert.Contains(t, db.executed[0], "meetings_held")
	})

	t.Run("Valor fora do intervalo vira entrada inválida", func(t *testing.T) {
		db := &fakeDB{upsertErr: &pq.Error{Code: "22003"}}
		repo := newFakeRepository(t, db)

		err := repo.ApplyDelta(context.Background(), testKey, domain.Counters{Dials: 1}, "")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, 1, db.rollbacks)
	})
}
