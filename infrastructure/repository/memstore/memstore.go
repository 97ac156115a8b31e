// Package memstore implementa os repositórios de métricas em memória.
// Cada chave guarda um único registro versionado; escritas usam
// compare-and-swap sobre a versão e repetem quando outra escrita venceu.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

type recordKey struct {
	tenantID string
	date     string
	actorID  string
}

func keyOf(key domain.MetricKey) recordKey {
	return recordKey{tenantID: key.TenantID, date: key.DateString(), actorID: key.ActorID}
}

type closedDeal struct {
	deal     domain.ClosedDeal
	closedAt time.Time
}

// Store guarda registros imutáveis: cada escrita publica um novo snapshot
type Store struct {
	mu      sync.RWMutex
	records map[recordKey]*domain.DailyMetricRecord
	applied map[recordKey]map[string]time.Time
	nextID  int64

	deals  map[string][]closedDeal
	actors map[string]map[string]domain.Actor

	now func() time.Time
}

func New() *Store {
	return &Store{
		records: make(map[recordKey]*domain.DailyMetricRecord),
		applied: make(map[recordKey]map[string]time.Time),
		deals:   make(map[string][]closedDeal),
		actors:  make(map[string]map[string]domain.Actor),
		now:     time.Now,
	}
}

// ApplyDelta lê o snapshot atual, calcula o próximo e só publica se a versão
// não mudou nesse meio tempo
func (s *Store) ApplyDelta(ctx context.Context, key domain.MetricKey, delta domain.Counters, eventID string) error {
	k := keyOf(key)

	for {
		if err := ctx.Err(); err != nil {
			return domain.ErrUnavailable
		}

		s.mu.RLock()
		current := s.records[k]
		s.mu.RUnlock()

		next, expectedVersion := s.nextSnapshot(key, current, delta)

		committed, err := s.compareAndSwap(k, expectedVersion, next, eventID)
		if err != nil {
			return err
		}
		if committed {
			return nil
		}
	}
}

func (s *Store) nextSnapshot(key domain.MetricKey, current *domain.DailyMetricRecord, delta domain.Counters) (*domain.DailyMetricRecord, int64) {
	now := s.now()

	// Registro ausente: o delta é o valor inicial
	if current == nil {
		return &domain.DailyMetricRecord{
			TenantID:  key.TenantID,
			Date:      key.Date,
			ActorID:   key.ActorID,
			Counters:  delta,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}, 0
	}

	next := *current
	next.Counters = current.Counters.Add(delta)
	next.Version = current.Version + 1
	next.UpdatedAt = now

	return &next, current.Version
}

func (s *Store) compareAndSwap(k recordKey, expectedVersion int64, next *domain.DailyMetricRecord, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var currentVersion int64
	if current, exists := s.records[k]; exists {
		currentVersion = current.Version
	}
	if currentVersion != expectedVersion {
		return false, nil
	}

	if eventID != "" {
		seen, exists := s.applied[k]
		if !exists {
			seen = make(map[string]time.Time)
			s.applied[k] = seen
		}
		if _, duplicate := seen[eventID]; duplicate {
			return false, domain.ErrDuplicateEvent
		}
		seen[eventID] = s.now()
	}

	if expectedVersion == 0 {
		s.nextID++
		next.ID = s.nextID
	}
	s.records[k] = next

	return true, nil
}

func (s *Store) ListByDateRange(ctx context.Context, tenantID string, startDate, endDate time.Time) ([]*domain.DailyMetricRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrUnavailable
	}

	start := startDate.Format(time.DateOnly)
	end := endDate.Format(time.DateOnly)

	s.mu.RLock()
	records := make([]*domain.DailyMetricRecord, 0)
	for k, record := range s.records {
		if k.tenantID != tenantID || k.date < start || k.date > end {
			continue
		}
		copied := *record
		records = append(records, &copied)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		di, dj := records[i].Date.Format(time.DateOnly), records[j].Date.Format(time.DateOnly)
		if di != dj {
			return di < dj
		}
		return records[i].ActorID < records[j].ActorID
	})

	return records, nil
}

func (s *Store) DeleteAppliedEventsOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for k, seen := range s.applied {
		for eventID, appliedAt := range seen {
			if appliedAt.Before(cutoff) {
				delete(seen, eventID)
				removed++
			}
		}
		if len(seen) == 0 {
			delete(s.applied, k)
		}
	}

	return removed, nil
}

// AddClosedDeal registra um negócio fechado (usado no modo memória e nos testes)
func (s *Store) AddClosedDeal(tenantID, actorID string, value decimal.Decimal, closedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deals[tenantID] = append(s.deals[tenantID], closedDeal{
		deal:     domain.ClosedDeal{ActorID: actorID, DealValue: value},
		closedAt: closedAt,
	})
}

func (s *Store) ListClosedWon(ctx context.Context, tenantID string, from, to time.Time) ([]domain.ClosedDeal, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrUnavailable
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	deals := make([]domain.ClosedDeal, 0)
	for _, entry := range s.deals[tenantID] {
		if entry.closedAt.Before(from) || entry.closedAt.After(to) {
			continue
		}
		deals = append(deals, entry.deal)
	}

	return deals, nil
}

// PutActor cadastra ou substitui um vendedor no diretório
func (s *Store) PutActor(tenantID string, actor domain.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.actors[tenantID] == nil {
		s.actors[tenantID] = make(map[string]domain.Actor)
	}
	s.actors[tenantID][actor.ID] = actor
}

func (s *Store) ListActors(ctx context.Context, tenantID string) (map[string]domain.Actor, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrUnavailable
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	actors := make(map[string]domain.Actor, len(s.actors[tenantID]))
	for id, actor := range s.actors[tenantID] {
		actors[id] = actor
	}

	return actors, nil
}
