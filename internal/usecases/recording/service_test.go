package recording

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository/memstore"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-metrics-api/internal/config"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"github.com/vfg2006/sales-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/sales-metrics-api/pkg/metrics"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, 6, 15, 13, 0, 0, 0, time.UTC)

func newTestService(repo repository.DailyMetricRepository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
		retry: RetryConfig{
			MaxRetries:      3,
			InitialInterval: time.Millisecond,
			MaxInterval:     2 * time.Millisecond,
		},
		metrics: metrics.NewManager(),
		now:     func() time.Time { return fixedNow },
	}
}

func TestNewService(t *testing.T) {
	cfg := &config.Config{
		Metrics: config.Metrics{
			Location:            time.UTC,
			WriteMaxRetries:     4,
			WriteInitialBackoff: 10 * time.Millisecond,
			WriteMaxBackoff:     100 * time.Millisecond,
		},
	}

	recorder := NewService(memstore.New(), cfg, nil)

	service, ok := recorder.(*Service)
	require.True(t, ok)
	assert.Equal(t, uint64(4), service.retry.MaxRetries)
	assert.Equal(t, 10*time.Millisecond, service.retry.InitialInterval)
	assert.Equal(t, 100*time.Millisecond, service.retry.MaxInterval)
	assert.Equal(t, time.UTC, service.location)
}

func TestService_RecordActivity(t *testing.T) {
	call := domain.Activity{
		ID:              "act-1",
		Type:            domain.ActivityTypeCall,
		Outcome:         domain.OutcomeConnected,
		ActorID:         "A",
		Timestamp:       time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC),
		DurationSeconds: int64Ptr(120),
	}

	tests := []struct {
		name       string
		tenantID   string
		activity   domain.Activity
		setupMock  func(mock *mocks.MockDailyMetricRepository)
		wantErr    error
		wantCode   string
		checkError func(t *testing.T, err error)
	}{
		{
			name:     "Sucesso na primeira tentativa",
			tenantID: "T1",
			activity: call,
			setupMock: func(mock *mocks.MockDailyMetricRepository) {
				mock.EXPECT().
					ApplyDelta(gomock.Any(), gomock.Any(), gomock.Any(), "act-1").
					DoAndReturn(func(_ context.Context, key domain.MetricKey, delta domain.Counters, _ string) error {
						assert.Equal(t, "T1", key.TenantID)
						assert.Equal(t, "A", key.ActorID)
						assert.Equal(t, "2024-06-12", key.DateString())
						assert.Equal(t, int64(1), delta.Dials)
						assert.Equal(t, int64(1), delta.Connects)
						assert.Equal(t, int64(120), delta.TalkTimeSeconds)
						return nil
					})
			},
		},
		{
			name:     "Conflito seguido de sucesso",
			tenantID: "T1",
			activity: call,
			setupMock: func(mock *mocks.MockDailyMetricRepository) {
				gomock.InOrder(
					mock.EXPECT().ApplyDelta(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrConflict).Times(3),
					mock.EXPECT().ApplyDelta(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
				)
			},
		},
		{
			name:     "Tentativas esgotadas após conflitos",
			tenantID: "T1",
			activity: call,
			setupMock: func(mock *mocks.MockDailyMetricRepository) {
				mock.EXPECT().
					ApplyDelta(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(domain.ErrConflict).
					Times(4)
			},
			wantErr:  domain.ErrConflict,
			wantCode: apiErrors.ErrWriteConflict,
		},
		{
			name:     "Indisponibilidade não é repetida",
			tenantID: "T1",
			activity: call,
			setupMock: func(mock *mocks.MockDailyMetricRepository) {
				mock.EXPECT().
					ApplyDelta(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(domain.NewMetricsError(domain.ErrUnavailable, apiErrors.ErrCommunication, "T1", "conexão recusada")).
					Times(1)
			},
			wantErr: domain.ErrUnavailable,
		},
		{
			name:     "Evento duplicado é ignorado sem erro",
			tenantID: "T1",
			activity: call,
			setupMock: func(mock *mocks.MockDailyMetricRepository) {
				mock.EXPECT().
					ApplyDelta(gomock.Any(), gomock.Any(), gomock.Any(), "act-1").
					Return(domain.ErrDuplicateEvent).
					Times(1)
			},
		},
		{
			name:      "E-mail não chega ao store",
			tenantID:  "T1",
			activity:  domain.Activity{Type: domain.ActivityTypeEmail, ActorID: "A"},
			setupMock: func(mock *mocks.MockDailyMetricRepository) {},
		},
		{
			name:      "Duração negativa é rejeitada antes do store",
			tenantID:  "T1",
			activity:  domain.Activity{Type: domain.ActivityTypeCall, ActorID: "A", DurationSeconds: int64Ptr(-5)},
			setupMock: func(mock *mocks.MockDailyMetricRepository) {},
			wantErr:   domain.ErrInvalidInput,
			wantCode:  apiErrors.ErrInvalidEvent,
		},
		{
			name:      "Tenant ausente",
			tenantID:  "",
			activity:  call,
			setupMock: func(mock *mocks.MockDailyMetricRepository) {},
			wantErr:   domain.ErrInvalidInput,
			wantCode:  apiErrors.ErrMissingTenant,
		},
		{
			name:      "Vendedor ausente",
			tenantID:  "T1",
			activity:  domain.Activity{Type: domain.ActivityTypeCall},
			setupMock: func(mock *mocks.MockDailyMetricRepository) {},
			wantErr:   domain.ErrInvalidInput,
			wantCode:  apiErrors.ErrInvalidEvent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockDailyMetricRepository(ctrl)
			tt.setupMock(mockRepo)

			service := newTestService(mockRepo, time.UTC)

			err := service.RecordActivity(context.Background(), tt.tenantID, tt.activity)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "erro inesperado: %v", err)

			if tt.wantCode != "" {
				var metricsErr *domain.MetricsError
				require.True(t, errors.As(err, &metricsErr))
				assert.Equal(t, tt.wantCode, metricsErr.Code)
			}
		})
	}
}

func TestService_RecordActivity_ReportingTimezone(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDailyMetricRepository(ctrl)
	mockRepo.EXPECT().
		ApplyDelta(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key domain.MetricKey, _ domain.Counters, _ string) error {
			// 02h UTC ainda é o dia anterior em São Paulo
			assert.Equal(t, "2024-03-09", key.DateString())
			return nil
		})

	service := newTestService(mockRepo, saoPaulo)

	err = service.RecordActivity(context.Background(), "T1", domain.Activity{
		Type:      domain.ActivityTypeCall,
		Outcome:   domain.OutcomeNoAnswer,
		ActorID:   "A",
		Timestamp: time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)
}

func TestService_RecordActivity_ZeroTimestampUsesNow(t *testing.T) {
	store := memstore.New()
	service := newTestService(store, time.UTC)

	err := service.RecordActivity(context.Background(), "T1", domain.Activity{
		Type:    domain.ActivityTypeCall,
		Outcome: domain.OutcomeNoAnswer,
		ActorID: "A",
	})
	require.NoError(t, err)

	records, err := store.ListByDateRange(context.Background(), "T1", fixedNow, fixedNow)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-06-15", records[0].Date.Format(time.DateOnly))
}

func TestService_RecordActivity_CanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())

	mockRepo := mocks.NewMockDailyMetricRepository(ctrl)
	mockRepo.EXPECT().
		ApplyDelta(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.MetricKey, domain.Counters, string) error {
			cancel()
			return domain.ErrConflict
		}).
		Times(1)

	service := newTestService(mockRepo, time.UTC)

	err := service.RecordActivity(ctx, "T1", domain.Activity{Type: domain.ActivityTypeCall, ActorID: "A"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
}

func TestService_RecordLeadCreated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDailyMetricRepository(ctrl)
	mockRepo.EXPECT().
		ApplyDelta(gomock.Any(), gomock.Any(), gomock.Any(), "lead-9").
		DoAndReturn(func(_ context.Context, key domain.MetricKey, delta domain.Counters, _ string) error {
			assert.Equal(t, "B", key.ActorID)
			assert.Equal(t, int64(1), delta.LeadsCreated)
			assert.True(t, decimal.NewFromInt(2500).Equal(delta.RevenueGenerated))
			return nil
		})

	service := newTestService(mockRepo, time.UTC)

	err := service.RecordLeadCreated(context.Background(), "T1", domain.LeadCreated{
		ID:        "lead-9",
		ActorID:   "B",
		LeadValue: floatPtr(2500),
		Timestamp: fixedNow,
	})
	assert.NoError(t, err)

	err = service.RecordLeadCreated(context.Background(), "T1", domain.LeadCreated{ActorID: "B", LeadValue: floatPtr(-3)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestService_DuplicateEventIsAppliedOnce(t *testing.T) {
	store := memstore.New()
	service := newTestService(store, time.UTC)

	activity := domain.Activity{
		ID:        "act-dup",
		Type:      domain.ActivityTypeMeeting,
		Outcome:   domain.OutcomeClosedWon,
		ActorID:   "A",
		Timestamp: fixedNow,
		DealValue: floatPtr(100),
	}

	require.NoError(t, service.RecordActivity(context.Background(), "T1", activity))
	require.NoError(t, service.RecordActivity(context.Background(), "T1", activity))

	records, err := store.ListByDateRange(context.Background(), "T1", fixedNow, fixedNow)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].MeetingsHeld)
	assert.True(t, decimal.NewFromInt(100).Equal(records[0].RevenueGenerated))
}

func TestService_ConcurrentAdditivity(t *testing.T) {
	store := memstore.New()
	service := newTestService(store, time.UTC)

	const workers = 40

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			var activity domain.Activity
			if i%2 == 0 {
				activity = domain.Activity{
					ID:              fmt.Sprintf("call-%d", i),
					Type:            domain.ActivityTypeCall,
					Outcome:         domain.OutcomeConnected,
					ActorID:         "A",
					Timestamp:       fixedNow,
					DurationSeconds: int64Ptr(30),
				}
			} else {
				activity = domain.Activity{
					ID:        fmt.Sprintf("meeting-%d", i),
					Type:      domain.ActivityTypeMeeting,
					Outcome:   domain.OutcomeQualified,
					ActorID:   "A",
					Timestamp: fixedNow,
					DealValue: floatPtr(10.5),
				}
			}

			assert.NoError(t, service.RecordActivity(context.Background(), "T1", activity))
		}(i)
	}
	wg.Wait()

	records, err := store.ListByDateRange(context.Background(), "T1", fixedNow, fixedNow)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, int64(workers/2), record.Dials)
	assert.Equal(t, int64(workers/2), record.Connects)
	assert.Equal(t, int64(workers/2*30), record.TalkTimeSeconds)
	assert.Equal(t, int64(workers/2), record.MeetingsHeld)
	assert.True(t, decimal.RequireFromString("210").Equal(record.RevenueGenerated),
		"pipeline obtido %s", record.RevenueGenerated)
	assert.Equal(t, int64(workers), record.Version)
}
