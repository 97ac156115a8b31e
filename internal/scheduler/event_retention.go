// Package scheduler contém os serviços agendados do motor de métricas
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository"
	"github.com/vfg2006/sales-metrics-api/internal/config"
	"github.com/vfg2006/sales-metrics-api/pkg/utils"
)

const defaultRetentionDays = 7

type EventRetentionConfig struct {
	CronSchedule  string
	RetentionDays int
	Enabled       bool
}

// EventRetentionService remove periodicamente os ids de eventos já aplicados
// que saíram da janela de deduplicação
type EventRetentionService struct {
	scheduler *gocron.Scheduler
	repo      repository.DailyMetricRepository
	config    EventRetentionConfig
	now       func() time.Time

	syncRunning         bool
	syncMutex           sync.Mutex
	lastRunID           string
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRemoved         int64
	lastError           string
}

func NewEventRetentionService(repo repository.DailyMetricRepository, cfg *config.Config) *EventRetentionService {
	retentionConfig := EventRetentionConfig{
		CronSchedule:  cfg.EventRetention.CronSchedule,
		RetentionDays: cfg.EventRetention.RetentionDays,
		Enabled:       cfg.EventRetention.Enabled,
	}
	if retentionConfig.RetentionDays <= 0 {
		retentionConfig.RetentionDays = defaultRetentionDays
	}

	location := cfg.Metrics.Location
	if location == nil {
		location = time.UTC
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":  retentionConfig.CronSchedule,
		"retention_days": retentionConfig.RetentionDays,
	}).Info("Configuração do agendador de retenção de eventos carregada")

	return &EventRetentionService{
		scheduler: gocron.NewScheduler(location),
		repo:      repo,
		config:    retentionConfig,
		now:       time.Now,
	}
}

func (s *EventRetentionService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron de retenção de eventos desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de retenção de eventos")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.PurgeAppliedEvents(ctx); err != nil {
			logrus.WithError(err).Error("Erro na limpeza de eventos aplicados")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar retenção de eventos: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de retenção de eventos")
		s.scheduler.Stop()
	}()

	return nil
}

// PurgeAppliedEvents remove os ids aplicados antes do início da janela de retenção.
// Uma execução concorrente é ignorada e retorna zero.
func (s *EventRetentionService) PurgeAppliedEvents(ctx context.Context) (int64, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Limpeza de eventos aplicados já está em execução")
		return 0, nil
	}

	runID, err := utils.GenerateID()
	if err != nil {
		runID = "unknown"
	}

	s.syncRunning = true
	s.lastRunID = runID
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	cutoff := s.lastSyncStartedAt.AddDate(0, 0, -s.config.RetentionDays)

	logger := logrus.WithFields(logrus.Fields{
		"run_id": runID,
		"cutoff": cutoff.Format(time.RFC3339),
	})
	logger.Info("Iniciando limpeza de eventos aplicados")

	removed, err := s.repo.DeleteAppliedEventsOlderThan(ctx, cutoff)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastSyncCompletedAt = s.now()

	if err != nil {
		s.lastError = err.Error()
		logger.WithError(err).Error("Erro ao remover eventos aplicados")
		return 0, err
	}

	s.lastError = ""
	s.lastRemoved = removed
	logger.WithField("removed", removed).Info("Limpeza de eventos aplicados concluída")

	return removed, nil
}

// TriggerManualSync inicia manualmente uma limpeza em background
func (s *EventRetentionService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Limpeza de eventos já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando limpeza manual de eventos aplicados")
	go func() {
		if _, err := s.PurgeAppliedEvents(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro na limpeza manual de eventos aplicados")
		}
	}()
}

// GetStatus retorna o status atual do agendador
func (s *EventRetentionService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.Enabled,
		"sync_cron":              s.config.CronSchedule,
		"retention_days":         s.config.RetentionDays,
		"running":                s.syncRunning,
		"last_run_id":            s.lastRunID,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_removed":           s.lastRemoved,
		"last_error":             s.lastError,
	}
}
