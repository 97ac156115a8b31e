package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/infrastructure/migration"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository/memstore"
	"github.com/vfg2006/sales-metrics-api/internal/api"
	"github.com/vfg2006/sales-metrics-api/internal/api/handler"
	"github.com/vfg2006/sales-metrics-api/internal/config"
	"github.com/vfg2006/sales-metrics-api/internal/scheduler"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/dashboard"
	"github.com/vfg2006/sales-metrics-api/internal/usecases/recording"
	"github.com/vfg2006/sales-metrics-api/pkg/metrics"
)

// repositories reúne as três portas de armazenamento usadas pelo motor
type repositories struct {
	dailyMetrics repository.DailyMetricRepository
	closedDeals  repository.ClosedDealRepository
	directory    repository.ActorDirectory
	healthChecks []handler.HealthCheck
	close        func()
}

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos := newRepositories(ctx, cfg)

	metricsManager := metrics.NewManager()

	authenticator := authenticating.NewService(cfg)
	recorder := recording.NewService(repos.dailyMetrics, cfg, metricsManager)
	aggregator := aggregating.NewService(repos.dailyMetrics)
	assembler := dashboard.NewService(cfg, aggregator, repos.closedDeals, repos.directory, metricsManager)

	eventRetentionService := scheduler.NewEventRetentionService(repos.dailyMetrics, cfg)
	if err := eventRetentionService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de retenção de eventos")
	} else {
		logrus.Info("Agendador de retenção de eventos iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		assembler,
		recorder,
		authenticator,
		eventRetentionService,
		metricsManager,
		repos.healthChecks...,
	)
	if err != nil {
		logrus.Fatal(err)
	}
	server.OnShutdown(repos.close)
	server.OnShutdown(cancel)

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// newRepositories escolhe o armazenamento conforme STORE_DRIVER
func newRepositories(ctx context.Context, cfg *config.Config) repositories {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logrus.Warn("Usando armazenamento em memória: as métricas não sobrevivem a reinícios")
		store := memstore.New()
		return repositories{
			dailyMetrics: store,
			closedDeals:  store,
			directory:    store,
			close:        func() {},
		}

	case config.StoreDriverPostgres:
		pgConn := pgconn(ctx, cfg.Database)

		if cfg.Database.AutoMigrate {
			if err := migration.Run(ctx, pgConn); err != nil {
				logrus.WithError(err).Fatal("Erro ao aplicar migração do schema")
			}
		}

		return repositories{
			dailyMetrics: repository.NewDailyMetricRepository(pgConn),
			closedDeals:  repository.NewClosedDealRepository(pgConn),
			directory:    repository.NewActorDirectory(pgConn),
			healthChecks: []handler.HealthCheck{{Name: "postgres", Check: pgConn.Ping}},
			close: func() {
				if err := pgConn.Close(); err != nil {
					logrus.WithError(err).Warn("Erro ao fechar conexão com PostgreSQL")
				}
			},
		}

	default:
		logrus.Fatalf("STORE_DRIVER desconhecido: %s", cfg.Store.Driver)
		return repositories{}
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
