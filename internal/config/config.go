package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Auth           Auth           `mapstructure:",squash"`
	Store          Store          `mapstructure:",squash"`
	Metrics        Metrics        `mapstructure:",squash"`
	EventRetention EventRetention `mapstructure:",squash"`
	Cors           Cors           `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN         string `mapstructure:"-"`
	Driver      string `mapstructure:"database_driver"`
	Password    string `mapstructure:"database_password"`
	URL         string `mapstructure:"database_url"`
	User        string `mapstructure:"database_user"`
	AutoMigrate bool   `mapstructure:"database_auto_migrate"`

	MaxOpenConns    int           `mapstructure:"database_max_open_conns"`
	MaxIdleConns    int           `mapstructure:"database_max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"database_conn_max_lifetime"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	SecretKey string `mapstructure:"secret_key"`
}

type Store struct {
	Driver string `mapstructure:"store_driver"`
}

// Metrics agrupa as configurações do motor de métricas (gravação e leitura)
type Metrics struct {
	ReportingTimezone   string         `mapstructure:"metrics_reporting_timezone"`
	Location            *time.Location `mapstructure:"-"`
	QueryTimeout        time.Duration  `mapstructure:"metrics_query_timeout"`
	WriteMaxRetries     uint64         `mapstructure:"metrics_write_max_retries"`
	WriteInitialBackoff time.Duration  `mapstructure:"metrics_write_initial_backoff"`
	WriteMaxBackoff     time.Duration  `mapstructure:"metrics_write_max_backoff"`
}

type EventRetention struct {
	CronSchedule  string `mapstructure:"event_retention_cron"`
	RetentionDays int    `mapstructure:"event_retention_days"`
	Enabled       bool   `mapstructure:"event_retention_enabled"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales_metrics?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_AUTO_MIGRATE", false)
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)

	// Defaults do motor de métricas
	viper.SetDefault("METRICS_REPORTING_TIMEZONE", "UTC")
	viper.SetDefault("METRICS_QUERY_TIMEOUT", "5s")
	viper.SetDefault("METRICS_WRITE_MAX_RETRIES", 5)
	viper.SetDefault("METRICS_WRITE_INITIAL_BACKOFF", "20ms")
	viper.SetDefault("METRICS_WRITE_MAX_BACKOFF", "500ms")

	// Defaults para limpeza dos ids de eventos já aplicados
	viper.SetDefault("EVENT_RETENTION_CRON", "0 2 * * *") // Todos os dias às 2h da manhã
	viper.SetDefault("EVENT_RETENTION_DAYS", 7)
	viper.SetDefault("EVENT_RETENTION_ENABLED", false)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:4001")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(config.Metrics.ReportingTimezone)
	if err != nil {
		return nil, fmt.Errorf("fuso horário de relatório inválido %q: %w", config.Metrics.ReportingTimezone, err)
	}
	config.Metrics.Location = location

	if config.Store.Driver != StoreDriverPostgres && config.Store.Driver != StoreDriverMemory {
		return nil, fmt.Errorf("driver de armazenamento inválido: %s", config.Store.Driver)
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
