package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/journey-scanner/internal/fare"
	"github.com/journey-scanner/internal/pkg/validator"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Session    SessionConfig
	Fare       FareConfig
	Extraction ExtractionConfig
	Log        LogConfig
	Worker     WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type SessionConfig struct {
	TTL time.Duration
}

// FareConfig mirrors the tariff knobs. Negative rates are a deployment
// mistake and fail startup.
type FareConfig struct {
	TaxiBaseFare float64 `validate:"gte=0"`
	TaxiPerKm    float64 `validate:"gte=0"`
	MetroBase    float64 `validate:"gte=0"`
	MetroPerKm   float64 `validate:"gte=0"`
	BusBase      float64 `validate:"gte=0"`
	BusPerKm     float64 `validate:"gte=0"`
}

type ExtractionConfig struct {
	Enabled bool
	APIKey  string
	Model   string
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	MaxRetries    int
	BatchSize     int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Missing .env is fine, environment variables still apply
	_ = viper.ReadInConfig()

	setDefaults()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			TTL: time.Duration(viper.GetInt("SESSION_TTL")) * time.Second,
		},
		Fare: FareConfig{
			TaxiBaseFare: viper.GetFloat64("TAXI_BASE_FARE"),
			TaxiPerKm:    viper.GetFloat64("TAXI_PER_KM"),
			MetroBase:    viper.GetFloat64("METRO_BASE_FARE"),
			MetroPerKm:   viper.GetFloat64("METRO_PER_KM"),
			BusBase:      viper.GetFloat64("BUS_BASE_FARE"),
			BusPerKm:     viper.GetFloat64("BUS_PER_KM"),
		},
		Extraction: ExtractionConfig{
			Enabled: viper.GetBool("EXTRACTION_ENABLED"),
			APIKey:  viper.GetString("GEMINI_API_KEY"),
			Model:   viper.GetString("GEMINI_MODEL"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup: viper.GetString("WORKER_CONSUMER_GROUP"),
			MaxRetries:    viper.GetInt("WORKER_MAX_RETRIES"),
			BatchSize:     viper.GetInt("WORKER_BATCH_SIZE"),
		},
	}

	if err := validator.Validate(cfg.Fare); err != nil {
		return nil, fmt.Errorf("invalid fare configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("API_HOST", "0.0.0.0")
	viper.SetDefault("API_PORT", 8080)
	viper.SetDefault("API_ENV", "development")

	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	viper.SetDefault("SESSION_TTL", 86400)

	// Dubai RTA tariff
	viper.SetDefault("TAXI_BASE_FARE", 12.0)
	viper.SetDefault("TAXI_PER_KM", 8.0)
	viper.SetDefault("METRO_BASE_FARE", 3.0)
	viper.SetDefault("METRO_PER_KM", 0.5)
	viper.SetDefault("BUS_BASE_FARE", 2.0)
	viper.SetDefault("BUS_PER_KM", 0.3)

	viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")

	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("WORKER_CONSUMER_GROUP", "receipt-workers")
	viper.SetDefault("WORKER_MAX_RETRIES", 3)
	viper.SetDefault("WORKER_BATCH_SIZE", 10)
}

// FareRates converts the config values into engine rates.
func (c *Config) FareRates() fare.Rates {
	return fare.Rates{
		TaxiBase:   c.Fare.TaxiBaseFare,
		TaxiPerKm:  c.Fare.TaxiPerKm,
		MetroBase:  c.Fare.MetroBase,
		MetroPerKm: c.Fare.MetroPerKm,
		BusBase:    c.Fare.BusBase,
		BusPerKm:   c.Fare.BusPerKm,
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}
