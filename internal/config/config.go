package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/database"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/tracing"
	"github.com/spf13/viper"
)

const envPrefix = "CARE"

// JWTConfig holds token validation settings shared with the auth service.
type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// KafkaConfig holds broker and topic settings.
type KafkaConfig struct {
	Brokers            []string
	GroupID            string
	AccountTopic       string
	NotificationTopic  string
	NotificationSource string
}

// SweepConfig holds the daily outdating job schedule.
type SweepConfig struct {
	Enabled  bool
	Schedule string
	Timezone string
}

// ServiceConfig holds all configuration for the care service.
type ServiceConfig struct {
	Port            string
	AppEnv          string
	Currency        string
	ShutdownTimeout time.Duration
	DBConfig        database.PostgresConfig
	JWTConfig       JWTConfig
	KafkaConfig     KafkaConfig
	SweepConfig     SweepConfig
	TracingConfig   tracing.Config
	MetricsEnabled  bool
}

// IsDevelopment reports whether the service runs locally.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_port", "8085")
	v.SetDefault("app_env", "development")
	v.SetDefault("currency", "MYR")
	v.SetDefault("shutdown_timeout", "15s")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "care_db")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime", "5m")

	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_access_ttl", "15m")
	v.SetDefault("jwt_refresh_ttl", "168h")

	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_group_id", "service-care")
	v.SetDefault("kafka_account_topic", "account.events")
	v.SetDefault("kafka_notification_topic", "notification.events")
	v.SetDefault("kafka_source", "service-care")

	v.SetDefault("sweep_enabled", true)
	v.SetDefault("sweep_schedule", "0 5 0 * * *")
	v.SetDefault("sweep_timezone", "UTC")

	v.SetDefault("tracing_enabled", false)
	v.SetDefault("tracing_endpoint", "localhost:4317")
	v.SetDefault("tracing_sample_ratio", 1.0)

	v.SetDefault("metrics_enabled", true)
}

// Load reads configuration from an optional config.yaml and from CARE_*
// environment variables, the latter taking precedence.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*ServiceConfig, error) {
	cfg := &ServiceConfig{
		Port:            v.GetString("service_port"),
		AppEnv:          v.GetString("app_env"),
		Currency:        strings.ToUpper(v.GetString("currency")),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		DBConfig: database.PostgresConfig{
			Host:            v.GetString("db_host"),
			Port:            v.GetString("db_port"),
			User:            v.GetString("db_user"),
			Password:        v.GetString("db_password"),
			DBName:          v.GetString("db_name"),
			SSLMode:         v.GetString("db_sslmode"),
			MaxOpenConns:    v.GetInt("db_max_open_conns"),
			MaxIdleConns:    v.GetInt("db_max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db_conn_max_lifetime"),
		},
		JWTConfig: JWTConfig{
			Secret:          v.GetString("jwt_secret"),
			AccessTokenTTL:  v.GetDuration("jwt_access_ttl"),
			RefreshTokenTTL: v.GetDuration("jwt_refresh_ttl"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:            splitList(v.GetString("kafka_brokers")),
			GroupID:            v.GetString("kafka_group_id"),
			AccountTopic:       v.GetString("kafka_account_topic"),
			NotificationTopic:  v.GetString("kafka_notification_topic"),
			NotificationSource: v.GetString("kafka_source"),
		},
		SweepConfig: SweepConfig{
			Enabled:  v.GetBool("sweep_enabled"),
			Schedule: v.GetString("sweep_schedule"),
			Timezone: v.GetString("sweep_timezone"),
		},
		TracingConfig: tracing.Config{
			Enabled:     v.GetBool("tracing_enabled"),
			Endpoint:    v.GetString("tracing_endpoint"),
			ServiceName: "service-care",
			Environment: v.GetString("app_env"),
			SampleRatio: v.GetFloat64("tracing_sample_ratio"),
		},
		MetricsEnabled: v.GetBool("metrics_enabled"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ServiceConfig) validate() error {
	if c.JWTConfig.Secret == "" {
		return fmt.Errorf("%s_JWT_SECRET is required", envPrefix)
	}
	if len(c.KafkaConfig.Brokers) == 0 {
		return fmt.Errorf("%s_KAFKA_BROKERS is required", envPrefix)
	}
	if _, err := time.LoadLocation(c.SweepConfig.Timezone); err != nil {
		return fmt.Errorf("invalid sweep timezone %q: %w", c.SweepConfig.Timezone, err)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
