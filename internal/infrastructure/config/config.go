package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bibbank/cre-underwriting/pkg/auth"
	"github.com/bibbank/cre-underwriting/pkg/kafka"
	"github.com/bibbank/cre-underwriting/pkg/postgres"
	"github.com/bibbank/cre-underwriting/pkg/tlsutil"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// Pool converts the database settings to the pgx pool config.
func (d DatabaseConfig) Pool() postgres.Config {
	return postgres.Config{
		Host:     d.Host,
		Port:     d.Port,
		User:     d.User,
		Password: d.Password,
		Database: d.Name,
		SSLMode:  d.SSLMode,
		MaxConns: d.MaxConns,
		MinConns: d.MinConns,
	}
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	TLS     bool
	CAFile  string
}

// Producer converts the Kafka settings to the producer config.
func (k KafkaConfig) Producer() kafka.Config {
	return kafka.Config{Brokers: k.Brokers, TLS: k.TLS, TLSCAFile: k.CAFile}
}

type AuthConfig struct {
	Secret        string
	PublicKeyFile string
	Issuer        string
}

// JWT converts the auth settings to the token verifier config, reading the
// public key when one is configured.
func (a AuthConfig) JWT() (auth.JWTConfig, error) {
	cfg := auth.JWTConfig{Secret: a.Secret, Issuer: a.Issuer}
	if a.PublicKeyFile == "" {
		return cfg, nil
	}
	pem, err := auth.LoadKeyFromFile(a.PublicKeyFile)
	if err != nil {
		return auth.JWTConfig{}, fmt.Errorf("load jwt public key: %w", err)
	}
	cfg.PublicKeyPEM = string(pem)
	return cfg, nil
}

type OutboxConfig struct {
	Schedule  string
	BatchSize int
}

type TelemetryConfig struct {
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
}

type Config struct {
	GRPCPort       int
	HTTPPort       int
	DB             DatabaseConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
	Auth           AuthConfig
	Outbox         OutboxConfig
	Telemetry      TelemetryConfig
	TLS            tlsutil.ServerConfig
	CORSOrigins    []string
	GRPCReflection bool
	ServiceName    string
	Environment    string
}

var defaults = map[string]any{
	"grpc_port":         9090,
	"http_port":         8080,
	"db_host":           "localhost",
	"db_port":           5432,
	"db_user":           "underwriting",
	"db_name":           "cre_underwriting",
	"db_sslmode":        "require",
	"db_max_conns":      10,
	"db_min_conns":      2,
	"redis_addr":        "localhost:6379",
	"redis_db":          0,
	"redis_ttl":         "15m",
	"kafka_brokers":     "localhost:9092",
	"kafka_topic":       "underwriting.events",
	"kafka_tls":         false,
	"jwt_issuer":        "cre-underwriting",
	"outbox_schedule":   "@every 5s",
	"outbox_batch_size": 100,
	"log_level":         "info",
	"log_format":        "json",
	"cors_origins":      "*",
	"grpc_reflection":   false,
	"service_name":      "underwriting-service",
	"app_environment":   "development",
}

// Load reads configuration from the process environment. A .env file in the
// working directory, when present, fills variables that are not already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// FromViper builds the config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		GRPCPort: v.GetInt("grpc_port"),
		HTTPPort: v.GetInt("http_port"),
		DB: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			Name:     v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
			MaxConns: v.GetInt32("db_max_conns"),
			MinConns: v.GetInt32("db_min_conns"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
			TTL:      v.GetDuration("redis_ttl"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("kafka_brokers")),
			Topic:   v.GetString("kafka_topic"),
			TLS:     v.GetBool("kafka_tls"),
			CAFile:  v.GetString("kafka_ca_file"),
		},
		Auth: AuthConfig{
			Secret:        v.GetString("jwt_secret"),
			PublicKeyFile: v.GetString("jwt_public_key_file"),
			Issuer:        v.GetString("jwt_issuer"),
		},
		Outbox: OutboxConfig{
			Schedule:  v.GetString("outbox_schedule"),
			BatchSize: v.GetInt("outbox_batch_size"),
		},
		Telemetry: TelemetryConfig{
			LogLevel:     v.GetString("log_level"),
			LogFormat:    v.GetString("log_format"),
			OTLPEndpoint: v.GetString("otel_exporter_otlp_endpoint"),
		},
		TLS: tlsutil.ServerConfig{
			CertFile:     v.GetString("tls_cert_file"),
			KeyFile:      v.GetString("tls_key_file"),
			ClientCAFile: v.GetString("tls_client_ca_file"),
		},
		CORSOrigins:    splitList(v.GetString("cors_origins")),
		GRPCReflection: v.GetBool("grpc_reflection"),
		ServiceName:    v.GetString("service_name"),
		Environment:    v.GetString("app_environment"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if c.Auth.Secret == "" && c.Auth.PublicKeyFile == "" {
		errs = append(errs, errors.New("one of JWT_SECRET or JWT_PUBLIC_KEY_FILE is required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS must list at least one broker"))
	}
	if c.Outbox.BatchSize <= 0 {
		errs = append(errs, errors.New("OUTBOX_BATCH_SIZE must be positive"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
