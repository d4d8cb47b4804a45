// Package config builds process configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	JWTSigningKey   string
}

// RedisConfig captures the optional Redis audit store connection.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig captures the optional Postgres audit store connection.
type PostgresConfig struct {
	DSN string
}

// KafkaConfig captures the optional audit event sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Config is the full process configuration.
type Config struct {
	Server     Server
	Redis      RedisConfig
	Postgres   PostgresConfig
	Kafka      KafkaConfig
	PolicyPath string
	AutoChain  bool
}

// FromEnv builds a Config from environment variables. Every knob has a
// development default; infrastructure backends are off unless configured.
func FromEnv() Config {
	addr := os.Getenv("CASEFLOW_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("CASEFLOW_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	policyPath := os.Getenv("CASEFLOW_POLICY_PATH")
	if policyPath == "" {
		policyPath = "policy.yaml"
	}

	var brokers []string
	if raw := os.Getenv("CASEFLOW_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	topic := os.Getenv("CASEFLOW_KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "caseflow.audit"
	}

	return Config{
		Server: Server{
			Addr:            addr,
			ShutdownTimeout: 10 * time.Second,
			JWTSigningKey:   jwtSigningKey,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("CASEFLOW_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("CASEFLOW_POSTGRES_DSN"),
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
		PolicyPath: policyPath,
		AutoChain:  os.Getenv("CASEFLOW_AUTO_CHAIN") != "false",
	}
}
