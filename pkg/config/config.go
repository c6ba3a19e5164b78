package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv    string `envconfig:"APP_ENV"`
	SentryDSN string `envconfig:"SENTRY_DSN"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	Store struct {
		Addr      string `envconfig:"STORE_ADDR" default:"127.0.0.1:34254"`
		Driver    string `envconfig:"STORE_DRIVER" default:"memory"`
		AdminAddr string `envconfig:"ADMIN_ADDR"`
	}
	Client struct {
		LocalAddr      string        `envconfig:"CLIENT_LOCAL_ADDR" default:"127.0.0.1:0"`
		RemoteAddr     string        `envconfig:"CLIENT_REMOTE_ADDR"`
		ReceiveTimeout time.Duration `envconfig:"CLIENT_RECEIVE_TIMEOUT" default:"3s"`
		AwaitAcks      bool          `envconfig:"CLIENT_AWAIT_ACKS"`
	}
	DB struct {
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	switch cfg.Store.Driver {
	case DriverMemory, DriverPostgres:
	default:
		return nil, fmt.Errorf("load config error: unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	return cfg, nil
}
