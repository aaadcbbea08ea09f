package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"p2p-lending-backend/internal/domain/money"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	MySQLHost string `env:"MYSQL_HOST" envDefault:"mysql"`
	MySQLPort string `env:"MYSQL_PORT" envDefault:"3306"`
	MySQLDB   string `env:"MYSQL_DB" envDefault:"lending"`
	MySQLUser string `env:"MYSQL_USER" envDefault:"lending"`
	MySQLPass string `env:"MYSQL_PASS" envDefault:"lending"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"redis:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	IdempTTLSecs int `env:"IDEMPOTENCY_TTL_SECONDS" envDefault:"300"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	OriginationFee string `env:"LOAN_ORIGINATION_FEE" envDefault:"3.75"`
}

func Load() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	if _, err := c.Fee(); err != nil {
		return err
	}
	return nil
}

// Fee is the origination fee charged to the lender on every funded loan.
func (c *Config) Fee() (money.Money, error) {
	fee, err := money.Parse(c.OriginationFee)
	if err != nil {
		return money.Money{}, fmt.Errorf("invalid LOAN_ORIGINATION_FEE: %w", err)
	}
	if fee.IsNegative() || fee.HasSubCents() {
		return money.Money{}, fmt.Errorf("invalid LOAN_ORIGINATION_FEE %q", c.OriginationFee)
	}
	return fee, nil
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// MigrateURL is the DSN in golang-migrate's URL form.
func (c *Config) MigrateURL() string { return "mysql://" + c.MySQLDSN() }
