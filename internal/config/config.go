package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"eva-framework/internal/domain/screening"
)

const (
	TraceStoreNone   = "none"
	TraceStoreSQLite = "sqlite"
	TraceStoreMySQL  = "mysql"
)

type Config struct {
	AppPort   string
	LogLevel  string
	LogFormat string

	PolicyBank         string
	PolicyDTIMaxPct    float64
	PolicyDownMinPct   float64
	PolicyRatePct      float64
	PolicyYears        float64
	PolicyLTIMax       float64
	PolicyOtherDebtPct float64

	LLMAPIKey      string
	LLMBaseURL     string
	LLMModel       string
	LLMTimeoutSecs int

	TraceStore string
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int
	RateLimitRPS float64
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getfloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

// Load reads .env files when present, then the environment. Variables
// already set in the environment win over .env values.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	def := screening.DefaultPolicy()
	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),

		PolicyBank:         getenv("POLICY_BANK", def.Bank),
		PolicyDTIMaxPct:    getfloat("POLICY_DTI_MAX_PCT", def.DTIMaxPct),
		PolicyDownMinPct:   getfloat("POLICY_DOWN_MIN_PCT", def.DownPaymentMinPct),
		PolicyRatePct:      getfloat("POLICY_RATE_PCT", def.AnnualRatePct),
		PolicyYears:        getfloat("POLICY_YEARS", def.Years),
		PolicyLTIMax:       getfloat("POLICY_LTI_MAX", def.LTIMax),
		PolicyOtherDebtPct: getfloat("POLICY_OTHER_DEBT_MONTHLY_PCT", def.OtherDebtMonthlyPct),

		LLMAPIKey:      getenv("LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),
		LLMBaseURL:     getenv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:       getenv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeoutSecs: getint("LLM_TIMEOUT_SECONDS", 15),

		TraceStore: strings.ToLower(getenv("TRACE_STORE", TraceStoreNone)),
		SQLitePath: getenv("SQLITE_PATH", "eva_traces.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "eva"),
		MySQLUser: getenv("MYSQL_USER", "eva"),
		MySQLPass: getenv("MYSQL_PASS", "eva"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getint("REDIS_DB", 0),

		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),
		RateLimitRPS: getfloat("RATE_LIMIT_RPS", 10),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.TraceStore {
	case TraceStoreNone:
	case TraceStoreSQLite:
		if c.SQLitePath == "" {
			return errors.New("TRACE_STORE=sqlite requires SQLITE_PATH")
		}
	case TraceStoreMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("invalid TRACE_STORE %q (none|sqlite|mysql)", c.TraceStore)
	}
	if c.LLMTimeoutSecs <= 0 {
		return fmt.Errorf("invalid LLM_TIMEOUT_SECONDS %d", c.LLMTimeoutSecs)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("invalid RATE_LIMIT_RPS %v", c.RateLimitRPS)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// ValidatedPolicy runs Validate and returns the policy it checked.
func (c *Config) ValidatedPolicy() (screening.Policy, error) {
	if err := c.Validate(); err != nil {
		return screening.Policy{}, err
	}
	return c.Policy()
}

// Policy builds the validated screening policy from the POLICY_* keys.
func (c *Config) Policy() (screening.Policy, error) {
	return screening.NewPolicy(screening.Policy{
		Bank:                c.PolicyBank,
		DTIMaxPct:           c.PolicyDTIMaxPct,
		DownPaymentMinPct:   c.PolicyDownMinPct,
		AnnualRatePct:       c.PolicyRatePct,
		Years:               c.PolicyYears,
		LTIMax:              c.PolicyLTIMax,
		OtherDebtMonthlyPct: c.PolicyOtherDebtPct,
	})
}

func (c *Config) LLMTimeout() time.Duration { return time.Duration(c.LLMTimeoutSecs) * time.Second }

func (c *Config) IdempTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// TraceDSN returns the gorm driver name and DSN for the configured store.
func (c *Config) TraceDSN() (driver, dsn string) {
	switch c.TraceStore {
	case TraceStoreMySQL:
		return TraceStoreMySQL, c.MySQLDSN()
	case TraceStoreSQLite:
		return TraceStoreSQLite, c.SQLitePath
	default:
		return "", ""
	}
}
