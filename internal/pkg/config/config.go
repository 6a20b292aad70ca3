package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	Port        string        `env:"PORT,        default=8080"`
	Env         string        `env:"ENV,         default=development"`
	LogLevel    string        `env:"LOG_LEVEL,   default=info"`
	JWTSecret   string        `env:"JWT_SECRET,  required"`
	JWTTTL      time.Duration `env:"JWT_TTL,     default=60m"`
	BcryptCost  int           `env:"BCRYPT_COST, default=10"`
	StoreDriver string        `env:"STORE_DRIVER, default=postgres"`

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT, default=5"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST, default=10"`

	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type DatabaseConfig struct {
	Host     string `env:"DATABASE_HOST,      default=localhost"`
	Port     int    `env:"DATABASE_PORT,      default=5432"`
	Username string `env:"DATABASE_USERNAME,  default=postgres"`
	Password string `env:"DATABASE_PASSWORD"`
	Name     string `env:"DATABASE_NAME,      default=approvals"`
	SSLMode  string `env:"DATABASE_SSLMODE,   default=disable"`
	MaxConns int32  `env:"DATABASE_MAX_CONNS, default=10"`
}

// DSN renders the settings as a postgres:// connection URL.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.Username, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=approvals"`
}

// RedisConfig is optional; an empty address turns idempotency keys off.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// SchemaSync reports whether storage schemas are created on startup.
func (c *Config) SchemaSync() bool {
	return strings.EqualFold(c.Env, "development")
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads a .env file when present, then configuration from environment
// variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith processes configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("config: JWT_TTL must be positive")
	}
	switch c.StoreDriver {
	case StoreMemory, StorePostgres, StoreMongo:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}
