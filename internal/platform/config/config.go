// Package config builds the service configuration from the environment, with
// command-line flags layered on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// Sender selects the notification Sender implementation.
const (
	SenderLog   = "log"
	SenderRedis = "redis"
)

type Config struct {
	Addr     string
	LogLevel string
	Sender   string
	Reset    ResetConfig
	Menu     MenuConfig
	Redis    RedisConfig
	Outbox   OutboxConfig
	Dispatch DispatchConfig
}

// ResetConfig schedules the daily reset.
type ResetConfig struct {
	Schedule string
	Timezone string
}

// MenuConfig points at an optional YAML menu table. Empty means the derived
// default table.
type MenuConfig struct {
	TablePath string
}

// RedisConfig configures the go-redis client used by the outbox sender.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type OutboxConfig struct {
	Stream    string
	DedupeTTL time.Duration
}

// DispatchConfig bounds notification retries and fan-out.
type DispatchConfig struct {
	MaxRetries     uint64
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Parallelism    int
	Buffer         int
}

// FromEnv reads configuration from environment variables, falling back to
// defaults. Malformed numbers and durations are errors.
func FromEnv() (Config, error) {
	p := &parser{}
	cfg := Config{
		Addr:     p.str("KEYWATCH_ADDR", ":8080"),
		LogLevel: p.str("KEYWATCH_LOG_LEVEL", "info"),
		Sender:   p.str("KEYWATCH_SENDER", SenderLog),
		Reset: ResetConfig{
			Schedule: p.str("KEYWATCH_RESET_SCHEDULE", "0 4 * * *"),
			Timezone: p.str("KEYWATCH_TIMEZONE", "Asia/Tokyo"),
		},
		Menu: MenuConfig{
			TablePath: p.str("KEYWATCH_MENU_TABLE", ""),
		},
		Redis: RedisConfig{
			URL:          p.str("REDIS_URL", ""),
			PoolSize:     p.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Outbox: OutboxConfig{
			Stream:    p.str("KEYWATCH_OUTBOX_STREAM", "keywatch:outbox"),
			DedupeTTL: p.duration("KEYWATCH_OUTBOX_DEDUPE_TTL", 24*time.Hour),
		},
		Dispatch: DispatchConfig{
			MaxRetries:     uint64(p.int("KEYWATCH_DISPATCH_MAX_RETRIES", 4)),
			InitialBackoff: p.duration("KEYWATCH_DISPATCH_INITIAL_BACKOFF", 200*time.Millisecond),
			MaxBackoff:     p.duration("KEYWATCH_DISPATCH_MAX_BACKOFF", 5*time.Second),
			Parallelism:    p.int("KEYWATCH_DISPATCH_PARALLELISM", 8),
			Buffer:         p.int("KEYWATCH_DISPATCH_BUFFER", 64),
		},
	}
	if p.err != nil {
		return Config{}, p.err
	}
	return cfg, nil
}

// BindFlags registers overrides for the settings operators change most.
// Defaults are the values already in c, so flags win over the environment.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "HTTP listen address")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.Sender, "sender", c.Sender, "notification sender (log or redis)")
	fs.StringVar(&c.Reset.Schedule, "reset-schedule", c.Reset.Schedule, "cron expression for the daily reset")
	fs.StringVar(&c.Reset.Timezone, "timezone", c.Reset.Timezone, "IANA time zone the reset schedule runs in")
	fs.StringVar(&c.Menu.TablePath, "menu-table", c.Menu.TablePath, "YAML menu variant table")
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Sender {
	case SenderLog:
	case SenderRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis sender")
		}
	default:
		return fmt.Errorf("unknown sender %q: want %s or %s", c.Sender, SenderLog, SenderRedis)
	}
	if c.Dispatch.Parallelism < 1 {
		return fmt.Errorf("dispatch parallelism must be positive")
	}
	if c.Dispatch.Buffer < 0 {
		return fmt.Errorf("dispatch buffer must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location loads the reset time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Reset.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Reset.Timezone, err)
	}
	return loc, nil
}

// parser records the first malformed value.
type parser struct {
	err error
}

func (p *parser) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (p *parser) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		p.fail(fmt.Errorf("%s: want a non-negative integer, got %q", key, v))
		return def
	}
	return n
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
