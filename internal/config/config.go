// README: Config loader with env defaults for HTTP, storage, routing, and tariff settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "FAREQUOTE_"

var (
	errNotFinite = errors.New("value must be finite")
	errNegative  = errors.New("value must not be negative")
	errNotPos    = errors.New("value must be greater than zero")
)

// ConfigError reports a malformed configuration value. It is fatal at startup.
type ConfigError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

type Config struct {
	HTTP struct {
		Addr        string
		CORSOrigins []string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Maps struct {
		APIKey   string
		CacheTTL time.Duration
	}
	Tariff Tariff
}

// Load reads a local .env file (if any) and then the process environment.
// Existing environment variables always win over .env entries.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	var cfg Config
	l := &loader{}

	cfg.HTTP.Addr = envOrDefault("HTTP_ADDR", ":8080")
	cfg.HTTP.CORSOrigins = splitList(envOrDefault("CORS_ORIGINS", "*"))
	cfg.DB.DSN = envOrDefault("DB_DSN", "")
	cfg.Redis.Addr = envOrDefault("REDIS_ADDR", "")
	cfg.Maps.APIKey = envOrDefault("MAPS_API_KEY", "")
	cfg.Maps.CacheTTL = l.duration("ROUTE_CACHE_TTL", 24*time.Hour)

	t := DefaultTariff()
	t.BaseRate = l.float("BASE_RATE", t.BaseRate)
	t.PerKmRate = l.float("PER_KM_RATE", t.PerKmRate)
	t.PerMinuteRate = l.float("PER_MINUTE_RATE", t.PerMinuteRate)
	t.Weight.Compact = l.float("WEIGHT_COMPACT", t.Weight.Compact)
	t.Weight.Van = l.float("WEIGHT_VAN", t.Weight.Van)
	t.FuelPrice = l.float("FUEL_PRICE", t.FuelPrice)
	t.FuelEfficiency.Compact = l.positive("FUEL_EFFICIENCY_COMPACT", t.FuelEfficiency.Compact)
	t.FuelEfficiency.Van = l.positive("FUEL_EFFICIENCY_VAN", t.FuelEfficiency.Van)
	t.Overage.Compact = l.amount("OVERAGE_COMPACT", t.Overage.Compact)
	t.Overage.Van = l.amount("OVERAGE_VAN", t.Overage.Van)
	t.RegularLoadFactor = l.positive("REGULAR_LOAD_FACTOR", t.RegularLoadFactor)
	t.StopFee.Compact = l.amount("STOP_FEE_COMPACT", t.StopFee.Compact)
	t.StopFee.Van = l.amount("STOP_FEE_VAN", t.StopFee.Van)
	t.FuelBand.Compact = l.amount("FUEL_BAND_COMPACT", t.FuelBand.Compact)
	t.FuelBand.Van = l.amount("FUEL_BAND_VAN", t.FuelBand.Van)

	if path := envOrDefault("TARIFF_FILE", ""); path != "" {
		if err := loadTariffFile(path, &t); err != nil {
			l.errs = append(l.errs, &ConfigError{Key: envPrefix + "TARIFF_FILE", Value: path, Err: err})
		}
	}
	cfg.Tariff = t

	if err := errors.Join(l.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loader collects every malformed value so a single startup failure reports all of them.
type loader struct {
	errs []error
}

func (l *loader) fail(key, value string, err error) {
	l.errs = append(l.errs, &ConfigError{Key: envPrefix + key, Value: value, Err: err})
}

func (l *loader) float(key string, def float64) float64 {
	v, ok := lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	switch {
	case err != nil:
		l.fail(key, v, err)
	case math.IsNaN(n) || math.IsInf(n, 0):
		l.fail(key, v, errNotFinite)
	case n < 0:
		l.fail(key, v, errNegative)
	default:
		return n
	}
	return def
}

func (l *loader) positive(key string, def float64) float64 {
	n := l.float(key, def)
	if n <= 0 {
		v, _ := lookup(key)
		l.fail(key, v, errNotPos)
		return def
	}
	return n
}

func (l *loader) amount(key string, def int64) int64 {
	v, ok := lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		l.fail(key, v, err)
		return def
	}
	if n < 0 {
		l.fail(key, v, errNegative)
		return def
	}
	return n
}

func (l *loader) duration(key string, def time.Duration) time.Duration {
	v, ok := lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.fail(key, v, err)
		return def
	}
	if d <= 0 {
		l.fail(key, v, errNotPos)
		return def
	}
	return d
}

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(envPrefix + key))
	return v, v != ""
}

func envOrDefault(key, def string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
