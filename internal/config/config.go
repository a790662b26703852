package config

import (
	"os"
	"strconv"
	"time"

	"smart-parking/internal/parking"
)

type Config struct {
	Mode        string
	Port        string
	Environment string
	LogLevel    string

	LayoutFile          string
	ContinuousThreshold time.Duration
	ActivityLogSize     int
	Rates               RatesConfig

	OTel OTelConfig
}

type RatesConfig struct {
	FlatRate        int
	FlatWindowHours int
	DailyRate       int
	HourlySmall     int
	HourlyMedium    int
	HourlyLarge     int
	Currency        string
}

type OTelConfig struct {
	ServiceName string
	Endpoint    string
	Disabled    bool
}

func Load() *Config {
	defaults := parking.DefaultRates()

	return &Config{
		Mode:        envOr("MODE", "cli"),
		Port:        envOr("PORT", "8080"),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envOr("LOG_LEVEL", ""),

		LayoutFile:          os.Getenv("LAYOUT_FILE"),
		ContinuousThreshold: envOrDuration("CONTINUOUS_PARKING_THRESHOLD", parking.DefaultContinuousThreshold),
		ActivityLogSize:     envOrInt("ACTIVITY_LOG_SIZE", parking.DefaultActivityLogSize),
		Rates: RatesConfig{
			FlatRate:        envOrInt("FLAT_RATE", defaults.FlatRate),
			FlatWindowHours: envOrInt("FLAT_WINDOW_HOURS", defaults.FlatWindowHours),
			DailyRate:       envOrInt("DAILY_RATE", defaults.DailyRate),
			HourlySmall:     envOrInt("HOURLY_RATE_SMALL", defaults.HourlyRates[parking.Small]),
			HourlyMedium:    envOrInt("HOURLY_RATE_MEDIUM", defaults.HourlyRates[parking.Medium]),
			HourlyLarge:     envOrInt("HOURLY_RATE_LARGE", defaults.HourlyRates[parking.Large]),
			Currency:        envOr("CURRENCY", defaults.Currency),
		},

		OTel: OTelConfig{
			ServiceName: envOr("OTEL_SERVICE_NAME", parking.DefaultServiceName),
			Endpoint:    envOr("OTEL_EXPORTER_OTLP_ENDPOINT", parking.DefaultOTLPEndpoint),
			Disabled:    envOrBool("OTEL_SDK_DISABLED", false),
		},
	}
}

// Layout returns the lot described by LAYOUT_FILE, or the built-in sample lot
// when no file is configured.
func (c *Config) Layout() (parking.Layout, error) {
	if c.LayoutFile == "" {
		return parking.DefaultLayout(), nil
	}
	return parking.LoadLayout(c.LayoutFile)
}

func (c *Config) ParkingRates() parking.Rates {
	return parking.Rates{
		FlatRate:        c.Rates.FlatRate,
		FlatWindowHours: c.Rates.FlatWindowHours,
		DailyRate:       c.Rates.DailyRate,
		HourlyRates: map[parking.Size]int{
			parking.Small:  c.Rates.HourlySmall,
			parking.Medium: c.Rates.HourlyMedium,
			parking.Large:  c.Rates.HourlyLarge,
		},
		Currency: c.Rates.Currency,
	}
}

func (c *Config) ParkingOptions() []parking.Option {
	return []parking.Option{
		parking.WithRates(c.ParkingRates()),
		parking.WithContinuousThreshold(c.ContinuousThreshold),
	}
}

func (c *Config) Telemetry() parking.TelemetryConfig {
	return parking.TelemetryConfig{
		ServiceName: c.OTel.ServiceName,
		Endpoint:    c.OTel.Endpoint,
		Environment: c.Environment,
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envOrBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envOrDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
