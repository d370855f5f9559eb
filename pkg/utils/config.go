package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Access   AccessConfig
	Booking  BookingConfig
	Kafka    KafkaConfig
	Metrics  MetricsConfig
}

type AppConfig struct {
	Name         string
	Port         string
	Debug        bool
	LogPath      string
	Timezone     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

type DatabaseConfig struct {
	Driver   string // postgres | memory
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours     int
	CodeExpiryHours int
	CleanupInterval time.Duration
}

// AccessConfig holds the shared access code and the preset call-signs
// offered after the code is accepted.
type AccessConfig struct {
	Code     string
	Signages []string
}

type ResourceConfig struct {
	Key  string
	Name string
}

type BookingConfig struct {
	Resources    []ResourceConfig
	PrefillStart string // HH:MM
	PrefillEnd   string // HH:MM
	MaxRangeDays int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type MetricsConfig struct {
	Namespace string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "vehicle-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("APP_TIMEZONE", "Europe/Stockholm")
	viper.SetDefault("READ_TIMEOUT_SECONDS", 15)
	viper.SetDefault("WRITE_TIMEOUT_SECONDS", 15)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("SESSION_CODE_EXPIRY_HOURS", 168)
	viper.SetDefault("SESSION_CLEANUP_MINUTES", 60)
	viper.SetDefault("ACCESS_SIGNAGES", "MST,761,762,763,764,765")
	viper.SetDefault("BOOKING_RESOURCES", "big:Big Vehicle,small:Small Vehicle")
	viper.SetDefault("BOOKING_PREFILL_START", "09:00")
	viper.SetDefault("BOOKING_PREFILL_END", "17:00")
	viper.SetDefault("BOOKING_MAX_RANGE_DAYS", 366)
	viper.SetDefault("KAFKA_TOPIC", "vehicle-bookings")
	viper.SetDefault("METRICS_NAMESPACE", "vehicle_booking")

	// .env is optional, the environment always wins
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	viper.AutomaticEnv()

	resources, err := ParseResources(viper.GetString("BOOKING_RESOURCES"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Name:         viper.GetString("APP_NAME"),
			Port:         viper.GetString("PORT"),
			Debug:        viper.GetBool("DEBUG"),
			LogPath:      viper.GetString("LOG_PATH"),
			Timezone:     viper.GetString("APP_TIMEZONE"),
			ReadTimeout:  time.Duration(viper.GetInt("READ_TIMEOUT_SECONDS")) * time.Second,
			WriteTimeout: time.Duration(viper.GetInt("WRITE_TIMEOUT_SECONDS")) * time.Second,
			CORSOrigins:  SplitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours:     viper.GetInt("SESSION_EXPIRY_HOURS"),
			CodeExpiryHours: viper.GetInt("SESSION_CODE_EXPIRY_HOURS"),
			CleanupInterval: time.Duration(viper.GetInt("SESSION_CLEANUP_MINUTES")) * time.Minute,
		},
		Access: AccessConfig{
			Code:     viper.GetString("ACCESS_CODE"),
			Signages: SplitList(viper.GetString("ACCESS_SIGNAGES")),
		},
		Booking: BookingConfig{
			Resources:    resources,
			PrefillStart: viper.GetString("BOOKING_PREFILL_START"),
			PrefillEnd:   viper.GetString("BOOKING_PREFILL_END"),
			MaxRangeDays: viper.GetInt("BOOKING_MAX_RANGE_DAYS"),
		},
		Kafka: KafkaConfig{
			Brokers: SplitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		Metrics: MetricsConfig{
			Namespace: viper.GetString("METRICS_NAMESPACE"),
		},
	}

	return config, nil
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseResources parses "key:Name,key2:Name 2". A missing name falls back to the key.
func ParseResources(value string) ([]ResourceConfig, error) {
	var resources []ResourceConfig
	seen := make(map[string]bool)

	for _, item := range SplitList(value) {
		key, name, _ := strings.Cut(item, ":")
		key = strings.TrimSpace(key)
		name = strings.TrimSpace(name)
		if key == "" {
			return nil, fmt.Errorf("invalid resource entry %q", item)
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate resource key %q", key)
		}
		if name == "" {
			name = key
		}
		seen[key] = true
		resources = append(resources, ResourceConfig{Key: key, Name: name})
	}

	if len(resources) == 0 {
		return nil, fmt.Errorf("at least one bookable resource is required")
	}

	return resources, nil
}
