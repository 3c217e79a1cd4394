package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MapsConfig configures the map-tile and places provider.
type MapsConfig struct {
	// APIKey authorizes both tile/style requests and autocomplete calls.
	// Its absence is fatal at startup: degrading silently would let users
	// submit bookings with no coordinates and no visible explanation.
	APIKey              string
	BiasLatitude        float64
	BiasLongitude       float64
	SearchRadiusMeters  int
	AutocompleteTimeout time.Duration
}

// PickerConfig configures location-picker sessions.
type PickerConfig struct {
	DebounceWait  time.Duration
	LocateTimeout time.Duration
	// IdleTimeout is how long an untouched picker session survives before
	// the reaper closes it. Abandoned browser tabs never send a close.
	IdleTimeout time.Duration
}

// DatabaseConfig holds the optional place-cache database connection.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	WhatsAppNumber string
	Maps           MapsConfig
	Picker         PickerConfig
	CacheTTL       time.Duration
	// DB is nil when no database is configured; the place cache is then
	// disabled and every lookup goes to the provider.
	DB *DatabaseConfig
}

// Load reads configuration from BOOKING_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("WHATSAPP_NUMBER", "919876543210")
	// Bangalore city center, the picker's deterministic fallback and bias.
	v.SetDefault("MAPS_BIAS_LAT", 12.9629)
	v.SetDefault("MAPS_BIAS_LNG", 77.5775)
	v.SetDefault("MAPS_SEARCH_RADIUS_M", 30000)
	v.SetDefault("MAPS_AUTOCOMPLETE_TIMEOUT", "4s")
	v.SetDefault("PICKER_DEBOUNCE_WAIT", "300ms")
	v.SetDefault("PICKER_LOCATE_TIMEOUT", "5s")
	v.SetDefault("PICKER_IDLE_TIMEOUT", "10m")
	v.SetDefault("CACHE_TTL", "1h")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")

	apiKey := v.GetString("MAPS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("BOOKING_MAPS_API_KEY is required: the location picker cannot run without the maps provider key")
	}

	cfg := &ServiceConfig{
		Port:           v.GetString("SERVICE_PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		WhatsAppNumber: v.GetString("WHATSAPP_NUMBER"),
		Maps: MapsConfig{
			APIKey:              apiKey,
			BiasLatitude:        v.GetFloat64("MAPS_BIAS_LAT"),
			BiasLongitude:       v.GetFloat64("MAPS_BIAS_LNG"),
			SearchRadiusMeters:  v.GetInt("MAPS_SEARCH_RADIUS_M"),
			AutocompleteTimeout: v.GetDuration("MAPS_AUTOCOMPLETE_TIMEOUT"),
		},
		Picker: PickerConfig{
			DebounceWait:  v.GetDuration("PICKER_DEBOUNCE_WAIT"),
			LocateTimeout: v.GetDuration("PICKER_LOCATE_TIMEOUT"),
			IdleTimeout:   v.GetDuration("PICKER_IDLE_TIMEOUT"),
		},
		CacheTTL: v.GetDuration("CACHE_TTL"),
	}

	if host := v.GetString("DB_HOST"); host != "" {
		cfg.DB = &DatabaseConfig{
			Host:     host,
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		}
	}

	return cfg, nil
}
