package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Rewards  RewardsConfig  `yaml:"rewards"`
	Flights  FlightsConfig  `yaml:"flights"`
}

type HTTPConfig struct {
	Address        string `yaml:"address"`
	SwaggerDir     string `yaml:"swagger_dir"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (h HTTPConfig) Timeout() time.Duration {
	if h.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(h.TimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	BcryptCost      int    `yaml:"bcrypt_cost"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// RewardsConfig carries the business-rule constants of the Falcon Flyer
// program. Multipliers are keyed by seat class or tier name; missing keys
// fall back to the program defaults so a partial config stays safe.
type RewardsConfig struct {
	SeatClassMilesMultipliers  map[string]float64 `yaml:"seat_class_miles_multipliers"`
	TierMilesMultipliers       map[string]float64 `yaml:"tier_miles_multipliers"`
	SeatClassPointsMultipliers map[string]float64 `yaml:"seat_class_points_multipliers"`
	PointsPerMile              float64            `yaml:"points_per_mile"`
}

func (r RewardsConfig) SeatClassMilesMultiplier(class string) float64 {
	if v, ok := r.SeatClassMilesMultipliers[class]; ok && v > 0 {
		return v
	}
	if class == "business" {
		return 1.5
	}
	return 1.0
}

func (r RewardsConfig) TierMilesMultiplier(tier string) float64 {
	if v, ok := r.TierMilesMultipliers[tier]; ok && v > 0 {
		return v
	}
	switch tier {
	case "SILVER":
		return 1.25
	case "GOLD":
		return 1.5
	case "PLATINUM":
		return 2.0
	default:
		return 1.0
	}
}

func (r RewardsConfig) SeatClassPointsMultiplier(class string) float64 {
	if v, ok := r.SeatClassPointsMultipliers[class]; ok && v > 0 {
		return v
	}
	if class == "business" {
		return 1.5
	}
	return 1.0
}

func (r RewardsConfig) PointsRate() float64 {
	if r.PointsPerMile > 0 {
		return r.PointsPerMile
	}
	return 0.01
}

type FlightsConfig struct {
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

func (f FlightsConfig) CacheTTL() time.Duration {
	if f.CacheTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(f.CacheTTLSeconds) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
