package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/tetracoords/pkg/tetracoord"
	"github.com/gravitas-games/tetracoords/pkg/tspace"
	"github.com/gravitas-games/tetracoords/pkg/vector2d"
)

// Config holds all explorer configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Space   SpaceConfig   `yaml:"space"`
	JWT     JWTConfig     `yaml:"jwt"`
	Redis   RedisConfig   `yaml:"redis"`
	Session SessionConfig `yaml:"session"`
	Plot    PlotConfig    `yaml:"plot"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// PointConfig is a display point
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// SpaceConfig describes the tetracoord space served to viewers
type SpaceConfig struct {
	Orientation       string       `yaml:"orientation"` // up, dn, lf, rt
	Scale             float64      `yaml:"scale"`
	Origin            *PointConfig `yaml:"origin"`
	RotationDirection int          `yaml:"rotation_direction"` // 1 or -1
	Precision         int          `yaml:"precision"`
	DigitOrder        string       `yaml:"digit_order"` // h or l
}

// JWTConfig holds JWT authentication settings
type JWTConfig struct {
	Enabled             bool   `yaml:"enabled"`
	Issuer              string `yaml:"issuer"`
	PublicKeyURL        string `yaml:"public_key_url"`
	PublicKeyRefreshHrs int    `yaml:"public_key_refresh_hours"`
}

// RedisConfig holds Redis connection settings. An empty address disables
// the token blacklist.
type RedisConfig struct {
	Address         string `yaml:"address"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	BlacklistPrefix string `yaml:"blacklist_prefix"`
}

// SessionConfig holds explorer session settings
type SessionConfig struct {
	MaxViewers int `yaml:"max_viewers"`
}

// PlotConfig holds static plot export settings
type PlotConfig struct {
	Levels int     `yaml:"levels"`
	Width  float64 `yaml:"width"`  // inches
	Height float64 `yaml:"height"` // inches
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if _, err := cfg.Space.TspaceConfig(); err != nil {
		return nil, fmt.Errorf("invalid space config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets defaults for values not provided
func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Space.Orientation == "" {
		cfg.Space.Orientation = tetracoord.DefaultOrientation.String()
	}
	if cfg.Space.Scale == 0 {
		cfg.Space.Scale = 30
	}
	if cfg.Space.Origin == nil {
		cfg.Space.Origin = &PointConfig{X: 200, Y: 200}
	}
	if cfg.Space.RotationDirection == 0 {
		cfg.Space.RotationDirection = 1
	}
	if cfg.Space.DigitOrder == "" {
		cfg.Space.DigitOrder = tetracoord.DefaultOrder.String()
	}
	if cfg.JWT.PublicKeyRefreshHrs == 0 {
		cfg.JWT.PublicKeyRefreshHrs = 24
	}
	if cfg.Redis.BlacklistPrefix == "" {
		cfg.Redis.BlacklistPrefix = "blacklist:"
	}
	if cfg.Session.MaxViewers == 0 {
		cfg.Session.MaxViewers = 100
	}
	if cfg.Plot.Levels == 0 {
		cfg.Plot.Levels = 3
	}
	if cfg.Plot.Width == 0 {
		cfg.Plot.Width = 8
	}
	if cfg.Plot.Height == 0 {
		cfg.Plot.Height = 8
	}
}

// TspaceConfig converts the YAML form into a space configuration
func (sc SpaceConfig) TspaceConfig() (tspace.Config, error) {
	orientation, err := tetracoord.ParseOrientation(sc.Orientation)
	if err != nil {
		return tspace.Config{}, err
	}
	order, err := tetracoord.ParseDigitOrder(sc.DigitOrder)
	if err != nil {
		return tspace.Config{}, err
	}

	cfg := tspace.DefaultConfig()
	cfg.Orientation = orientation
	cfg.Order = order
	cfg.Precision = sc.Precision
	if sc.Scale != 0 {
		cfg.Scale = sc.Scale
	}
	if sc.RotationDirection != 0 {
		cfg.RotationDirection = sc.RotationDirection
	}
	if sc.Origin != nil {
		cfg.Origin = vector2d.New(sc.Origin.X, sc.Origin.Y)
	}
	return cfg, nil
}
