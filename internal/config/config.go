package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/showcase/internal/carousel"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Carousel CarouselConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path    string
	History int
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr       string
	AdminToken string        `mapstructure:"admin_token"`
	WriteRate  float64       `mapstructure:"write_rate"`
	WriteBurst int           `mapstructure:"write_burst"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

// CarouselConfig holds card metrics in pixels and gesture tuning.
type CarouselConfig struct {
	CardWidth   float64 `mapstructure:"card_width"`
	Gap         float64
	CommitRatio float64 `mapstructure:"commit_ratio"`
	TapEpsilon  float64 `mapstructure:"tap_epsilon"`
	Transition  time.Duration
}

// UIConfig holds terminal presentation settings.
type UIConfig struct {
	APIURL      string  `mapstructure:"api_url"`
	PxPerColumn float64 `mapstructure:"px_per_column"`
	PxPerRow    float64 `mapstructure:"px_per_row"`
	CardHeight  float64 `mapstructure:"card_height"`
	FPS         int
}

// LogConfig holds zap settings. File is where the TUI writes its log.
type LogConfig struct {
	Level string
	File  string
}

// Geometry converts the carousel section into layout metrics.
func (c CarouselConfig) Geometry() carousel.Geometry {
	return carousel.Geometry{
		CardWidth:   c.CardWidth,
		Gap:         c.Gap,
		CommitRatio: c.CommitRatio,
		TapEpsilon:  c.TapEpsilon,
	}
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "showcase")
}

// Path returns the config file in use: $SHOWCASE_CONFIG or the default location.
func Path() string {
	if p := os.Getenv("SHOWCASE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "showcase", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix SHOWCASE_.
// An explicit path takes precedence over $SHOWCASE_CONFIG.
func Load(path string) (Config, error) {
	v := viper.New()

	g := carousel.DefaultGeometry()
	v.SetDefault("database.path", filepath.Join(dataDir(), "showcase.db"))
	v.SetDefault("database.history", 20)
	v.SetDefault("server.addr", "127.0.0.1:8787")
	v.SetDefault("server.admin_token", "")
	v.SetDefault("server.write_rate", 2.0)
	v.SetDefault("server.write_burst", 5)
	v.SetDefault("server.cache_ttl", "30s")
	v.SetDefault("carousel.card_width", g.CardWidth)
	v.SetDefault("carousel.gap", g.Gap)
	v.SetDefault("carousel.commit_ratio", g.CommitRatio)
	v.SetDefault("carousel.tap_epsilon", g.TapEpsilon)
	v.SetDefault("carousel.transition", carousel.DefaultTransition.String())
	v.SetDefault("ui.api_url", "")
	v.SetDefault("ui.px_per_column", 12.0)
	v.SetDefault("ui.px_per_row", 24.0)
	v.SetDefault("ui.card_height", 380.0)
	v.SetDefault("ui.fps", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dataDir(), "showcase.log"))

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("SHOWCASE_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "showcase"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SHOWCASE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Carousel.CardWidth <= 0 {
		return fmt.Errorf("config: carousel.card_width must be positive")
	}
	if c.Carousel.Gap < 0 {
		return fmt.Errorf("config: carousel.gap must not be negative")
	}
	if c.Carousel.CommitRatio <= 0 {
		return fmt.Errorf("config: carousel.commit_ratio must be positive")
	}
	if c.UI.PxPerColumn <= 0 || c.UI.PxPerRow <= 0 {
		return fmt.Errorf("config: ui.px_per_column and ui.px_per_row must be positive")
	}
	return nil
}

// Save writes the provided config to path (or Path() when empty), creating the
// config directory if needed. The admin token is stored in plain text; prefer
// SHOWCASE_SERVER_ADMIN_TOKEN.
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.history", cfg.Database.History)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.admin_token", cfg.Server.AdminToken)
	v.Set("server.write_rate", cfg.Server.WriteRate)
	v.Set("server.write_burst", cfg.Server.WriteBurst)
	v.Set("server.cache_ttl", cfg.Server.CacheTTL.String())
	v.Set("carousel.card_width", cfg.Carousel.CardWidth)
	v.Set("carousel.gap", cfg.Carousel.Gap)
	v.Set("carousel.commit_ratio", cfg.Carousel.CommitRatio)
	v.Set("carousel.tap_epsilon", cfg.Carousel.TapEpsilon)
	v.Set("carousel.transition", cfg.Carousel.Transition.String())
	v.Set("ui.api_url", cfg.UI.APIURL)
	v.Set("ui.px_per_column", cfg.UI.PxPerColumn)
	v.Set("ui.px_per_row", cfg.UI.PxPerRow)
	v.Set("ui.card_height", cfg.UI.CardHeight)
	v.Set("ui.fps", cfg.UI.FPS)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
