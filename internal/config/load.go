package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "PAIRMATCH"

// Load configuration from environment variables and an optional
// config.yaml in the working directory or ./config.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return finish(v)
}

// LoadFile loads configuration from the YAML file at path, then applies
// environment overrides. An empty path behaves like a missing file.
func LoadFile(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.url", "")
	v.SetDefault("game.preview_duration", "2s")
	v.SetDefault("game.reveal_delay", "1s")
	v.SetDefault("game.flip_duration", "300ms")
	v.SetDefault("game.seed", 0)
	v.SetDefault("audio.music_volume", 1.0)
	v.SetDefault("audio.sfx_volume", 1.0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func finish(v *viper.Viper) (*Config, error) {
	// Explicitly bind critical environment variables
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"log.level", EnvPrefix + "_LOG_LEVEL"},
		{"storage.driver", EnvPrefix + "_STORAGE_DRIVER"},
		{"storage.url", EnvPrefix + "_STORAGE_URL"},
		{"game.seed", EnvPrefix + "_GAME_SEED"},
	}
	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env.envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if len(cfg.Levels) == 0 {
		cfg.Levels = DefaultLevels()
	}
	if len(cfg.Cards) == 0 {
		cfg.Cards = DefaultCards()
	}
	if len(cfg.Audio.Clips) == 0 {
		cfg.Audio.Clips = DefaultClips()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags, then the level and card tables.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	levelIDs := make(map[string]struct{}, len(c.Levels))
	for i, level := range c.Levels {
		if err := level.Validate(); err != nil {
			return fmt.Errorf("configuration validation failed: levels[%d]: %w", i, err)
		}
		if _, dup := levelIDs[level.LevelID]; dup {
			return fmt.Errorf("configuration validation failed: duplicate level id %q", level.LevelID)
		}
		levelIDs[level.LevelID] = struct{}{}
	}

	cardIDs := make(map[int]struct{}, len(c.Cards))
	for i, card := range c.Cards {
		if _, dup := cardIDs[card.ID]; dup {
			return fmt.Errorf("configuration validation failed: cards[%d]: duplicate card id %d", i, card.ID)
		}
		cardIDs[card.ID] = struct{}{}
	}
	return nil
}
