package config

import (
	"fmt"
	"time"

	"github.com/phrazzld/pairmatch/internal/domain"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log     LogConfig             `mapstructure:"log" validate:"required"`
	Storage StorageConfig         `mapstructure:"storage" validate:"required"`
	Game    GameConfig            `mapstructure:"game"`
	Audio   AudioConfig           `mapstructure:"audio"`
	Levels  []domain.LevelConfig  `mapstructure:"levels" validate:"min=1"`
	Cards   []domain.CardIdentity `mapstructure:"cards" validate:"min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig selects the result store backend. URL is a file path for
// sqlite, a connection URL for postgres and an address or redis:// URL for
// redis; it is ignored by the memory driver.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=memory sqlite postgres redis"`
	URL    string `mapstructure:"url" validate:"required_unless=Driver memory"`
}

// GameConfig contains presenter timing hints and the deal seed.
// The engine itself never waits; these values tell the presenter when to
// call PreviewComplete and CommitResolution.
type GameConfig struct {
	PreviewDuration time.Duration `mapstructure:"preview_duration" validate:"gte=0"`
	RevealDelay     time.Duration `mapstructure:"reveal_delay" validate:"gte=0"`
	FlipDuration    time.Duration `mapstructure:"flip_duration" validate:"gte=0"`
	// Seed fixes the shuffle when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

// AudioConfig contains mixer volumes and the clip table.
type AudioConfig struct {
	MusicVolume float64     `mapstructure:"music_volume" validate:"gte=0,lte=1"`
	SFXVolume   float64     `mapstructure:"sfx_volume" validate:"gte=0,lte=1"`
	Clips       []AudioClip `mapstructure:"clips" validate:"dive"`
}

// AudioClip maps a sound event name to a clip and its volume.
type AudioClip struct {
	Name   string  `mapstructure:"name" validate:"required"`
	Path   string  `mapstructure:"path" validate:"required"`
	Volume float64 `mapstructure:"volume" validate:"gte=0,lte=1"`
}

// DefaultLevels returns the level menu used when none is configured.
func DefaultLevels() []domain.LevelConfig {
	return []domain.LevelConfig{
		{LevelID: "level-1", GridWidth: 4, GridHeight: 4},
		{LevelID: "level-2", GridWidth: 4, GridHeight: 5},
		{LevelID: "level-3", GridWidth: 6, GridHeight: 6},
	}
}

// DefaultCards returns a card catalog large enough for the default levels.
func DefaultCards() []domain.CardIdentity {
	cards := make([]domain.CardIdentity, 18)
	for i := range cards {
		cards[i] = domain.CardIdentity{
			ID:         i + 1,
			DisplayRef: fmt.Sprintf("cards/card_%02d.png", i+1),
			Label:      fmt.Sprintf("Card %d", i+1),
		}
	}
	return cards
}

// DefaultClips returns one clip per sound event at full volume.
func DefaultClips() []AudioClip {
	names := []string{"CardFlip", "Match", "Mismatch", "GameOver", "GameStart"}
	clips := make([]AudioClip, len(names))
	for i, name := range names {
		clips[i] = AudioClip{Name: name, Path: "audio/" + name + ".wav", Volume: 1}
	}
	return clips
}
