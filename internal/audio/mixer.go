// Package audio maps sound events to clips and volumes. Decoding and
// output are left to a Player supplied by the presenter.
package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/pairmatch/internal/config"
	"github.com/phrazzld/pairmatch/internal/events"
)

// Channel is a mixer bus.
type Channel string

const (
	ChannelMusic Channel = "music"
	ChannelSFX   Channel = "sfx"
)

// Clip is a playable sound.
type Clip struct {
	Name   string
	Path   string
	Volume float64
}

// Player outputs clips. Volume is the final, already mixed level in [0,1].
type Player interface {
	Play(ctx context.Context, channel Channel, clip Clip, volume float64) error
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(ctx context.Context, channel Channel, clip Clip, volume float64) error

// Play implements Player.
func (f PlayerFunc) Play(ctx context.Context, channel Channel, clip Clip, volume float64) error {
	return f(ctx, channel, clip, volume)
}

// Clamp01 limits v to [0,1].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Mixer plays the clip configured for each sound event.
// It implements events.EventHandler and is safe for concurrent use.
type Mixer struct {
	mu     sync.RWMutex
	clips  map[string]Clip
	music  float64
	sfx    float64
	player Player
	logger *slog.Logger
}

var _ events.EventHandler = (*Mixer)(nil)

// NewMixer builds a mixer from the audio configuration. Clip and bus
// volumes are clamped to [0,1]. A later clip with the same name replaces
// an earlier one.
func NewMixer(cfg config.AudioConfig, player Player, logger *slog.Logger) (*Mixer, error) {
	if player == nil {
		return nil, fmt.Errorf("audio player cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Mixer{
		clips:  make(map[string]Clip, len(cfg.Clips)),
		music:  Clamp01(cfg.MusicVolume),
		sfx:    Clamp01(cfg.SFXVolume),
		player: player,
		logger: logger.With(slog.String("component", "audio_mixer")),
	}
	for _, c := range cfg.Clips {
		m.clips[c.Name] = Clip{Name: c.Name, Path: c.Path, Volume: Clamp01(c.Volume)}
	}
	return m, nil
}

// HandleEvent plays the clip named after the event's sound on the SFX bus.
// Unknown sounds are logged and ignored.
func (m *Mixer) HandleEvent(ctx context.Context, event *events.Event) error {
	return m.play(ctx, ChannelSFX, string(event.Sound))
}

// PlaySFX plays the named clip on the SFX bus.
func (m *Mixer) PlaySFX(ctx context.Context, name string) error {
	return m.play(ctx, ChannelSFX, name)
}

// PlayMusic plays the named clip on the music bus.
func (m *Mixer) PlayMusic(ctx context.Context, name string) error {
	return m.play(ctx, ChannelMusic, name)
}

func (m *Mixer) play(ctx context.Context, channel Channel, name string) error {
	m.mu.RLock()
	clip, ok := m.clips[name]
	bus := m.sfx
	if channel == ChannelMusic {
		bus = m.music
	}
	m.mu.RUnlock()

	if !ok {
		m.logger.WarnContext(ctx, "sound not found", slog.String("sound", name))
		return nil
	}

	volume := Clamp01(clip.Volume * bus)
	if err := m.player.Play(ctx, channel, clip, volume); err != nil {
		m.logger.ErrorContext(ctx, "failed to play clip",
			slog.String("sound", name),
			slog.String("channel", string(channel)),
			slog.String("error", err.Error()))
		return fmt.Errorf("play %s: %w", name, err)
	}
	return nil
}

// SetMusicVolume sets the music bus volume, clamped to [0,1].
func (m *Mixer) SetMusicVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.music = Clamp01(v)
}

// SetSFXVolume sets the SFX bus volume, clamped to [0,1].
func (m *Mixer) SetSFXVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfx = Clamp01(v)
}

// MusicVolume returns the music bus volume.
func (m *Mixer) MusicVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.music
}

// SFXVolume returns the SFX bus volume.
func (m *Mixer) SFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfx
}

// Clip looks up a clip by name.
func (m *Mixer) Clip(name string) (Clip, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clips[name]
	return c, ok
}
