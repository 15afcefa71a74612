package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/velvetkeys/cadence/internal/bindable"
)

// Playback rate bounds enforced at the configuration boundary, before
// a value can reach the clock chain.
const (
	MinRate  = 0.5
	MaxRate  = 2.0
	RateStep = 0.1
)

// MaxAudioOffset bounds the user audio offset to ±500ms.
const MaxAudioOffset = 500.0

// Config is the top-level configuration for a Cadence session.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Audio    AudioConfig    `json:"audio"`
	Playback PlaybackConfig `json:"playback"`
}

// ServerConfig holds debug dashboard server settings.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// AudioConfig holds audio timing settings. All values in milliseconds.
type AudioConfig struct {
	// Offset is the user audio-offset correction, positive meaning
	// audio is heard late.
	Offset float64 `json:"offset"`
	// LeadIn is how long before time zero gameplay begins.
	LeadIn float64 `json:"lead_in"`
}

// PlaybackConfig holds playback settings.
type PlaybackConfig struct {
	Rate float64 `json:"rate"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Audio: AudioConfig{
			Offset: 0,
			LeadIn: 1000,
		},
		Playback: PlaybackConfig{
			Rate: 1.0,
		},
	}
}

// Validate checks that the config is valid.
func (c Config) Validate() error {
	if c.Playback.Rate < MinRate || c.Playback.Rate > MaxRate {
		return fmt.Errorf("playback rate must be in [%.1f, %.1f], got %g", MinRate, MaxRate, c.Playback.Rate)
	}
	if c.Audio.LeadIn < 0 {
		return fmt.Errorf("lead-in must be non-negative, got %g", c.Audio.LeadIn)
	}
	if c.Audio.Offset < -MaxAudioOffset || c.Audio.Offset > MaxAudioOffset {
		return fmt.Errorf("audio offset must be in [%g, %g], got %g", -MaxAudioOffset, MaxAudioOffset, c.Audio.Offset)
	}
	return nil
}

// LoadFile reads a JSON config file and merges it with defaults.
// Fields not specified in the file retain their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	// Pointer fields distinguish "absent" from a legitimate zero.
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	if raw.Server.Addr != "" {
		cfg.Server.Addr = raw.Server.Addr
	}
	if raw.Audio.Offset != nil {
		cfg.Audio.Offset = *raw.Audio.Offset
	}
	if raw.Audio.LeadIn != nil {
		cfg.Audio.LeadIn = *raw.Audio.LeadIn
	}
	if raw.Playback.Rate != nil {
		cfg.Playback.Rate = *raw.Playback.Rate
	}

	return cfg, nil
}

type rawConfig struct {
	Server struct {
		Addr string `json:"addr"`
	} `json:"server"`
	Audio struct {
		Offset *float64 `json:"offset"`
		LeadIn *float64 `json:"lead_in"`
	} `json:"audio"`
	Playback struct {
		Rate *float64 `json:"rate"`
	} `json:"playback"`
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	example := `{
  "server": {
    "addr": ":8080"
  },
  "audio": {
    "offset": 0,
    "lead_in": 1000
  },
  "playback": {
    "rate": 1.0
  }
}
`
	return os.WriteFile(path, []byte(example), 0o644)
}

// Settings is the live view of user preferences. The audio offset is
// observable so the clock chain follows changes without a restart;
// nothing here persists across runs.
type Settings struct {
	// AudioOffset is the user audio-offset in milliseconds.
	AudioOffset *bindable.BoundedDouble
}

// NewSettings creates live settings seeded from cfg.
func NewSettings(cfg Config) *Settings {
	return &Settings{
		AudioOffset: bindable.NewBoundedDouble(cfg.Audio.Offset, -MaxAudioOffset, MaxAudioOffset, 1),
	}
}
