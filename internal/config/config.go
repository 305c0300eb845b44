package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Profile holds one keyboard setup: which ports it talks to and how the
// widget is configured. Key-to-note bindings are deliberately not persisted.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	InPort  string `json:"in_port"`
	OutPort string `json:"out_port"`

	Orientation          string  `json:"orientation"` // "horizontal", "vertical-left", "vertical-right"
	KeyWidth             float32 `json:"key_width"`
	BlackWidthRatio      float32 `json:"black_width_ratio"`
	BlackLengthRatio     float32 `json:"black_length_ratio"`
	LowNote              int     `json:"low_note"`
	HighNote             int     `json:"high_note"`
	Channel              int     `json:"channel"` // 1-16
	Velocity             float32 `json:"velocity"`
	VelocityFromPosition bool    `json:"velocity_from_position"`
	BaseOctave           int     `json:"base_octave"`
	ScrollButtons        bool    `json:"scroll_buttons"`
}

// NewProfile creates a profile with sensible defaults and a generated ID.
func NewProfile() Profile {
	return Profile{
		ID:               uuid.New().String(),
		Name:             "Default",
		Orientation:      "horizontal",
		KeyWidth:         16,
		BlackWidthRatio:  0.7,
		BlackLengthRatio: 0.7,
		LowNote:          0,
		HighNote:         127,
		Channel:          1,
		Velocity:         1,
		BaseOctave:       6,
		ScrollButtons:    true,
	}
}

// Config holds application configuration.
type Config struct {
	CurrentProfileID string    `json:"current_profile_id"`
	Profiles         []Profile `json:"profiles"`
}

// configDir returns the platform-appropriate config directory
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "gopher-keys"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, returning defaults if not found
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		defaultProfile := NewProfile()
		return &Config{
			CurrentProfileID: defaultProfile.ID,
			Profiles:         []Profile{defaultProfile},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if len(cfg.Profiles) == 0 {
		defaultProfile := NewProfile()
		cfg.Profiles = []Profile{defaultProfile}
		cfg.CurrentProfileID = defaultProfile.ID
	}

	return &cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// CurrentProfile returns the selected profile, falling back to the first.
func (c *Config) CurrentProfile() *Profile {
	for i := range c.Profiles {
		if c.Profiles[i].ID == c.CurrentProfileID {
			return &c.Profiles[i]
		}
	}
	if len(c.Profiles) > 0 {
		return &c.Profiles[0]
	}
	return nil
}

// UpdateProfile replaces an existing profile by ID.
func (c *Config) UpdateProfile(p Profile) {
	for i := range c.Profiles {
		if c.Profiles[i].ID == p.ID {
			c.Profiles[i] = p
			return
		}
	}
}
