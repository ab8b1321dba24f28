// Package config handles the editor server configuration file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/khankhulgun/khanedit/models"
)

// Config is the root configuration file structure.
type Config struct {
	Listen string      `yaml:"listen,omitempty"`
	Layers []SeedLayer `yaml:"layers,omitempty"`
	View   InitialView `yaml:"view,omitempty"`
}

// SeedLayer declares a layer registered at startup.
type SeedLayer struct {
	ID        string                    `yaml:"id"`
	Name      string                    `yaml:"name"`
	ColorHint string                    `yaml:"color_hint,omitempty"`
	Visible   *bool                     `yaml:"visible,omitempty"`
	Style     *models.LayerStyleConfig  `yaml:"style,omitempty"`
	Data      *models.FeatureCollection `yaml:"data,omitempty"`
}

// InitialView seeds the viewport mirror.
type InitialView struct {
	Longitude float64 `yaml:"longitude,omitempty"`
	Latitude  float64 `yaml:"latitude,omitempty"`
	Zoom      float64 `yaml:"zoom,omitempty"`
}

// Load reads and parses the YAML configuration file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Listen == "" {
		cfg.Listen = ":3000"
	}
	return &cfg, nil
}
