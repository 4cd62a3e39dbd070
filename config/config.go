// Package config loads the editor settings: an embedded default document
// that an on-disk flaremap.yaml next to the binary can override.
package config

import (
	"embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed flaremap.yaml
var defaultsFS embed.FS

// FileName is the on-disk override looked for in the working directory.
const FileName = "flaremap.yaml"

type Settings struct {
	Tile      TileSettings      `yaml:"tile"`
	Map       MapSettings       `yaml:"map"`
	Canvas    CanvasSettings    `yaml:"canvas"`
	Autosave  AutosaveSettings  `yaml:"autosave"`
	Detection DetectionSettings `yaml:"detection"`
}

type TileSettings struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type MapSettings struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type CanvasSettings struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type AutosaveSettings struct {
	StandardSeconds int `yaml:"standard_seconds"`
	CriticalSeconds int `yaml:"critical_seconds"`
	RetrySeconds    int `yaml:"retry_seconds"`
}

func (a AutosaveSettings) Standard() time.Duration { return time.Duration(a.StandardSeconds) * time.Second }
func (a AutosaveSettings) Critical() time.Duration { return time.Duration(a.CriticalSeconds) * time.Second }
func (a AutosaveSettings) Retry() time.Duration    { return time.Duration(a.RetrySeconds) * time.Second }

type DetectionSettings struct {
	AlphaThreshold int `yaml:"alpha_threshold"`
}

// Load reads the settings, preferring a flaremap.yaml in the working
// directory over the embedded defaults.
func Load() (*Settings, error) {
	data, err := os.ReadFile(FileName)
	if err != nil {
		data, err = defaultsFS.ReadFile(FileName)
		if err != nil {
			return nil, fmt.Errorf("config: load defaults: %w", err)
		}
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", FileName, err)
	}
	return &s, nil
}

// Default returns the embedded settings without checking the disk.
func Default() (*Settings, error) {
	data, err := defaultsFS.ReadFile(FileName)
	if err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("config: unmarshal defaults: %w", err)
	}
	return &s, nil
}
