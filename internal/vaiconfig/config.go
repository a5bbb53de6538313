// Package vaiconfig persists an encoder profile (quality, threshold,
// min-region, fps override, concurrency) as YAML, so a profile tuned once
// can be reused across encode invocations without re-specifying flags.
package vaiconfig

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is the on-disk form of encoderpipeline.Config.
type Profile struct {
	Quality        int    `yaml:"quality"`
	Threshold      int    `yaml:"threshold"`
	MinRegion      int    `yaml:"min_region"`
	FPSNum         uint32 `yaml:"fps_num,omitempty"`
	FPSDen         uint32 `yaml:"fps_den,omitempty"`
	MaxConcurrency int    `yaml:"max_concurrency,omitempty"`
}

// Default returns the documented defaults from spec §4.4.
func Default() Profile {
	return Profile{Quality: 80, Threshold: 30, MinRegion: 64}
}

// WriteProfile writes p to a YAML file at path.
func WriteProfile(p Profile, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadProfile reads a Profile from a YAML file at path.
func ReadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
