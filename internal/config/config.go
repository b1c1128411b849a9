package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

const defaultRefreshRateMs = 1000

// Load reads the service configuration from the given YAML file.
func Load(path string) (*PanelServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := struct {
		PanelService PanelServiceConfig `yaml:"PanelService"`
	}{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	out := cfg.PanelService
	if out.RefreshRateMs <= 0 {
		out.RefreshRateMs = defaultRefreshRateMs
	}
	if out.ModuleDir == "" {
		out.ModuleDir = "./res/modules"
	}
	return &out, nil
}
