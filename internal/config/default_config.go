package config

import (
	"gopkg.in/yaml.v3"
)

// LoadDefaultConfig parses the full config template for C# and returns the Config it describes
func LoadDefaultConfig() (*Config, error) {
	return ParseTemplate(GetFullConfigTemplate(LanguageCSharp, ModeReuseReport))
}

// ParseTemplate decodes a YAML config document on top of the defaults
func ParseTemplate(content string) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
