package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileEnvVar names the env var that points at an optional YAML config file
const ConfigFileEnvVar = "CONFIG_FILE"

// DefaultConfigFile is read when CONFIG_FILE is unset and the file exists
const DefaultConfigFile = "config.yaml"

// findConfigFile returns the YAML file to load, or "" when there is none.
// An explicit CONFIG_FILE must exist.
func findConfigFile() (string, error) {
	if path := os.Getenv(ConfigFileEnvVar); path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile, nil
	}
	return "", nil
}

// loadFile parses a YAML file into a koanf instance. An empty path yields an empty instance.
func loadFile(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if path == "" {
		return k, nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return k, nil
}

// fileKey maps an env var name to its path in the YAML file.
// The first underscore separates the section: OPENAI_API_KEY -> openai.api_key
func fileKey(envKey string) string {
	lower := strings.ToLower(envKey)
	section, rest, found := strings.Cut(lower, "_")
	if !found {
		return lower
	}
	return section + "." + rest
}
