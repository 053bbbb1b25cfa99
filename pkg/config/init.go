package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const configHeader = `# ntstm Configuration File
#
# Every key can be overridden with an environment variable named
# NTSTM_<SECTION>_<KEY>, for example NTSTM_BUFFER_CHUNK_SIZE=1Mi.
# Sizes accept human-readable units: 4096, 64Ki, 1Mi, 1GB.

`

// InitConfig writes a default configuration file to the default path and
// returns that path. An existing file is only replaced when force is set.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a default configuration file to path.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	cfg := GetDefaultConfig()
	if err := SaveConfig(cfg, path); err != nil {
		return err
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read back config file: %w", err)
	}
	var out bytes.Buffer
	out.WriteString(configHeader)
	out.Write(body)
	if err := os.WriteFile(path, out.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Render returns cfg as YAML, as written by SaveConfig.
func Render(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
