package cmd

import (
	"errors"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// StoreConfig names one configured content-store backend: either a SQL DSN
// (opened through store/sqlstore) or an on-disk cdb directory (opened
// through store/cdbstore).
type StoreConfig struct {
	Kind       string `yaml:"kind"` // "sql" or "cdb"
	Connection string `yaml:"connection"`
	Directory  string `yaml:"directory"`
	Gzip       bool   `yaml:"gzip"`
}

// Config is the wikiparse.yaml shape: a config file supplies defaults,
// and CLI flags (root.go) override them.
type Config struct {
	Stores map[string]StoreConfig `yaml:"stores"`
}

// LoadConfig reads wikiparse.yaml from configDir. A missing file is not an
// error: commands that need a configured store report that separately.
func LoadConfig() (Config, error) {
	var result Config

	configFilename := path.Join(configDir, "wikiparse.yaml")
	if _, err := os.Stat(configFilename); errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}

	data, err := os.ReadFile(configFilename)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &result); err != nil {
		return Config{}, err
	}
	return result, nil
}
