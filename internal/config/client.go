package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ClientEnvPrefix prefixes the CLI's environment overrides, e.g. SPARTAN_API_URL.
const ClientEnvPrefix = "SPARTAN"

// ClientConfig holds the settings of the spartan CLI.
type ClientConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultClientConfigFile is where the CLI keeps its settings and session.
func DefaultClientConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "spartan", "config.yaml")
}

// ClientStore reads and persists the CLI configuration file.
type ClientStore struct {
	v    *viper.Viper
	file string
}

// LoadClientConfig reads file, if it exists, and SPARTAN_* overrides.
func LoadClientConfig(file string) (ClientConfig, *ClientStore, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(ClientEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	v.AutomaticEnv()

	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("token", "")
	v.SetDefault("timeout", "60s")

	store := &ClientStore{v: v, file: file}
	if _, err := os.Stat(file); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return ClientConfig{}, nil, fmt.Errorf("read %s: %w", file, err)
		}
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ClientConfig{}, nil, err
	}
	return cfg, store, nil
}

// SaveToken persists token (empty to sign out) to the config file.
func (s *ClientStore) SaveToken(token string) error {
	s.v.Set("token", token)
	if err := os.MkdirAll(filepath.Dir(s.file), 0o700); err != nil {
		return err
	}
	return s.v.WriteConfigAs(s.file)
}
