package leadergeo

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds generator settings. Values come from an optional YAML
// file layered over the defaults; command-line flags override
// individual fields on top.
type Config struct {
	RPCURL         string `yaml:"rpc_url"`
	DBPath         string `yaml:"db_path"`
	Output         string `yaml:"output"`
	Overrides      string `yaml:"overrides"`
	RPCTimeoutSecs int    `yaml:"rpc_timeout_secs"`
}

// DefaultConfig returns the defaults the tool ships with.
func DefaultConfig() *Config {
	return &Config{
		RPCURL:         DefaultRPCURL,
		DBPath:         "./GeoLite2-City.mmdb",
		RPCTimeoutSecs: 30,
	}
}

// LoadConfig reads the YAML file at path over the defaults. An empty
// path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Timeout returns the configured RPC timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RPCTimeoutSecs) * time.Second
}
