package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

const (
	defaultNetwork       = "base"
	defaultMode          = "mainnet"
	defaultAlgorithm     = "fastest"
	defaultConfirmations = 1

	configFile  = "config.json"
	walletsFile = "wallets.json"
	tokensFile  = "tokens.json"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.forgectl.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".forgectl")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}
	if cfg.Confirmations == 0 {
		cfg.Confirmations = defaultConfirmations
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// AddRPC adds a custom RPC URL for a chain.
func (c *Config) AddRPC(chain, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[chain], url) {
		return fmt.Errorf("RPC %s already exists for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = append(c.CustomRPCs[chain], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a chain.
func (c *Config) RemoveRPC(chain, url string) error {
	rpcs := c.CustomRPCs[chain]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = slices.Delete(rpcs, idx, idx+1)
	return nil
}

// GetRPCs returns custom RPCs for a chain.
func (c *Config) GetRPCs(chain string) []string {
	return c.CustomRPCs[chain]
}

// FactoryOverride returns the configured factory address for a chain, or ""
// when the registry default applies.
func (c *Config) FactoryOverride(chain string) string {
	return c.FactoryOverrides[chain]
}

// SetFactoryOverride records a custom factory address for a chain.
// An empty address removes the override.
func (c *Config) SetFactoryOverride(chain, address string) {
	if c.FactoryOverrides == nil {
		c.FactoryOverrides = make(map[string]string)
	}
	if address == "" {
		delete(c.FactoryOverrides, chain)
		return
	}
	c.FactoryOverrides[chain] = address
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath returns the wallets.json path inside the config dir.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// TokensPath returns the tokens.json path inside the config dir.
func (c *Config) TokensPath() string {
	return filepath.Join(c.configDir, tokensFile)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		DefaultNetwork: defaultNetwork,
		NetworkMode:    defaultMode,
		RPCAlgorithm:   defaultAlgorithm,
		Confirmations:  defaultConfirmations,
		CustomRPCs:     make(map[string][]string),
		configDir:      dir,
	}
}
