package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config carries the daemon settings. Unknown keys are rejected so a typo in
// the file surfaces at startup instead of silently falling back to defaults.
type Config struct {
	DataDir          string `toml:"DataDir"`
	NetworkName      string `toml:"NetworkName"`
	LogEnv           string `toml:"LogEnv"`
	MetricsAddress   string `toml:"MetricsAddress"`
	PlatformWallet   string `toml:"PlatformWallet"`
	RewardRatePerDay uint64 `toml:"RewardRatePerDay"`
}

// Load reads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	for _, undecoded := range meta.Undecoded() {
		return nil, fmt.Errorf("config: unknown key %q in %s", undecoded.String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field-level constraints that TOML decoding cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: DataDir must not be empty")
	}
	if c.PlatformWallet != "" {
		if _, err := c.PlatformWalletAddress(); err != nil {
			return err
		}
	}
	return nil
}

// PlatformWalletAddress decodes the configured fee wallet hex address.
func (c *Config) PlatformWalletAddress() ([20]byte, error) {
	var addr [20]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(c.PlatformWallet), "0x")
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return addr, fmt.Errorf("config: decode PlatformWallet: %w", err)
	}
	if len(decoded) != len(addr) {
		return addr, fmt.Errorf("config: PlatformWallet must be %d bytes, got %d", len(addr), len(decoded))
	}
	copy(addr[:], decoded)
	return addr, nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir:          "./data",
		NetworkName:      "dealchain-local",
		RewardRatePerDay: 0,
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
