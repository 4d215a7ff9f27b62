// Package config loads, saves, and validates collection configuration. The
// file format is one key=value pair per line; lines starting with '#' and
// blank lines are ignored.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Config holds everything needed to stand up a collection.
type Config struct {
	DataDir  string // root for ledger db, state db, journal db
	LogLevel string // debug|info|warn|error, for embedding applications

	Name        string // collection display name
	Symbol      string // short ticker-style symbol
	MaxSupply   uint64 // immutable issuance cap
	PublicPrice string // decimal unit price for the public phase
	Presale     string // decimal unit price for the presale phase
	Placeholder string // pre-reveal descriptor returned for every id

	RoyaltyAddress string // royalty beneficiary; empty disables royalties
	RoyaltyBps     uint16 // royalty share in basis points
}

// DefaultConfig returns the default configuration. The data directory
// defaults to ~/.relic.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:     filepath.Join(home, ".relic"),
		LogLevel:    "info",
		Name:        "Relic Collection",
		Symbol:      "RELIC",
		MaxSupply:   10000,
		PublicPrice: "0",
		Presale:     "0",
		Placeholder: "unrevealed",
	}
}

// ConfigPath returns the conventional config file path under dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "collection.conf")
}

// LoadConfig reads a config file. Keys not present keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrConfigNotFound
		}
		return cfg, fmt.Errorf("config: read file: %w", err)
	}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, i+1, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "datadir":
			cfg.DataDir = value
		case "loglevel":
			cfg.LogLevel = value
		case "name":
			cfg.Name = value
		case "symbol":
			cfg.Symbol = value
		case "maxsupply":
			n, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: maxsupply: %w", ErrInvalidConfigLine, i+1, err)
			}
			cfg.MaxSupply = n
		case "publicprice":
			cfg.PublicPrice = value
		case "presaleprice":
			cfg.Presale = value
		case "placeholder":
			cfg.Placeholder = value
		case "royaltyaddress":
			cfg.RoyaltyAddress = value
		case "royaltybps":
			n, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: royaltybps: %w", ErrInvalidConfigLine, i+1, err)
			}
			cfg.RoyaltyBps = uint16(n)
		default:
			return cfg, fmt.Errorf("%w: line %d: unknown key %q", ErrInvalidConfigLine, i+1, key)
		}
	}

	return cfg, nil
}

// SaveConfig writes the config to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	entries := map[string]string{
		"datadir":        cfg.DataDir,
		"loglevel":       cfg.LogLevel,
		"name":           cfg.Name,
		"symbol":         cfg.Symbol,
		"maxsupply":      strconv.FormatUint(cfg.MaxSupply, 10),
		"publicprice":    cfg.PublicPrice,
		"presaleprice":   cfg.Presale,
		"placeholder":    cfg.Placeholder,
		"royaltyaddress": cfg.RoyaltyAddress,
		"royaltybps":     strconv.FormatUint(uint64(cfg.RoyaltyBps), 10),
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, entries[k])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write file: %w", err)
	}
	return nil
}
