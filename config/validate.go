package config

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/relicforge/librelic-go/royalty"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}
	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}
	if cfg.Name == "" {
		return ErrEmptyName
	}
	if cfg.MaxSupply == 0 {
		return ErrZeroMaxSupply
	}
	if _, err := ParsePrice(cfg.PublicPrice); err != nil {
		return fmt.Errorf("%w: publicprice: %q", ErrInvalidPrice, cfg.PublicPrice)
	}
	if _, err := ParsePrice(cfg.Presale); err != nil {
		return fmt.Errorf("%w: presaleprice: %q", ErrInvalidPrice, cfg.Presale)
	}
	if cfg.RoyaltyBps > royalty.MaxBps {
		return fmt.Errorf("%w: %d", ErrInvalidRoyalty, cfg.RoyaltyBps)
	}
	return nil
}

// ParsePrice parses a decimal price string into a 256-bit integer.
// The empty string parses as zero.
func ParsePrice(s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return v, nil
}
