package config

import "errors"

var (
	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyName indicates the collection name is empty.
	ErrEmptyName = errors.New("config: collection name must not be empty")

	// ErrZeroMaxSupply indicates the supply cap is zero.
	ErrZeroMaxSupply = errors.New("config: max supply must be positive")

	// ErrInvalidPrice indicates a price is not a valid decimal 256-bit integer.
	ErrInvalidPrice = errors.New("config: invalid price")

	// ErrInvalidRoyalty indicates royalty basis points exceed 10000.
	ErrInvalidRoyalty = errors.New("config: royalty basis points exceed 10000")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
