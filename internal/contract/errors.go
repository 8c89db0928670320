package contract

import "errors"

// Sentinel errors. Wrap them with context and match with errors.Is().
var (
	// ErrInvalidWindow is returned when a reporting window cannot be parsed or is inverted.
	ErrInvalidWindow = errors.New("invalid reporting window")

	// ErrNoSource is returned when neither a source URL nor a source directory is configured.
	ErrNoSource = errors.New("no data source configured")

	// ErrUnknownPillar is returned when a pillar name is not one of the five pillars.
	ErrUnknownPillar = errors.New("unknown pillar")
)
