package domain

import "errors"

var (
	// ErrGameNotFound is returned when a player acts before opening a game.
	ErrGameNotFound = errors.New("game not found")
	// ErrInvalidPlayer is returned for an empty player id.
	ErrInvalidPlayer = errors.New("player id is required")
	// ErrInvalidMode indicates an unknown session mode.
	ErrInvalidMode = errors.New("invalid session mode")
	// ErrInvalidPattern indicates an unknown question pattern.
	ErrInvalidPattern = errors.New("invalid question pattern")
	// ErrInvalidTable indicates a focus table outside 2..9.
	ErrInvalidTable = errors.New("focus table must be between 2 and 9")
	// ErrUnsupportedBackend indicates an unknown storage backend in config.
	ErrUnsupportedBackend = errors.New("unsupported storage backend")
)
