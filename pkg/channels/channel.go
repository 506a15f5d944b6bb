// Package channels provides the channel interface and management for
// multi-platform support.
package channels

import (
	"context"
)

// Channel represents a communication channel (Telegram, webchat, etc).
type Channel interface {
	// ID returns the unique channel identifier.
	ID() string

	// Name returns the human-readable channel name.
	Name() string

	// Start starts the channel and begins listening for messages.
	Start(ctx context.Context) error

	// Stop stops the channel gracefully.
	Stop(ctx context.Context) error

	// IsEnabled returns whether the channel is enabled in configuration.
	IsEnabled() bool

	// Capabilities returns the rendering capabilities the channel
	// advertises, e.g. "inlineButtons".
	Capabilities() []string
}
