package domain

import "context"

// Renderer turns report aggregates into an opaque artifact the engine does
// not inspect.
type Renderer interface {
	Render(ctx context.Context, userID string, report Report) (string, error)
}

// Notifier delivers a message to the user. Delivery is best-effort: the
// engine treats failures as non-fatal.
type Notifier interface {
	Send(ctx context.Context, userID, message string) error
}
