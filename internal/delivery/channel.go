package delivery

import "context"

// Channel delivers a snapshot export to an external durable sink as a
// text message plus a file attachment
type Channel interface {
	Send(ctx context.Context, message, filename string, payload []byte) error
}

// Noop is a Channel that discards everything. Used when no delivery
// target is configured and in tests.
type Noop struct{}

// Send discards the message
func (Noop) Send(ctx context.Context, message, filename string, payload []byte) error {
	return nil
}
