// Package ai answers free-form chat messages through an OpenAI-compatible
// completion API, or through a disabled stand-in when no key is set.
package ai

import "context"

// Provider turns a user's free-text message into a reply. Implementations
// must absorb their own failures: the returned string is always something
// a handler can send to the user as-is.
type Provider interface {
	Reply(ctx context.Context, text string) string
}

// Disabled is the Provider selected when no API key is configured.
type Disabled struct{}

func (Disabled) Reply(context.Context, string) string {
	return "Maaf, layanan AI sedang tidak aktif."
}
