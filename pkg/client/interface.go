package client

import (
	"context"
	"errors"
)

// Error classes surfaced by chat backends. Callers match them with
// errors.Is to decide what to show the user.
var (
	// ErrAuth indicates a missing or rejected API key.
	ErrAuth = errors.New("authentication failed")
	// ErrUnavailable indicates the endpoint could not be reached or
	// returned a server-side failure.
	ErrUnavailable = errors.New("inference endpoint unavailable")
	// ErrBadResponse indicates the endpoint answered with an unexpected shape.
	ErrBadResponse = errors.New("unexpected response from inference endpoint")
)

// ChatClient is one conversation turn against a hosted or local
// chat-completion backend.
type ChatClient interface {
	// Chat sends a single user prompt and returns the model's text reply.
	// imgB64 optionally carries a base64-encoded JPEG to attach to the
	// message; pass "" for text-only prompts.
	Chat(ctx context.Context, model, prompt, imgB64 string) (string, error)
}
