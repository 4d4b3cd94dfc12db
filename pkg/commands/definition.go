package commands

import "context"

// Handler produces the text reply for a matched command.
type Handler func(ctx context.Context, req Request) (string, error)

// Definition binds a command name to its handler. The empty name is the
// fallback command and matches every message.
type Definition struct {
	Name        string
	Description string
	Usage       string
	Handler     Handler
}

// Request is what a handler sees after matching: Text is the trimmed
// remainder of the message with the command name removed.
type Request struct {
	Command   string
	Text      string
	Reference string
	CallerID  string
}
