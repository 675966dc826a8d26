package core

import "context"

type CmdRouter interface {
	Execute(ctx context.Context, learnerID, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, learnerID string, args []string) (string, error)
}

// Aliased is implemented by commands that answer to extra names.
type Aliased interface {
	Aliases() []string
}
