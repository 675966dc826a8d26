package command

import (
	"context"
	"sort"
	"strings"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

type Router struct {
	commands  []core.Command
	byName    map[string]core.Command
	formatter *ResponseFormatter
}

// New registers commands under their names and aliases. Later registrations
// never shadow an earlier name.
func New(commands []core.Command) *Router {
	r := &Router{
		byName:    make(map[string]core.Command),
		formatter: NewResponseFormatter(),
	}

	for _, cmd := range commands {
		r.commands = append(r.commands, cmd)
		r.register(cmd.Name(), cmd)
		if a, ok := cmd.(core.Aliased); ok {
			for _, alias := range a.Aliases() {
				r.register(alias, cmd)
			}
		}
	}
	sort.Slice(r.commands, func(i, j int) bool {
		return r.commands[i].Name() < r.commands[j].Name()
	})
	return r
}

func (r *Router) register(name string, cmd core.Command) {
	if _, taken := r.byName[name]; !taken {
		r.byName[name] = cmd
	}
}

// Execute runs input when it is a command. The bool reports whether it was one.
func (r *Router) Execute(ctx context.Context, learnerID, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	// groups address the bot as /question@recall_bot
	name, _, _ := strings.Cut(strings.TrimPrefix(parts[0], "/"), "@")
	name = strings.ToLower(name)

	cmd, ok := r.byName[name]
	if !ok {
		return r.unknown(name), true
	}

	result, err := cmd.Execute(ctx, learnerID, parts[1:])
	if err != nil {
		log.FromCtx(ctx).Debug().Err(err).Str("command", cmd.Name()).Msg("command failed")
		return r.formatter.Error(cmd.Name(), err), true
	}
	return result, true
}

func (r *Router) unknown(name string) string {
	msg := r.formatter.Failure("Unknown command /" + name)
	if s := r.suggest(name); s != "" {
		return r.formatter.Combine(msg, "Did you mean /"+s+"?\n")
	}
	return r.formatter.Combine(msg, "See /help.\n")
}

// suggest returns the only command name sharing a prefix with name, if any.
func (r *Router) suggest(name string) string {
	if name == "" {
		return ""
	}
	var match string
	for _, cmd := range r.commands {
		if strings.HasPrefix(cmd.Name(), name) || strings.HasPrefix(name, cmd.Name()) {
			if match != "" {
				return ""
			}
			match = cmd.Name()
		}
	}
	return match
}

// ListCommands returns the registered commands sorted by name, without aliases.
func (r *Router) ListCommands() []core.Command {
	return append([]core.Command(nil), r.commands...)
}
