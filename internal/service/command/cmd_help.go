package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/recall/internal/core"
)

type HelpCommand struct {
	commands  []core.Command
	formatter *ResponseFormatter
}

func NewHelpCommand(commands []core.Command) *HelpCommand {
	return &HelpCommand{
		commands:  commands,
		formatter: NewResponseFormatter(),
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List available commands"
}

func (c *HelpCommand) Execute(ctx context.Context, learnerID string, args []string) (string, error) {
	all := append([]core.Command{c}, c.commands...)
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name() < all[j].Name()
	})

	items := make([]string, 0, len(all))
	for _, cmd := range all {
		line := fmt.Sprintf("/%s - %s", cmd.Name(), cmd.Description())
		if a, ok := cmd.(core.Aliased); ok && len(a.Aliases()) > 0 {
			line += " (also /" + strings.Join(a.Aliases(), ", /") + ")"
		}
		items = append(items, line)
	}

	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
		c.formatter.Tip("anything that is not a command is taken as your answer."),
	), nil
}
