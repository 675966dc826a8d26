package cli

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/sandevgo/recall/internal/core"
	"github.com/stretchr/testify/assert"
)

type fakeCommand struct {
	name    string
	aliases []string
}

func (c fakeCommand) Name() string        { return c.name }
func (c fakeCommand) Description() string { return c.name }
func (c fakeCommand) Aliases() []string   { return c.aliases }
func (c fakeCommand) Execute(context.Context, string, []string) (string, error) {
	return "", nil
}

func complete(commands []core.Command, line string) []string {
	got, _ := completer(commands).Do([]rune(line), len(line))
	out := make([]string, 0, len(got))
	for _, g := range got {
		out = append(out, strings.TrimSpace(string(g)))
	}
	sort.Strings(out)
	return out
}

func TestCompleter(t *testing.T) {
	commands := []core.Command{
		fakeCommand{name: "question", aliases: []string{"next", "q"}},
		fakeCommand{name: "progress"},
		fakeCommand{name: "reset"},
	}

	assert.Equal(t, []string{"xt"}, complete(commands, "/ne"))
	assert.Equal(t, []string{"set"}, complete(commands, "/re"))
	assert.Equal(t, []string{"rogress"}, complete(commands, "/p"))
}
