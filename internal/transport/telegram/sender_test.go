package telegram

import (
	"context"
	"strings"
	"testing"

	"github.com/sandevgo/recall/internal/core"
	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

func TestPaginate(t *testing.T) {
	assert.Equal(t, []string{"short"}, paginate("short", 10))
	assert.Empty(t, paginate("  \n\n ", 10))

	// paragraphs are packed while they fit
	assert.Equal(t, []string{"aaa\n\nbbb", "cccccc"}, paginate("aaa\n\nbbb\n\ncccccc", 10))

	// a long paragraph is cut on its line breaks
	text := strings.Repeat("a", 8) + "\n" + strings.Repeat("b", 8)
	assert.Equal(t, []string{strings.Repeat("a", 8), strings.Repeat("b", 8)}, paginate(text, 10))

	// no break at all: hard cut
	pages := paginate(strings.Repeat("c", 25), 10)
	assert.Len(t, pages, 3)
	for _, p := range pages {
		assert.LessOrEqual(t, len(p), 10)
	}
}

func TestPictureURL(t *testing.T) {
	tests := map[string]string{
		"[Open picture](https://img.example/cat.PNG)\n\nType your answer": "https://img.example/cat.PNG",
		"[x](https://img.example/a.jpg?size=large)":                      "https://img.example/a.jpg?size=large",
		"[docs](https://example.com/help) [pic](http://h/b.webp)":        "http://h/b.webp",
		"[page](https://example.com/cat)":                                "",
		"no links here":                                                  "",
	}
	for md, want := range tests {
		assert.Equal(t, want, pictureURL(md), md)
	}
}

func TestCommand(t *testing.T) {
	tests := map[string]string{
		"/start":               "start",
		"/stop now":            "stop",
		"/question@recall_bot": "question",
		"/Stop":                "stop",
		"cat":                  "",
		"":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, command(in), in)
	}
}

func TestLearnerID(t *testing.T) {
	assert.Equal(t, "telegram-42", LearnerID(42))
	assert.Equal(t, "telegram--100", LearnerID(-100))
}

type namedCommand struct{ name, desc string }

func (c namedCommand) Name() string        { return c.name }
func (c namedCommand) Description() string { return c.desc }
func (c namedCommand) Execute(context.Context, string, []string) (string, error) {
	return "", nil
}

func TestMenu(t *testing.T) {
	got := menu([]core.Command{
		namedCommand{"progress", "Show totals"},
		namedCommand{"question", "Show the current question"},
	})
	assert.Equal(t, []tele.Command{
		{Text: "progress", Description: "Show totals"},
		{Text: "question", Description: "Show the current question"},
		{Text: "stop", Description: "Stop the daily progress digest"},
	}, got)
}
