package conv

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	tgPolicy   = bluemonday.NewPolicy()

	mdEscaper = strings.NewReplacer(
		`\`, `\\`,
		"`", "\\`",
		"*", `\*`,
		"_", `\_`,
		"[", `\[`,
		"]", `\]`,
		"<", "&lt;",
		">", "&gt;",
	)
)

func init() {
	// Allowed tags https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

func render(md []byte, hook html.RenderNodeFunc) []byte {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags, RenderNodeHook: hook})
	return markdown.Render(p.Parse(md), renderer)
}

// MarkdownToTelegramHTML renders Markdown and keeps only the tags Telegram accepts.
// Lists become bullet or numbered lines and headings become bold, since
// Telegram has no tags for either.
func MarkdownToTelegramHTML(md []byte) string {
	return string(tgPolicy.SanitizeBytes(render(md, telegramNodes)))
}

func telegramNodes(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	switch n := node.(type) {
	case *ast.List:
		return ast.GoToNext, true
	case *ast.ListItem:
		if entering {
			io.WriteString(w, marker(n))
		} else {
			io.WriteString(w, "\n")
		}
		return ast.GoToNext, true
	case *ast.Heading:
		if entering {
			io.WriteString(w, "<b>")
		} else {
			io.WriteString(w, "</b>\n")
		}
		return ast.GoToNext, true
	}
	return ast.GoToNext, false
}

func marker(item *ast.ListItem) string {
	if item.ListFlags&ast.ListTypeOrdered == 0 {
		return "• "
	}
	n := 1
	if list, ok := item.GetParent().(*ast.List); ok {
		n = max(list.Start, 1)
		for _, sibling := range list.GetChildren() {
			if sibling == ast.Node(item) {
				break
			}
			n++
		}
	}
	return fmt.Sprintf("%d. ", n)
}

// MarkdownToText renders Markdown for a plain terminal.
func MarkdownToText(md []byte) string {
	text, err := html2text.FromString(string(render(md, nil)), html2text.Options{
		OmitLinks:    false,
		PrettyTables: true,
	})
	if err != nil {
		return string(md)
	}
	return strings.TrimSpace(text)
}

// EscapeMarkdown neutralizes Markdown syntax in user supplied text.
func EscapeMarkdown(s string) string {
	return mdEscaper.Replace(s)
}
