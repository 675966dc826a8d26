package telegram

import (
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/sandevgo/recall/pkg/conv"
	"github.com/sandevgo/recall/pkg/log"
	tele "gopkg.in/telebot.v3"
)

// Telegram rejects messages above 4096 characters; leave room for tags.
const maxMessageLen = 4000

var mdLink = regexp.MustCompile(`\[[^\]]*\]\((https?://[^)\s]+)\)`)

var pictureExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

type sender struct {
	bot *tele.Bot
}

func newSender(bot *tele.Bot) *sender {
	return &sender{bot: bot}
}

// sendMarkdown delivers a tutor reply. A linked question picture goes out as
// a photo first; the text follows as HTML, split into paragraphs that fit a
// message. Silent mutes the whole reply.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string, silent bool) error {
	logger := log.FromCtx(ctx)

	opts := &tele.SendOptions{ParseMode: tele.ModeHTML, DisableNotification: silent}

	if url := pictureURL(md); url != "" {
		photo := &tele.Photo{File: tele.FromURL(url)}
		if _, err := s.bot.Send(to, photo, opts); err != nil {
			// the link stays in the text, so the learner can still open it
			logger.Warn().Err(err).Str("url", url).Msg("failed to send question picture")
		}
	}

	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		return nil
	}

	for i, msg := range paginate(html, maxMessageLen) {
		if _, err := s.bot.Send(to, msg, opts); err != nil {
			logger.Error().Err(err).Int("page", i).Int("len", len(msg)).Msg("failed to send telegram message")
			return err
		}
	}
	return nil
}

// pictureURL returns the first linked URL that points at an image file.
func pictureURL(md string) string {
	for _, m := range mdLink.FindAllStringSubmatch(md, -1) {
		u := m[1]
		if i := strings.IndexAny(u, "?#"); i >= 0 {
			u = u[:i]
		}
		if pictureExt[strings.ToLower(path.Ext(u))] {
			return m[1]
		}
	}
	return ""
}

// paginate packs paragraphs into pages of at most limit bytes. A paragraph
// longer than a page is cut on line breaks, then hard-cut.
func paginate(text string, limit int) []string {
	var pages []string
	var page strings.Builder

	flush := func() {
		if page.Len() > 0 {
			pages = append(pages, page.String())
			page.Reset()
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if page.Len() > 0 && page.Len()+2+len(para) > limit {
			flush()
		}
		for len(para) > limit {
			cut := strings.LastIndex(para[:limit], "\n")
			if cut <= 0 {
				cut = limit
			}
			flush()
			pages = append(pages, strings.TrimSpace(para[:cut]))
			para = strings.TrimSpace(para[cut:])
		}
		if para == "" {
			continue
		}
		if page.Len() > 0 {
			page.WriteString("\n\n")
		}
		page.WriteString(para)
	}
	flush()
	return pages
}
