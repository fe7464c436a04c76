package orchestrators

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	emailAdapter "planning/internal/adapters/email"
	"planning/internal/domain/booking"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderMarkdown converts a markdown body to HTML.
func RenderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// toSendRequest renders msg for one recipient with the markdown kept as the text part.
func toSendRequest(msg booking.Message, to, from, replyTo string) (emailAdapter.SendRequest, error) {
	html, err := RenderMarkdown(msg.Body)
	if err != nil {
		return emailAdapter.SendRequest{}, err
	}
	return emailAdapter.SendRequest{
		To:      []string{to},
		From:    from,
		Subject: msg.Subject,
		HTML:    html,
		Text:    msg.Body,
		ReplyTo: replyTo,
	}, nil
}
