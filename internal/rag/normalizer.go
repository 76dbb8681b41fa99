package rag

import (
	"regexp"
	"strings"
)

// Chapter bodies are stored as markdown. Embedding the raw markup drags
// heading/list syntax into the similarity space, so ingestion strips it down
// to plain prose first. Unrecognized syntax is left in place rather than
// rejected - normalization must never fail.
var (
	codeBlockRe = regexp.MustCompile("(?s)```.*?```")
	headingRe   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	boldRe      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe    = regexp.MustCompile(`\*(.+?)\*`)
	inlineRe    = regexp.MustCompile("`(.+?)`")
	imageRe     = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkRe      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	bulletRe    = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedRe  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
)

// NormalizeMarkdown strips markdown formatting and returns plain prose,
// preserving natural-language content and paragraph order.
func NormalizeMarkdown(markdown string) string {
	text := codeBlockRe.ReplaceAllString(markdown, "")
	text = imageRe.ReplaceAllString(text, "")
	text = headingRe.ReplaceAllString(text, "")
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = inlineRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	text = bulletRe.ReplaceAllString(text, "")
	text = numberedRe.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}
