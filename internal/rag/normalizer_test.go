package rag

import (
	"strings"
	"testing"
)

func TestNormalizeMarkdownStripsFormatting(t *testing.T) {
	input := "## Latar Belakang\n\n**Phishing** adalah serangan *rekayasa sosial*. Lihat [OWASP](https://owasp.org) untuk detail.\n\n- serangan email\n- situs palsu\n1. kenali cirinya"
	got := NormalizeMarkdown(input)

	for _, forbidden := range []string{"##", "**", "](", "- serangan", "1. "} {
		if strings.Contains(got, forbidden) {
			t.Fatalf("normalized text still contains %q: %q", forbidden, got)
		}
	}
	for _, want := range []string{"Latar Belakang", "Phishing", "rekayasa sosial", "OWASP", "serangan email", "kenali cirinya"} {
		if !strings.Contains(got, want) {
			t.Fatalf("normalized text lost %q: %q", want, got)
		}
	}
}

func TestNormalizeMarkdownRemovesCodeBlocksAndImages(t *testing.T) {
	input := "Sebelum.\n```js\nalert('phish')\n```\n![diagram](img.png)\nSesudah."
	got := NormalizeMarkdown(input)

	if strings.Contains(got, "alert") || strings.Contains(got, "img.png") {
		t.Fatalf("code block or image survived: %q", got)
	}
	if !strings.Contains(got, "Sebelum.") || !strings.Contains(got, "Sesudah.") {
		t.Fatalf("prose around code block lost: %q", got)
	}
}

func TestNormalizeMarkdownPlainTextUnchanged(t *testing.T) {
	input := "Phishing adalah serangan rekayasa sosial. Pelaku menyamar sebagai pihak tepercaya."
	if got := NormalizeMarkdown(input); got != input {
		t.Fatalf("plain prose changed: %q", got)
	}
}

func TestNormalizeMarkdownEmpty(t *testing.T) {
	if got := NormalizeMarkdown("   \n\t "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
