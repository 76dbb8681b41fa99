package rag

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"phishing-paper-platform/models"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func TestBuildPromptModes(t *testing.T) {
	contextStr := "[Sumber 1: Abstrak - abstrak]\nPhishing adalah serangan rekayasa sosial."
	question := "Apa itu phishing?"

	normal := BuildPrompt(models.ModeNormal, contextStr, question)
	academic := BuildPrompt(models.ModeAcademic, contextStr, question)

	if normal == academic {
		t.Fatalf("modes must produce different prompts")
	}
	if !strings.Contains(academic, "(1) Definisi, (2) Penjelasan, (3) Referensi") {
		t.Fatalf("academic prompt missing structure instruction")
	}
	if !strings.Contains(normal, "ngobrol dengan teman") {
		t.Fatalf("normal prompt missing conversational instruction")
	}
	for _, prompt := range []string{normal, academic} {
		if !strings.Contains(prompt, contextStr) || !strings.Contains(prompt, question) {
			t.Fatalf("prompt missing context or question:\n%s", prompt)
		}
	}
}

func TestBuildPromptUnknownModeFallsBackToNormal(t *testing.T) {
	got := BuildPrompt("formal", "konteks", "tanya")
	want := BuildPrompt(models.ModeNormal, "konteks", "tanya")
	if got != want {
		t.Fatalf("unknown mode must use the normal template")
	}
}

func TestAnswerReturnsCompletion(t *testing.T) {
	composer := NewComposer(&stubCompleter{reply: "  Phishing adalah penipuan daring.  "}, time.Second)
	got := composer.Answer(context.Background(), models.ModeNormal, "konteks", "Apa itu phishing?")
	if got != "Phishing adalah penipuan daring." {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestAnswerFallsBackOnError(t *testing.T) {
	composer := NewComposer(&stubCompleter{err: fmt.Errorf("model unavailable")}, time.Second)
	got := composer.Answer(context.Background(), models.ModeAcademic, "konteks", "Apa itu phishing?")
	if got != FallbackReply {
		t.Fatalf("expected fallback reply, got %q", got)
	}
}

func TestAnswerFallsBackOnEmptyCompletion(t *testing.T) {
	composer := NewComposer(&stubCompleter{reply: "   "}, time.Second)
	got := composer.Answer(context.Background(), models.ModeNormal, "konteks", "Apa itu phishing?")
	if got != FallbackReply {
		t.Fatalf("expected fallback reply, got %q", got)
	}
}
