package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"phishing-paper-platform/internal/logger"
	"phishing-paper-platform/models"
)

// FallbackReply is returned whenever answer generation fails. The chat
// endpoint still responds 200 with this text instead of surfacing the error.
const FallbackReply = "Maaf, terjadi kesalahan. Silakan coba lagi."

// Completer generates a completion for a fully built prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Composer turns retrieved context plus a question into a final reply.
type Composer struct {
	completer Completer
	timeout   time.Duration
}

func NewComposer(completer Completer, timeout time.Duration) *Composer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Composer{completer: completer, timeout: timeout}
}

// BuildPrompt assembles the prompt for the given answer mode. Unknown modes
// fall back to the normal conversational template.
func BuildPrompt(mode, context, question string) string {
	if mode == models.ModeAcademic {
		return fmt.Sprintf(`Anda adalah asisten akademik yang memberikan jawaban formal dan terstruktur tentang makalah phishing dan keamanan siber.

KONTEKS DARI DOKUMEN:
%s

PERTANYAAN:
%s

INSTRUKSI:
- Berikan jawaban dalam format akademik yang formal
- Gunakan struktur: (1) Definisi, (2) Penjelasan, (3) Referensi
- Sebutkan sumber bab jika relevan (misal: "Berdasarkan Bab II...")
- Gunakan istilah teknis yang tepat
- JANGAN awali dengan "maaf" atau "mohon maaf"

Jawaban akademik:`, context, question)
	}

	return fmt.Sprintf(`Kamu adalah asisten yang membantu menjelaskan makalah tentang phishing dan keamanan siber.

KONTEKS DARI DOKUMEN:
%s

PERTANYAAN:
%s

INSTRUKSI:
- Jawab LANGSUNG berdasarkan konteks di atas
- Gunakan bahasa Indonesia yang mudah dipahami
- Jelaskan seperti sedang ngobrol dengan teman
- JANGAN awali dengan "maaf" atau "mohon maaf"
- Jika tidak ada info yang relevan, katakan "Informasi ini belum tersedia dalam dokumen"

Jawaban:`, context, question)
}

// Answer generates a reply for the question grounded in the given context.
// Generation failures never propagate: the caller always gets a usable
// reply, degraded to FallbackReply when the model is unavailable.
func (c *Composer) Answer(ctx context.Context, mode, contextStr, question string) string {
	answerCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := BuildPrompt(mode, contextStr, question)
	reply, err := c.completer.Complete(answerCtx, prompt)
	if err != nil {
		logger.Warn("Answer generation failed, using fallback reply", "mode", mode, "error", err)
		return FallbackReply
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return FallbackReply
	}
	return reply
}
