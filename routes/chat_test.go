package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"phishing-paper-platform/internal/ai"
	"phishing-paper-platform/internal/config"
	"phishing-paper-platform/internal/rag"
	"phishing-paper-platform/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

type staticContents struct {
	items []models.Content
}

func (s *staticContents) ListContents(ctx context.Context) ([]models.Content, error) {
	return s.items, nil
}

func chatTestConfig() *config.Config {
	return &config.Config{
		MaxChunkSize:      800,
		RetrievalTopK:     4,
		MinSimilarity:     0,
		IngestConcurrency: 2,
		EmbedTimeoutSec:   5,
		AnswerTimeoutSec:  5,
	}
}

func newChatRouter(t *testing.T, contents []models.Content, completer rag.Completer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := chatTestConfig()
	embedder := ai.NewLocalEmbedder()
	index := rag.NewVectorIndex(embedder.ID(), embedder.Dimension())
	retriever, err := rag.NewRetriever(cfg, &staticContents{items: contents}, nil, embedder, index, nil)
	if err != nil {
		t.Fatalf("new retriever: %v", err)
	}
	if len(contents) > 0 {
		if _, err := retriever.IngestAll(context.Background()); err != nil {
			t.Fatalf("ingest: %v", err)
		}
	}

	composer := rag.NewComposer(completer, 0)

	router := gin.New()
	SetupChatRoutes(router, cfg, retriever, composer, nil)
	return router
}

func postChat(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	router := newChatRouter(t, nil, &stubCompleter{reply: "ok"})

	w := postChat(t, router, `{"message": "   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error_code"] != "invalid_input" {
		t.Fatalf("expected invalid_input, got %v", resp["error_code"])
	}
}

func TestChatAnswersWithSources(t *testing.T) {
	body := "Phishing adalah serangan rekayasa sosial yang menargetkan manusia."
	contents := []models.Content{{
		ID:    primitive.NewObjectID(),
		Title: "Abstrak",
		Slug:  "abstrak",
		Body:  body,
	}}
	router := newChatRouter(t, contents, &stubCompleter{reply: "Phishing adalah penipuan daring."})

	w := postChat(t, router, fmt.Sprintf(`{"message": %q, "mode": "academic"}`, body))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply != "Phishing adalah penipuan daring." {
		t.Fatalf("unexpected reply: %q", resp.Reply)
	}
	if resp.Mode != models.ModeAcademic {
		t.Fatalf("unexpected mode: %q", resp.Mode)
	}
	if len(resp.Sources) == 0 || resp.Sources[0].Title != "Abstrak" {
		t.Fatalf("expected Abstrak source, got %+v", resp.Sources)
	}
	if resp.ConversationID == "" {
		t.Fatalf("expected generated conversation id")
	}
}

func TestChatUnknownModeFallsBackToNormal(t *testing.T) {
	router := newChatRouter(t, nil, &stubCompleter{reply: "ok"})

	w := postChat(t, router, `{"message": "Apa itu phishing?", "mode": "formal"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp models.ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Mode != models.ModeNormal {
		t.Fatalf("unknown mode must degrade to normal, got %q", resp.Mode)
	}
}

func TestChatFallsBackWhenModelFails(t *testing.T) {
	router := newChatRouter(t, nil, &stubCompleter{err: fmt.Errorf("model unavailable")})

	w := postChat(t, router, `{"message": "Apa itu phishing?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("generation failure must still return 200, got %d", w.Code)
	}

	var resp models.ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply != rag.FallbackReply {
		t.Fatalf("expected fallback reply, got %q", resp.Reply)
	}
	if len(resp.Sources) != 0 {
		t.Fatalf("empty index must yield no sources, got %+v", resp.Sources)
	}
}
