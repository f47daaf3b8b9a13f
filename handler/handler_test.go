package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aofei/air"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faq-assistant/faq-assistant/answer"
	"github.com/faq-assistant/faq-assistant/base"
	"github.com/faq-assistant/faq-assistant/model"
)

func TestMain(m *testing.M) {
	if _, err := base.LoadConfig(
		base.Viper,
		filepath.Join(os.TempDir(), "faq-assistant-missing", "config.toml"),
	); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// newTestAir returns a new instance of the `air.Air` with all the handlers
// registered.
func newTestAir(t *testing.T) *air.Air {
	t.Helper()

	a := air.New()
	a.RendererTemplateRoot = filepath.Join("..", "templates")
	register(a)

	return a
}

// serve serves the req by the a and returns the recorded response.
func serve(a *air.Air, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	a := newTestAir(t)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var h model.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.Equal(t, "Backend is running!", h.Message)
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantAnswer string
	}{
		{
			name:       "greets",
			body:       `{"question":"Hello, what can you do?"}`,
			wantStatus: http.StatusOK,
			wantAnswer: answer.Greeting,
		},
		{
			name:       "identifies",
			body:       `{"question":"who are you?"}`,
			wantStatus: http.StatusOK,
			wantAnswer: answer.Identity,
		},
		{
			name:       "falls back",
			body:       `{"question":"pricing info"}`,
			wantStatus: http.StatusOK,
			wantAnswer: `You asked: "pricing info". (This is a placeholder answer — AI integration coming soon!)`,
		},
		{
			name:       "rejects empty question",
			body:       `{"question":""}`,
			wantStatus: http.StatusBadRequest,
			wantAnswer: answer.EmptyPrompt,
		},
		{
			name:       "rejects whitespace question",
			body:       `{"question":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantAnswer: answer.EmptyPrompt,
		},
		{
			name:       "rejects missing question",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantAnswer: answer.EmptyPrompt,
		},
		{
			name:       "rejects non-string question",
			body:       `{"question":42}`,
			wantStatus: http.StatusBadRequest,
			wantAnswer: answer.EmptyPrompt,
		},
		{
			name:       "rejects malformed body",
			body:       `{"question":`,
			wantStatus: http.StatusBadRequest,
			wantAnswer: answer.EmptyPrompt,
		},
		{
			name:       "rejects empty body",
			body:       ``,
			wantStatus: http.StatusBadRequest,
			wantAnswer: answer.EmptyPrompt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAir(t)

			req := httptest.NewRequest(
				http.MethodPost,
				"/api/ask",
				strings.NewReader(tt.body),
			)
			req.Header.Set("Content-Type", "application/json")
			rec := serve(a, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var ar model.AskResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ar))
			assert.Equal(t, tt.wantAnswer, ar.Answer)
		})
	}
}

func TestAsk_Idempotent(t *testing.T) {
	a := newTestAir(t)

	answers := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(
			http.MethodPost,
			"/api/ask",
			strings.NewReader(`{"question":"Do you ship?"}`),
		)
		rec := serve(a, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var ar model.AskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ar))
		answers = append(answers, ar.Answer)
	}

	assert.Equal(t, answers[0], answers[1])
}

func TestCORS(t *testing.T) {
	a := newTestAir(t)

	t.Run("answers preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/ask", nil)
		req.Header.Set("Origin", "https://faq.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
		rec := serve(a, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.MethodPost, rec.Header().Get("Access-Control-Allow-Methods"))

		allowedHeaders := strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers"))
		assert.Contains(t, allowedHeaders, "content-type")
		assert.Contains(t, allowedHeaders, "authorization")
	})

	t.Run("rejects disallowed method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/ask", nil)
		req.Header.Set("Origin", "https://faq.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
		rec := serve(a, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("sets origin on actual request", func(t *testing.T) {
		req := httptest.NewRequest(
			http.MethodPost,
			"/api/ask",
			strings.NewReader(`{"question":"hello"}`),
		)
		req.Header.Set("Origin", "https://faq.example.com")
		rec := serve(a, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestID(t *testing.T) {
	a := newTestAir(t)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = serve(a, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	a := newTestAir(t)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", rec.Body.String())

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/ask", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReqLogger(t *testing.T) {
	req := &air.Request{Context: context.Background()}
	assert.Equal(t, &base.Logger, reqLogger(req))
}
