package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faq-assistant/faq-assistant/model"
)

func TestRespond(t *testing.T) {
	tests := []struct {
		name     string
		question model.Question
		want     model.Answer
		wantKind Kind
		wantErr  error
	}{
		{
			name:     "rejects empty question",
			question: "",
			wantErr:  ErrEmptyQuestion,
		},
		{
			name:     "rejects whitespace-only question",
			question: "   ",
			wantErr:  ErrEmptyQuestion,
		},
		{
			name:     "greets on hello",
			question: "Hello, what can you do?",
			want:     Greeting,
			wantKind: KindGreeting,
		},
		{
			name:     "greets on hello in any case",
			question: "well HELLO there",
			want:     Greeting,
			wantKind: KindGreeting,
		},
		{
			name:     "identifies on who are you",
			question: "who are you?",
			want:     Identity,
			wantKind: KindIdentity,
		},
		{
			name:     "identifies on who are you in any case",
			question: "Tell me, WHO ARE YOU",
			want:     Identity,
			wantKind: KindIdentity,
		},
		{
			name:     "hello wins over who are you",
			question: "who are you? hello",
			want:     Greeting,
			wantKind: KindGreeting,
		},
		{
			name:     "falls back with the input verbatim",
			question: "pricing info",
			want:     `You asked: "pricing info". (This is a placeholder answer — AI integration coming soon!)`,
			wantKind: KindFallback,
		},
		{
			name:     "fallback keeps original case and spacing",
			question: "  Do You SHIP?  ",
			want:     `You asked: "  Do You SHIP?  ". (This is a placeholder answer — AI integration coming soon!)`,
			wantKind: KindFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind, err := Respond(tt.question)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestRespond_Idempotent(t *testing.T) {
	for _, q := range []model.Question{"hello", "who are you", "anything else"} {
		first, _, err := Respond(q)
		require.NoError(t, err)
		second, _, err := Respond(q)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestRespond_GreetingPrefix(t *testing.T) {
	got, _, err := Respond("Hello, what can you do?")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "Hi there!"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "greeting", KindGreeting.String())
	assert.Equal(t, "identity", KindIdentity.String())
	assert.Equal(t, "fallback", KindFallback.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
