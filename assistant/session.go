// Package assistant implements the state and rendering rules of the assistant
// page.
package assistant

import (
	"context"
	"errors"
	"sync"

	"github.com/faq-assistant/faq-assistant/base"
	"github.com/faq-assistant/faq-assistant/model"
)

const (
	// NoAnswer is shown when the service returns an empty answer.
	NoAnswer = "No answer returned."

	// ErrorAnswer is shown when a question could not be answered.
	ErrorAnswer = "❌ Error fetching response. Please try again."
)

// ErrBusy means the form was submitted while a request is in flight.
var ErrBusy = errors.New("a question is already being answered")

// Origin is where a question was submitted from.
type Origin int

// The origins of questions.
const (
	OriginForm Origin = iota
	OriginSuggestion
	OriginFollowUp
)

// String implements the `fmt.Stringer`.
func (o Origin) String() string {
	switch o {
	case OriginForm:
		return "form"
	case OriginSuggestion:
		return "suggestion"
	case OriginFollowUp:
		return "follow-up"
	}

	return "unknown"
}

// Session is the state of one assistant page.
//
// Every submission gets a request ID. Only the response to the latest
// submission is applied, responses that resolve after a newer submission are
// discarded.
type Session struct {
	client Client

	mu      sync.Mutex
	input   string
	answer  model.Answer
	latest  uint64
	pending int
}

// NewSession returns a new instance of the `Session` asking the client.
func NewSession(client Client) *Session {
	return &Session{client: client}
}

// SetInput sets the typed input of the s.
func (s *Session) SetInput(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = input
}

// Input returns the typed input of the s.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Answer returns the displayed answer of the s.
func (s *Session) Answer() model.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answer
}

// Loading reports whether any submission of the s is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

// Blocks returns the rendered answer of the s.
func (s *Session) Blocks() []model.Block {
	return Render(s.Answer())
}

// Submit asks the typed input of the s.
func (s *Session) Submit(ctx context.Context) error {
	return s.Ask(ctx, OriginForm, s.Input())
}

// Ask asks the question from the origin and waits for the answer.
//
// A blank question is ignored. The typed input is cleared after the answer
// arrives only when the origin is `OriginForm`.
func (s *Session) Ask(ctx context.Context, origin Origin, question string) error {
	if model.Question(question).Blank() {
		return nil
	}

	s.mu.Lock()
	if origin == OriginForm && s.pending > 0 {
		s.mu.Unlock()
		return ErrBusy
	}

	s.latest++
	id := s.latest
	s.pending++
	s.answer = ""
	s.mu.Unlock()

	answer, err := s.client.Ask(ctx, model.Question(question))
	if err != nil {
		base.Logger.Error().Err(err).
			Str("origin", origin.String()).
			Msg("failed to ask question")
		answer = ErrorAnswer
	} else if answer == "" {
		answer = NoAnswer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending--
	if id != s.latest {
		base.Logger.Debug().
			Uint64("request_id", id).
			Uint64("latest_request_id", s.latest).
			Msg("discarded stale answer")
		return nil
	}

	s.answer = answer
	if origin == OriginForm {
		s.input = ""
	}

	return nil
}
