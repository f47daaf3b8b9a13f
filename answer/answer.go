// Package answer implements the question answering rules.
package answer

import (
	"errors"
	"strings"

	"github.com/faq-assistant/faq-assistant/model"
)

const (
	// Greeting is the answer to questions containing "hello".
	Greeting = "Hi there! 👋 How can I help you today?"

	// Identity is the answer to questions containing "who are you".
	Identity = "I’m your AI FAQ Assistant 🤖, built by Muktar Ibrahim."

	// EmptyPrompt is the answer sent back for blank questions.
	EmptyPrompt = "Please provide a question."
)

// ErrEmptyQuestion means a question is empty or whitespace-only.
var ErrEmptyQuestion = errors.New("empty question")

// Kind is the kind of an answer.
type Kind int

// The kinds of answers.
const (
	KindGreeting Kind = iota
	KindIdentity
	KindFallback
)

// String implements the `fmt.Stringer`.
func (k Kind) String() string {
	switch k {
	case KindGreeting:
		return "greeting"
	case KindIdentity:
		return "identity"
	case KindFallback:
		return "fallback"
	}

	return "unknown"
}

// rule is an answering rule.
type rule struct {
	kind    Kind
	keyword string
	answer  model.Answer
}

// rules are evaluated in order, the first match wins.
var rules = []rule{
	{kind: KindGreeting, keyword: "hello", answer: Greeting},
	{kind: KindIdentity, keyword: "who are you", answer: Identity},
}

// Respond returns the answer to the q and its kind.
//
// It returns `ErrEmptyQuestion` if the q is blank.
func Respond(q model.Question) (model.Answer, Kind, error) {
	if q.Blank() {
		return "", 0, ErrEmptyQuestion
	}

	nq := q.Normalized()
	for _, r := range rules {
		if strings.Contains(nq, r.keyword) {
			return r.answer, r.kind, nil
		}
	}

	return Fallback(q), KindFallback, nil
}

// Fallback returns the placeholder answer that echoes the q verbatim.
func Fallback(q model.Question) model.Answer {
	return model.Answer(
		`You asked: "` + string(q) +
			`". (This is a placeholder answer — AI integration coming soon!)`,
	)
}
