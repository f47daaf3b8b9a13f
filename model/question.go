package model

import "strings"

// Question is a question asked by a user.
type Question string

// Blank reports whether the q is empty or contains only whitespace.
func (q Question) Blank() bool {
	return strings.TrimSpace(string(q)) == ""
}

// Normalized returns the lower-cased form of the q. It is only used for
// matching, answers always echo the raw q.
func (q Question) Normalized() string {
	return strings.ToLower(string(q))
}

// AskRequest is the body of the question-answering request.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the body of the question-answering response.
type AskResponse struct {
	Answer string `json:"answer"`
}

// Health is the body of the health check response.
type Health struct {
	Message string `json:"message"`
}
