package model

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// FollowUpMarker is the prefix of an answer line that suggests a follow-up
// question.
const FollowUpMarker = "- "

// followUpMarkerRE matches the leading marker of a follow-up line.
var followUpMarkerRE = regexp.MustCompile(`^-+\s*`)

// Answer is an answer to a `Question`. It may span multiple lines.
type Answer string

// Lines returns the non-empty trimmed lines of the a in order.
func (a Answer) Lines() []Line {
	return lo.FilterMap(
		strings.Split(string(a), "\n"),
		func(s string, _ int) (Line, bool) {
			s = strings.TrimSpace(s)
			if s == "" {
				return Line{}, false
			}

			if strings.HasPrefix(s, FollowUpMarker) {
				return Line{
					Text:     followUpMarkerRE.ReplaceAllString(s, ""),
					FollowUp: true,
				}, true
			}

			return Line{Text: s}, true
		},
	)
}

// Line is a line of an `Answer`.
type Line struct {
	// Text is the text of the line. For a follow-up line it has the
	// marker stripped.
	Text string

	// FollowUp indicates whether the line is a suggested follow-up
	// question rather than prose.
	FollowUp bool
}

// Block is a rendered `Line`.
type Block struct {
	Line

	// HTML is the rendered prose. It is empty for a follow-up line.
	HTML template.HTML
}
