package assistant

import (
	"bytes"
	"html/template"

	"github.com/samber/lo"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/faq-assistant/faq-assistant/model"
)

// markdown renders prose lines. Raw HTML is omitted.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Render renders the a into blocks in line order. Follow-up lines are left
// for the page to turn into actions, prose lines are rendered as Markdown.
func Render(a model.Answer) []model.Block {
	return lo.Map(a.Lines(), func(l model.Line, _ int) model.Block {
		if l.FollowUp {
			return model.Block{Line: l}
		}

		buf := bytes.Buffer{}
		if err := markdown.Convert([]byte(l.Text), &buf); err != nil {
			return model.Block{
				Line: l,
				HTML: template.HTML(template.HTMLEscapeString(l.Text)),
			}
		}

		return model.Block{Line: l, HTML: template.HTML(buf.String())}
	})
}
