package handler

import (
	"github.com/aofei/air"

	"github.com/faq-assistant/faq-assistant/assistant"
	"github.com/faq-assistant/faq-assistant/base"
)

// hAssistantPage handles requests to get assistant page.
func hAssistantPage(req *air.Request, res *air.Response) error {
	return renderAssistant(req, res, assistant.NewSession(assistantClient))
}

// hAssistantAsk handles submissions of the assistant page.
//
// The page posts the typed "input" along with the pressed button: a
// "followup" or a "suggestion" carrying its question, or the form's own
// submit button.
func hAssistantAsk(req *air.Request, res *air.Response) error {
	s := assistant.NewSession(assistantClient)
	s.SetInput(paramString(req, "input"))

	var err error
	if q := paramString(req, "followup"); q != "" {
		err = s.Ask(req.Context, assistant.OriginFollowUp, q)
	} else if q := paramString(req, "suggestion"); q != "" {
		err = s.Ask(req.Context, assistant.OriginSuggestion, q)
	} else {
		err = s.Submit(req.Context)
	}

	if err != nil {
		return err
	}

	return renderAssistant(req, res, s)
}

// renderAssistant renders the assistant page showing the state of the s.
func renderAssistant(
	req *air.Request,
	res *air.Response,
	s *assistant.Session,
) error {
	return res.Render(map[string]interface{}{
		"PageTitle":     "Business FAQ Assistant",
		"CanonicalPath": "/assistant",
		"Suggestions": currentSuggestions().For(
			req.Header.Get("Accept-Language"),
		),
		"Input":        s.Input(),
		"Blocks":       s.Blocks(),
		"Loading":      s.Loading(),
		"ContactEmail": base.Viper.GetString("assistant.contact_email"),
	}, "assistant.html", "layouts/default.html")
}
