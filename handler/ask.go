package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/aofei/air"
	"github.com/tidwall/gjson"

	"github.com/faq-assistant/faq-assistant/answer"
	"github.com/faq-assistant/faq-assistant/model"
)

// hAsk handles requests to answer a question.
//
// A missing, non-string or blank "question" field is answered with 400 and
// `answer.EmptyPrompt`.
func hAsk(req *air.Request, res *air.Response) error {
	b, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}

	var q model.Question
	if gjson.ValidBytes(b) {
		if r := gjson.GetBytes(b, "question"); r.Type == gjson.String {
			q = model.Question(r.String())
		}
	}

	a, kind, err := answer.Respond(q)
	if errors.Is(err, answer.ErrEmptyQuestion) {
		countRejected()
		res.Status = http.StatusBadRequest
		return res.WriteJSON(model.AskResponse{
			Answer: answer.EmptyPrompt,
		})
	} else if err != nil {
		return err
	}

	countAnswer(kind)
	reqLogger(req).Debug().
		Str("kind", kind.String()).
		Msg("answered question")

	return res.WriteJSON(model.AskResponse{Answer: string(a)})
}
