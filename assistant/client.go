package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/faq-assistant/faq-assistant/answer"
	"github.com/faq-assistant/faq-assistant/model"
)

// Client asks questions to the answer service.
type Client interface {
	// Ask returns the answer to the q.
	Ask(ctx context.Context, q model.Question) (model.Answer, error)
}

// HTTPClient is a `Client` talking to the answer service over HTTP.
type HTTPClient struct {
	client   *resty.Client
	endpoint string
}

// NewHTTPClient returns a new instance of the `HTTPClient` posting questions
// to the endpoint. A zero timeout means no timeout.
func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:   resty.New().SetTimeout(timeout),
		endpoint: endpoint,
	}
}

// Ask implements the `Client`.
func (hc *HTTPClient) Ask(
	ctx context.Context,
	q model.Question,
) (model.Answer, error) {
	var ar model.AskResponse
	res, err := hc.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(model.AskRequest{Question: string(q)}).
		SetResult(&ar).
		Post(hc.endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to post question: %w", err)
	}

	if res.IsError() {
		return "", fmt.Errorf("unexpected status: %s", res.Status())
	}

	return model.Answer(ar.Answer), nil
}

// LocalClient is a `Client` answering questions in-process.
type LocalClient struct{}

// Ask implements the `Client`.
func (LocalClient) Ask(
	_ context.Context,
	q model.Question,
) (model.Answer, error) {
	a, _, err := answer.Respond(q)
	return a, err
}
