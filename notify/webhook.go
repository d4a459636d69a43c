package notify

import (
	"bytes"
	"context"
	"encoding/json"
	c "evently-backend/context"
	"evently-backend/logger"
	"fmt"
	"net/http"
)

// NewWebhook returns an emitter that posts notifications as JSON to url.
func NewWebhook(url string) Emitter {
	return &webhookEmitter{url: url}
}

type webhookEmitter struct {
	url        string
	httpClient http.Client
}

func (e *webhookEmitter) Emit(ctx context.Context, kind string, payload interface{}) {
	// A hanging endpoint must not stall delivery past the request timeout.
	ctx, cancel := c.NewContextWithTimeOut(ctx, c.DefaultHttpTimeout)
	defer cancel()

	statusCode, err := e.post(ctx, message{Kind: kind, Payload: payload})
	if err != nil {
		logger.Errorf(ctx, "emit: unable to post %s notification: status code: %d: %+v", kind, statusCode, err)
	}
}

func (e *webhookEmitter) post(ctx context.Context, m message) (int, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return 0, fmt.Errorf("post: error marshalling notification: %s", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := e.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res.StatusCode, fmt.Errorf("post: notification endpoint returned %s", res.Status)
	}

	return res.StatusCode, nil
}
