// Package notify delivers the evaluation outcome e-mail by calling a remote
// mail function over HTTP. Delivery is best-effort relative to the persisted
// decision: a failed send never rolls the decision back.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/saydemoon/internship-portal/internal/common"
	"github.com/saydemoon/internship-portal/internal/server/models"
)

// Notification is the payload of one evaluation e-mail.
type Notification struct {
	ToEmail  string          `json:"toEmail"`
	FullName string          `json:"fullName"`
	Status   models.Decision `json:"status"`
	Feedback string          `json:"feedback"`
}

// Notifier sends one evaluation notification.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// EmailNotifier posts notifications to a mail function endpoint,
// authorizing with a bearer key. Every call is bounded by the configured
// timeout; the original web client had no such bound.
type EmailNotifier struct {
	client *resty.Client
	url    string
	apiKey string
}

// NewEmailNotifier constructs an EmailNotifier for the given endpoint.
func NewEmailNotifier(url, apiKey string, timeout time.Duration) *EmailNotifier {
	client := resty.New().SetTimeout(timeout)
	return &EmailNotifier{client: client, url: url, apiKey: apiKey}
}

// Send posts the notification. Any transport failure or non-2xx response
// yields an error wrapping common.ErrorNotify.
func (e *EmailNotifier) Send(ctx context.Context, n Notification) error {
	req := e.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(n)
	if e.apiKey != "" {
		req.SetAuthToken(e.apiKey)
	}

	resp, err := req.Post(e.url)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorNotify, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: status %d: %s", common.ErrorNotify, resp.StatusCode(), resp.String())
	}

	return nil
}
