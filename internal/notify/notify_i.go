package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ilog "mcgate/internal/log"
)

// Notifier posts short announcements to a webhook. It is fire-and-forget:
// failures are logged and never reach the caller.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

type webhookPayload struct {
	Content string `json:"content"`
}

// New returns the webhook notifier when a URL is configured, otherwise the
// no-op variant.
func New(webhookURL string, timeout time.Duration) Notifier {
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return NopNotifier{}
	}
	n, err := NewNotifierI(webhookURL, timeout)
	if err != nil {
		ilog.Component("notify").Errorf("invalid webhook url, notifications disabled: %v", err)
		return NopNotifier{}
	}
	return n
}

type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, message string) {
	ilog.Component("notify").Warnf("webhook url not configured, dropping notification: %s", message)
}

type NotifierI struct {
	endpoint *url.URL
	client   *http.Client
}

func NewNotifierI(webhookURL string, timeout time.Duration) (*NotifierI, error) {
	u, err := url.Parse(strings.TrimSpace(webhookURL))
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid webhook url, need scheme and host: %s", webhookURL)
	}

	clientTimeout := timeout
	if clientTimeout <= 0 {
		clientTimeout = 10 * time.Second
	}

	return &NotifierI{
		endpoint: u,
		client: &http.Client{
			Timeout: clientTimeout,
		},
	}, nil
}

func (n *NotifierI) Notify(ctx context.Context, message string) {
	logger := ilog.Component("notify")

	body, err := json.Marshal(webhookPayload{Content: message})
	if err != nil {
		logger.Errorf("marshal notification failed: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		logger.Errorf("build notification request failed: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Infof("sending notification: %s", message)
	resp, err := n.client.Do(req)
	if err != nil {
		logger.Errorf("send notification failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logger.Errorf("webhook answered status=%d", resp.StatusCode)
	}
}
