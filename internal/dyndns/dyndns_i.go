package dyndns

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	ilog "mcgate/internal/log"
)

const (
	DefaultEndpoint = "https://www.duckdns.org/update"
	domainSuffix    = ".duckdns.org"
)

// Updater points a dynamic DNS record at the instance's current public IP.
// Callers hold this interface and never branch on configuration presence;
// the disabled variant is a no-op, not an error.
type Updater interface {
	Enabled() bool
	FQDN() string
	Update(ctx context.Context, ip string) (updated bool, err error)
}

// New returns the DuckDNS updater when both domain and token are configured,
// otherwise the no-op variant.
func New(domain string, token string, timeout time.Duration) Updater {
	domain = strings.TrimSpace(domain)
	token = strings.TrimSpace(token)
	if domain == "" || token == "" {
		ilog.Component("dyndns").Warnf("duckdns domain or token not configured, dns updates disabled")
		return NopUpdater{}
	}
	u, err := NewUpdaterI(DefaultEndpoint, domain, token, timeout)
	if err != nil {
		ilog.Component("dyndns").Errorf("invalid dyndns endpoint, dns updates disabled: %v", err)
		return NopUpdater{}
	}
	return u
}

type NopUpdater struct{}

func (NopUpdater) Enabled() bool { return false }
func (NopUpdater) FQDN() string  { return "" }
func (NopUpdater) Update(ctx context.Context, ip string) (bool, error) {
	return false, nil
}

type UpdaterI struct {
	endpoint *url.URL
	domain   string
	token    string
	client   *http.Client
}

func NewUpdaterI(endpoint string, domain string, token string, timeout time.Duration) (*UpdaterI, error) {
	normalized := strings.TrimSpace(endpoint)
	if normalized == "" {
		return nil, fmt.Errorf("dyndns endpoint is required")
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid dyndns endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid dyndns endpoint, need scheme and host: %s", normalized)
	}

	clientTimeout := timeout
	if clientTimeout <= 0 {
		clientTimeout = 10 * time.Second
	}

	return &UpdaterI{
		endpoint: u,
		domain:   strings.TrimSpace(domain),
		token:    strings.TrimSpace(token),
		client: &http.Client{
			Timeout: clientTimeout,
		},
	}, nil
}

func (u *UpdaterI) Enabled() bool { return true }

func (u *UpdaterI) FQDN() string { return u.domain + domainSuffix }

// Update issues a single update request. The provider answers 200 with "OK"
// or "KO" in the body, so the body is inspected rather than trusting the
// transport-level success alone.
func (u *UpdaterI) Update(ctx context.Context, ip string) (bool, error) {
	logger := ilog.Component("dyndns")
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return false, fmt.Errorf("ip is required")
	}

	query := url.Values{}
	query.Set("domains", u.domain)
	query.Set("token", u.token)
	query.Set("ip", ip)

	endpoint := *u.endpoint
	endpoint.RawQuery = query.Encode()

	logger.Infof("updating dns record %s -> %s", u.FQDN(), ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return false, fmt.Errorf("build dns update request failed: %w", err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("dns update request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read dns update response failed: %w", err)
	}

	answer := strings.TrimSpace(string(body))
	logger.Infof("dns update response status=%d body=%q", resp.StatusCode, answer)
	if answer == "KO" || resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("dns provider rejected update for %s", u.FQDN())
	}
	return true, nil
}
