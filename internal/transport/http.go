// Package transport executes commands against a Stash server over
// HTTP. It is the only place in the client that touches the network;
// everything above it works on command and response values.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"stash-go/internal/config"
	"stash-go/internal/rest"
	"stash-go/internal/stash"
	"stash-go/internal/wire"
)

const (
	defaultTimeout        = 60 * time.Second
	defaultConnectTimeout = 5 * time.Second
	defaultTLSTimeout     = 5 * time.Second

	headerApplicationID = "X-Stash-Application-Id"
	headerAPIKey        = "X-Stash-REST-API-Key"
	headerRequestID     = "X-Request-Id"
)

// Transport implements stash.Executor over net/http. It sets the
// application credential headers on every request and decodes the
// store's error documents on non-2xx responses. Retry and backoff are
// deliberately absent; that policy belongs to callers.
type Transport struct {
	baseURL string
	appID   string
	apiKey  string
	client  *http.Client
	idgen   stash.IDGenerator
}

// New creates a Transport for the server at baseURL. A non-positive
// timeout falls back to the default. The http.Client is built with
// explicit dial and TLS handshake timeouts rather than the zero-value
// defaults.
func New(baseURL, appID, apiKey string, timeout time.Duration) *Transport {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	dialer := &net.Dialer{Timeout: defaultConnectTimeout}
	return &Transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		appID:   appID,
		apiKey:  apiKey,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: defaultTLSTimeout,
			},
			Timeout: timeout,
		},
		idgen: stash.UUIDGenerator{},
	}
}

// NewFromConfig builds a Transport from the client configuration.
func NewFromConfig(cfg *config.Config) (*Transport, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server_url is not configured")
	}
	if cfg.ApplicationID == "" {
		return nil, fmt.Errorf("application_id is not configured")
	}
	return New(cfg.ServerURL, cfg.ApplicationID, cfg.APIKey, time.Duration(cfg.TimeoutSeconds)*time.Second), nil
}

// Do executes cmd and returns the raw response body. A non-2xx
// response carrying an error document comes back as *wire.Error;
// anything else non-2xx becomes a generic status error.
func (t *Transport) Do(ctx context.Context, cmd rest.Command) ([]byte, error) {
	var body io.Reader
	if cmd.Body != nil {
		body = bytes.NewReader(cmd.Body)
	}

	req, err := http.NewRequestWithContext(ctx, cmd.Method, t.baseURL+cmd.Path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set(headerApplicationID, t.appID)
	if t.apiKey != "" {
		req.Header.Set(headerAPIKey, t.apiKey)
	}
	req.Header.Set(headerRequestID, t.idgen.New())
	if cmd.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", cmd.Method, cmd.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if serr := wire.DecodeError(raw); serr != nil {
			return nil, serr
		}
		return nil, fmt.Errorf("%s %s: unexpected status %d", cmd.Method, cmd.Path, resp.StatusCode)
	}
	return raw, nil
}

var _ stash.Executor = (*Transport)(nil)
