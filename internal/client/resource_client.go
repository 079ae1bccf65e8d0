// Package client holds the HTTP clients for the inter-service handshake:
// the identity service's calls into the resource service (uniqueness check,
// credential validation, registration sync) and the resource service's JWKS
// fetch from the identity service.
//
// Every call carries a bounded timeout and fails closed: transport errors and
// non-2xx responses surface to the caller, never get swallowed, and are never
// retried here.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"auth-fabric/internal/model"
)

const defaultTimeout = 5 * time.Second

// ResourceClient is the identity service's view of the resource service.
type ResourceClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewResourceClient(baseURL string, timeout time.Duration) *ResourceClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &ResourceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CheckUsername asks the resource service whether a username is taken.
func (c *ResourceClient) CheckUsername(ctx context.Context, username string) (bool, error) {
	endpoint := c.baseURL + "/check-username?username=" + url.QueryEscape(username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build check-username request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: check-username: %v", model.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: check-username returned status %d", model.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body struct {
		Exists bool `json:"exists"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("%w: decode check-username response: %v", model.ErrUpstreamUnavailable, err)
	}

	return body.Exists, nil
}

// ValidateCredentials performs the cross-service password check. A 401 means
// the credentials were rejected; any other non-200 is an upstream failure.
func (c *ResourceClient) ValidateCredentials(ctx context.Context, username string, password string) error {
	payload, err := json.Marshal(model.ValidateUserRequest{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("encode validate-user request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate-user", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build validate-user request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: validate-user: %v", model.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return model.ErrInvalidCredentials
	default:
		return fmt.Errorf("%w: validate-user returned status %d", model.ErrUpstreamUnavailable, resp.StatusCode)
	}
}

// SyncUser pushes a newly registered user to the resource service's mirror.
// Anything but a 201 fails the registration as a whole.
func (c *ResourceClient) SyncUser(ctx context.Context, user model.SyncUserRequest) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode sync request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: register sync: %v", model.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: register sync returned status %d", model.ErrSyncFailed, resp.StatusCode)
	}

	return nil
}
