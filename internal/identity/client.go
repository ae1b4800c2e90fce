package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kersley/attend/internal/log"
)

const (
	defaultTimeout = 10 * time.Second

	// confirmThrottle is how long a negative confirmation check is cached
	// so repeated `continue` commands do not hammer the API.
	confirmThrottle = 3 * time.Second

	confirmedCacheKey = "confirmed"
)

// Client is the HTTP implementation of Service against the conference
// account API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	mu           sync.Mutex
	pendingEmail string

	// cache throttles confirmation-status checks. A positive result is
	// cached without expiry; a negative one only for confirmThrottle.
	cache *gocache.Cache
}

var _ Service = (*Client)(nil)

// NewClient creates a client for the account API at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
		cache:   gocache.New(confirmThrottle, time.Minute),
	}
}

// apiError is the error payload shape of the account API.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Provision starts passwordless account creation for the email.
func (c *Client) Provision(ctx context.Context, email string) (ProvisionResult, error) {
	ctx, span := otel.Tracer("attend/identity").Start(ctx, "identity.provision")
	defer span.End()
	span.SetAttributes(attribute.String("identity.email_domain", emailDomain(email)))

	body, status, err := c.post(ctx, "/v1/accounts/provision", map[string]any{"email": email})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return ProvisionResult{}, err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
		c.setPending(email)
		log.Info(log.CatIdentity, "Account provisioned", "status", "confirmation_required")
		return ProvisionResult{Status: StatusConfirmationRequired, Email: email}, nil
	case http.StatusConflict:
		log.Info(log.CatIdentity, "Account already exists")
		return ProvisionResult{Status: StatusAlreadyExists, Email: email}, nil
	default:
		err := apiFailure("provisioning account", status, body)
		span.SetStatus(codes.Error, err.Error())
		return ProvisionResult{}, err
	}
}

// CheckConfirmed reports whether the pending identity confirmed its email.
func (c *Client) CheckConfirmed(ctx context.Context) (bool, error) {
	email := c.pending()
	if email == "" {
		return false, fmt.Errorf("no identity is pending confirmation")
	}

	if cached, ok := c.cache.Get(confirmedCacheKey); ok {
		return cached.(bool), nil
	}

	ctx, span := otel.Tracer("attend/identity").Start(ctx, "identity.check_confirmed")
	defer span.End()

	body, status, err := c.post(ctx, "/v1/accounts/status", map[string]any{"email": email})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	if status != http.StatusOK {
		err := apiFailure("checking confirmation", status, body)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	var payload struct {
		Confirmed bool `json:"confirmed"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false, fmt.Errorf("decoding confirmation status: %w", err)
	}

	if payload.Confirmed {
		c.cache.Set(confirmedCacheKey, true, gocache.NoExpiration)
	} else {
		c.cache.Set(confirmedCacheKey, false, confirmThrottle)
	}
	return payload.Confirmed, nil
}

// Resend triggers a new confirmation mail.
func (c *Client) Resend(ctx context.Context, email string) error {
	ctx, span := otel.Tracer("attend/identity").Start(ctx, "identity.resend")
	defer span.End()

	body, status, err := c.post(ctx, "/v1/accounts/resend", map[string]any{"email": email})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if status != http.StatusOK && status != http.StatusAccepted {
		err := apiFailure("resending confirmation", status, body)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	// A resend invalidates any cached negative status.
	c.cache.Delete(confirmedCacheKey)
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("account service unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) setPending(email string) {
	c.mu.Lock()
	c.pendingEmail = email
	c.mu.Unlock()
}

func (c *Client) pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingEmail
}

// apiFailure builds an error from a non-success API response, preferring
// the service's own message when one is present.
func apiFailure(op string, status int, body []byte) error {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return fmt.Errorf("%s: %s", op, e.Message)
	}
	return fmt.Errorf("%s: unexpected status %d", op, status)
}

// emailDomain extracts the domain part for span attributes; the local
// part is never recorded.
func emailDomain(email string) string {
	for i := len(email) - 1; i >= 0; i-- {
		if email[i] == '@' {
			return email[i+1:]
		}
	}
	return ""
}
