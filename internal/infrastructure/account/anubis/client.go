package anubis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/matchday/internal/domain/user"
	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
)

var errAnubisTransient = errors.New("anubis transient failure")

const tokenCacheTTL = 60 * time.Second

// Client talks to the anubis account service. It introspects access tokens
// and provisions credential-holding accounts; this service never sees
// passwords beyond forwarding them here at registration.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	provisionURL  string
	adminKey      string
	breaker       *resilience.CircuitBreaker
	tokenCache    *cache.Store
	logger        *slog.Logger
}

func NewClient(httpClient *http.Client, baseURL, introspectPath, provisionPath, adminKey string, cbCfg resilience.CircuitBreakerConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	var breaker *resilience.CircuitBreaker
	if cbCfg.Enabled {
		cbCfg = resilience.NormalizeCircuitBreakerConfig(cbCfg)
		breaker = resilience.NewCircuitBreaker(cbCfg.FailureThreshold, cbCfg.OpenTimeout, cbCfg.HalfOpenMaxReq)
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(baseURL, introspectPath),
		provisionURL:  buildURL(baseURL, provisionPath),
		adminKey:      adminKey,
		breaker:       breaker,
		tokenCache:    cache.NewStore(tokenCacheTTL),
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	// Tokens are cached under their hash so a raw token never sits in the
	// cache keyspace.
	cacheKey := "introspect:" + hashToken(token)
	if v, ok := c.tokenCache.Get(ctx, cacheKey); ok {
		if principal, ok := v.(user.Principal); ok {
			return principal, nil
		}
	}

	decoded, err := c.introspect(ctx, token)
	if err != nil {
		return user.Principal{}, err
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	principal := user.Principal{
		UserID:  decoded.UserID,
		Email:   decoded.Email,
		Name:    decoded.Name,
		IsAdmin: decoded.IsAdmin,
	}
	c.tokenCache.Set(ctx, cacheKey, principal)

	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (introspectResponse, error) {
	var decoded introspectResponse

	body, status, err := c.post(ctx, c.introspectURL, introspectRequest{Token: token})
	if err != nil {
		return decoded, err
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		// The admin key was rejected, not the subject token.
		return decoded, fmt.Errorf("%w: anubis rejected the introspection credentials", usecase.ErrDependencyUnavailable)
	case status != http.StatusOK:
		c.logger.WarnContext(ctx, "anubis introspection non-200", "status_code", status)
		return decoded, fmt.Errorf("%w: anubis introspection failed with status %d", usecase.ErrDependencyUnavailable, status)
	}

	if err := jsoniter.Unmarshal(body, &decoded); err != nil {
		return decoded, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	return decoded, nil
}

func (c *Client) ProvisionAccount(ctx context.Context, name, email, password string) (string, error) {
	payload := provisionRequest{Name: name, Email: email, Password: password}

	body, status, err := c.post(ctx, c.provisionURL, payload)
	if err != nil {
		return "", err
	}

	switch {
	case status == http.StatusConflict:
		return "", fmt.Errorf("%w: account already exists for %s", usecase.ErrConflict, email)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "", fmt.Errorf("%w: anubis rejected the provisioning credentials", usecase.ErrDependencyUnavailable)
	case status != http.StatusOK && status != http.StatusCreated:
		c.logger.WarnContext(ctx, "anubis provisioning non-2xx", "status_code", status)
		return "", fmt.Errorf("%w: anubis provisioning failed with status %d", usecase.ErrDependencyUnavailable, status)
	}

	var decoded provisionResponse
	if err := jsoniter.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("unmarshal provision response: %w", err)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return "", fmt.Errorf("invalid provision response: user_id is empty")
	}

	return decoded.UserID, nil
}

func (c *Client) post(ctx context.Context, url string, payload any) ([]byte, int, error) {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return nil, 0, fmt.Errorf("%w: anubis circuit open", usecase.ErrDependencyUnavailable)
		}
	}

	body, status, err := c.doPost(ctx, url, payload)
	if c.breaker != nil {
		if isCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		if isCircuitFailure(err) {
			return nil, 0, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return nil, 0, err
	}

	return body, status, nil
}

func (c *Client) doPost(ctx context.Context, url string, payload any) ([]byte, int, error) {
	encoded, err := jsoniter.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal anubis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, 0, fmt.Errorf("create anubis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", errAnubisTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("read anubis response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, 0, fmt.Errorf("%w: status %d", errAnubisTransient, resp.StatusCode)
	}

	return body, resp.StatusCode, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active  bool   `json:"active"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

type provisionRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type provisionResponse struct {
	UserID string `json:"user_id"`
}
