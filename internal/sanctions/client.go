package sanctions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hollyoak/warden/internal/dependencies/clock"
	"github.com/hollyoak/warden/internal/model"
)

// Authority mirrors ban state into an external sanctions service
type Authority interface {
	CreateSanction(ctx context.Context, id model.PlayerID, reason string, expiresAt *time.Time) error
	DeleteSanction(ctx context.Context, id model.PlayerID) error
}

// Config holds connection settings for the sanctions authority
type Config struct {
	// BaseURL is the authority's API root (e.g. https://api.sanctions.example.com)
	BaseURL string
	// DeploymentID scopes sanctions to one game deployment
	DeploymentID string

	// Client-credentials exchange
	ClientID     string
	ClientSecret string

	RequestTimeout time.Duration
	RefreshMargin  time.Duration
	// MaxRetries bounds retry of transport and 5xx failures; 4xx rejections
	// are never retried
	MaxRetries uint64
}

// DefaultConfig returns sensible client defaults
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 10 * time.Second,
		RefreshMargin:  DefaultRefreshMargin,
		MaxRetries:     3,
	}
}

// Client talks to the external sanctions authority over HTTP
type Client struct {
	cfg        Config
	httpClient *http.Client
	tokens     *TokenCache
	normalize  Normalizer
	logger     *slog.Logger
}

// Ensure Client implements Authority
var _ Authority = (*Client)(nil)

// NewClient creates a sanctions authority client. A nil normalizer falls
// back to NormalizePUID.
func NewClient(cfg Config, clk clock.Clock, normalize Normalizer, logger *slog.Logger) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}
	if normalize == nil {
		normalize = NormalizePUID
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		normalize:  normalize,
		logger:     logger,
	}
	c.tokens = NewTokenCache(clk, cfg.RefreshMargin, c.exchangeCredentials)
	return c
}

// sanctionRequest is the authority's create-sanction payload
type sanctionRequest struct {
	ProductUserID       string `json:"productUserId"`
	Action              string `json:"action"`
	Justification       string `json:"justification"`
	ExpirationTimestamp string `json:"expirationTimestamp,omitempty"`
}

const sanctionAction = "RESTRICT_GAME_ACCESS"

// CreateSanction registers a ban with the authority. The identity is
// normalized first; a normalization failure is reported without any
// network round-trip.
func (c *Client) CreateSanction(ctx context.Context, id model.PlayerID, reason string, expiresAt *time.Time) error {
	puid, err := c.normalize(id)
	if err != nil {
		return err
	}

	body := []sanctionRequest{{
		ProductUserID: puid,
		Action:        sanctionAction,
		Justification: reason,
	}}
	if expiresAt != nil {
		body[0].ExpirationTimestamp = expiresAt.UTC().Format(time.RFC3339)
	}

	endpoint := fmt.Sprintf("%s/sanctions/v1/%s/sanctions", strings.TrimSuffix(c.cfg.BaseURL, "/"), c.cfg.DeploymentID)
	if err := c.do(ctx, http.MethodPost, endpoint, body); err != nil {
		return fmt.Errorf("%w: create sanction for %s: %v", model.ErrExternalSanction, puid, err)
	}

	c.logger.Info("sanction created",
		slog.String("puid", puid),
		slog.Bool("permanent", expiresAt == nil),
	)
	return nil
}

// DeleteSanction removes any active sanction for the identity
func (c *Client) DeleteSanction(ctx context.Context, id model.PlayerID) error {
	puid, err := c.normalize(id)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/sanctions/v1/%s/sanctions/%s", strings.TrimSuffix(c.cfg.BaseURL, "/"), c.cfg.DeploymentID, puid)
	if err := c.do(ctx, http.MethodDelete, endpoint, nil); err != nil {
		return fmt.Errorf("%w: delete sanction for %s: %v", model.ErrExternalSanction, puid, err)
	}

	c.logger.Info("sanction deleted", slog.String("puid", puid))
	return nil
}

// do sends an authenticated request, retrying transport and server-side
// failures with exponential backoff. Authority rejections (4xx) are
// permanent; a 401 additionally invalidates the cached token so the retry
// runs with a fresh one.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) error {
	op := func() error {
		token, err := c.tokens.Get(ctx)
		if err != nil {
			return err
		}

		var bodyReader io.Reader
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				return backoff.Permanent(err)
			}
			bodyReader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		reqErr := fmt.Errorf("authority returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			// Stale token; refresh and retry
			c.tokens.Invalidate()
			return reqErr
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return reqErr
		default:
			return backoff.Permanent(reqErr)
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.MaxRetries), ctx)
	return backoff.Retry(op, policy)
}

// tokenResponse is the authority's client-credentials grant response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// exchangeCredentials performs the OAuth client-credentials grant
func (c *Client) exchangeCredentials(ctx context.Context) (string, time.Duration, error) {
	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/auth/v1/oauth/token"

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("deployment_id", c.cfg.DeploymentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", 0, fmt.Errorf("token exchange returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", 0, err
	}
	if tok.AccessToken == "" {
		return "", 0, fmt.Errorf("token exchange returned an empty access token")
	}

	return tok.AccessToken, time.Duration(tok.ExpiresIn) * time.Second, nil
}
