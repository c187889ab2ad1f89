package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/moncraft/portal/internal/client/models"
	"github.com/moncraft/portal/internal/logging"
)

// HTTPClient is the concrete gateway over the backend's JSON API.
//
// Before each request it asks the CredentialSource for the current bearer
// token and, if one exists, attaches it as an Authorization header. Responses
// are classified into the package sentinel errors. A 401 additionally fires
// the onUnauthorized hook exactly once per request, which is how "any call
// can silently end the session" is handled in one place instead of at every
// call site. The gateway never retries.
type HTTPClient struct {
	baseURL        string
	http           *http.Client
	creds          CredentialSource
	onUnauthorized func()
	log            logging.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPDoer replaces the underlying *http.Client, e.g. with one from
// httptest in tests.
func WithHTTPDoer(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// WithUnauthorizedHook registers the callback fired when the backend reports
// the credential invalid. The session store's Clear is wired here.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *HTTPClient) { c.onUnauthorized = fn }
}

// NewHTTPClient builds a gateway for the given base URL (including the /api
// prefix). creds may not be nil; use a source that reports no credential for
// purely anonymous clients.
func NewHTTPClient(baseURL string, creds CredentialSource, timeout time.Duration, log logging.Logger, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &http.Client{Timeout: timeout},
		creds:          creds,
		onUnauthorized: func() {},
		log:            log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// errorBody is the backend's error payload shape: {"detail": "..."}.
type errorBody struct {
	Detail string `json:"detail"`
}

// do performs one request and decodes a JSON response into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.creds.Credential(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapStatus(ctx, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapStatus converts an error response into a sentinel error. The 401 branch
// is the single place in the client where a session is force-cleared.
func (c *HTTPClient) mapStatus(ctx context.Context, resp *http.Response) error {
	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)
	detail := eb.Detail
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.log.Warn(ctx, "credential rejected, clearing session", "detail", detail)
		c.onUnauthorized()
		return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, detail)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrValidation, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, detail)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrUnavailable, detail)
	default:
		return fmt.Errorf("backend error %d: %s", resp.StatusCode, detail)
	}
}

func (c *HTTPClient) Login(ctx context.Context, username string) (*models.LoginResult, error) {
	req := struct {
		Username string `json:"minecraft_username"`
	}{Username: username}

	var res models.LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.Identity, error) {
	var id models.Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *HTTPClient) ServerStatus(ctx context.Context) (*models.ServerStatus, error) {
	var st models.ServerStatus
	if err := c.do(ctx, http.MethodGet, "/server/status", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *HTTPClient) OnlinePlayers(ctx context.Context) (*models.PlayersOnline, error) {
	var p models.PlayersOnline
	if err := c.do(ctx, http.MethodGet, "/server/players", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ShopItems(ctx context.Context) ([]models.ShopItem, error) {
	var items []models.ShopItem
	if err := c.do(ctx, http.MethodGet, "/shop/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) MyPurchases(ctx context.Context) ([]models.Purchase, error) {
	var ps []models.Purchase
	if err := c.do(ctx, http.MethodGet, "/shop/purchases", nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (c *HTTPClient) PurchaseItem(ctx context.Context, itemID string) (*models.Purchase, error) {
	var p models.Purchase
	if err := c.do(ctx, http.MethodPost, "/shop/purchase/"+itemID, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Users(ctx context.Context) ([]models.Identity, error) {
	var users []models.Identity
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) ToggleAdmin(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPut, "/users/"+userID+"/admin", nil, nil)
}

func (c *HTTPClient) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+userID, nil, nil)
}

func (c *HTTPClient) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var st models.AdminStats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *HTTPClient) UserActivity(ctx context.Context) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	if err := c.do(ctx, http.MethodGet, "/admin/users/activity", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *HTTPClient) ServerLogs(ctx context.Context) ([]models.LogEntry, error) {
	var logs []models.LogEntry
	if err := c.do(ctx, http.MethodGet, "/admin/server/logs", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *HTTPClient) AdminPurchases(ctx context.Context) ([]models.Purchase, error) {
	var ps []models.Purchase
	if err := c.do(ctx, http.MethodGet, "/admin/shop/purchases", nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}
