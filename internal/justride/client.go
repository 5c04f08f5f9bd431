// Package justride is the client for the upstream Justride ticketing API.
// It covers credential login, short-lived token exchange, and tap-history
// fetch, plus helpers that compute local-calendar month and day fetch ranges.
//
// All calls are read-only. The upstream session is carried as cookies
// captured from the login response and replayed on the token exchange.
package justride

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jackrosenthal/myride-explorer/internal/domain"
)

// dataService is the token-exchange service scope required for history reads.
const dataService = "data"

// minStartTime is the lowest startTime the history endpoint accepts.
const minStartTime = 1

// Client talks to one agency's namespace of the upstream ticketing API.
type Client struct {
	baseURL    string // upstream origin, no trailing slash
	agencyID   string
	httpClient *http.Client
	location   *time.Location
	now        func() time.Time
}

// New constructs a Client for the given upstream origin and agency ID.
// Month/day range helpers compute boundaries in loc.
// httpClient may be nil, in which case http.DefaultClient is used.
func New(baseURL, agencyID string, httpClient *http.Client, loc *time.Location) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		agencyID:   agencyID,
		httpClient: httpClient,
		location:   loc,
		now:        time.Now,
	}
}

// loginResponse is the upstream login payload.
type loginResponse struct {
	Account      string `json:"account"`
	Username     string `json:"username"`
	EmailAddress string `json:"emailAddress"`
	Message      string `json:"message"`
}

// tokenResponse is the upstream token-exchange payload.
type tokenResponse struct {
	JWTToken string `json:"jwtToken"`
}

// historyResponse is the upstream history payload. Total and nextPageId are
// decoded but unused; the application renders only the hits of one page.
type historyResponse struct {
	Hits       []historyHit `json:"hits"`
	NextPageID string       `json:"nextPageId"`
}

// historyHit wraps one tap record; the interesting fields live under doc.
type historyHit struct {
	Type string          `json:"type"`
	Doc  domain.TapEvent `json:"doc"`
}

// Login exchanges credentials for an upstream session via HTTP Basic auth.
// On success it returns the rider identity and the upstream session cookies,
// which later calls need. A non-2xx response yields domain.ErrLoginFailed
// wrapping the upstream message when one is present.
func (c *Client) Login(ctx context.Context, email, password string) (domain.User, []*http.Cookie, error) {
	url := fmt.Sprintf("%s/broker/web-api/v1/%s/login", c.baseURL, c.agencyID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte("{}")))
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("justride.Login: %w", err)
	}
	auth := base64.StdEncoding.EncodeToString([]byte(email + ":" + password))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("justride.Login: %w", err)
	}
	defer resp.Body.Close()

	var body loginResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && body.Message != "" {
			return domain.User{}, nil, fmt.Errorf("%w: %s", domain.ErrLoginFailed, body.Message)
		}
		return domain.User{}, nil, domain.ErrLoginFailed
	}
	if decodeErr != nil {
		return domain.User{}, nil, fmt.Errorf("justride.Login: decode response: %w", decodeErr)
	}

	user := domain.User{
		ID:    body.Account,
		Name:  body.Username,
		Email: body.EmailAddress,
	}
	return user, resp.Cookies(), nil
}

// GetJWTToken obtains a short-lived bearer token for the given service scope,
// authenticating with the session cookies captured at login.
func (c *Client) GetJWTToken(ctx context.Context, cookies []*http.Cookie, service string) (string, error) {
	url := fmt.Sprintf("%s/broker/web-api/v1/%s/tokens", c.baseURL, c.agencyID)

	payload, err := json.Marshal(map[string]string{"service": service})
	if err != nil {
		return "", fmt.Errorf("justride.GetJWTToken: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("justride.GetJWTToken: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("justride.GetJWTToken: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", domain.ErrTokenExchange
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("justride.GetJWTToken: decode response: %w", err)
	}
	return body.JWTToken, nil
}

// FetchTapHistory retrieves one page of tap events for the account using an
// already-obtained bearer token. startTime/endTime are epoch milliseconds;
// an absent hits list decodes as empty.
func (c *Client) FetchTapHistory(ctx context.Context, accountID, jwtToken string, size int, startTime, endTime int64) ([]domain.TapEvent, error) {
	if startTime < minStartTime {
		startTime = minStartTime
	}
	url := fmt.Sprintf("%s/edge/data/v2/%s/account/%s/history?size=%d&startTime=%d&endTime=%d",
		c.baseURL, c.agencyID, accountID, size, startTime, endTime)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("justride.FetchTapHistory: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+jwtToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("justride.FetchTapHistory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.ErrHistoryFetch
	}

	var body historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("justride.FetchTapHistory: decode response: %w", err)
	}

	events := make([]domain.TapEvent, len(body.Hits))
	for i, hit := range body.Hits {
		events[i] = hit.Doc
	}
	return events, nil
}

// GetTapHistory fetches the most recent tap events for the account,
// performing the token exchange and then the history call.
func (c *Client) GetTapHistory(ctx context.Context, session *domain.Session, size int) ([]domain.TapEvent, error) {
	token, err := c.GetJWTToken(ctx, session.Cookies, dataService)
	if err != nil {
		return nil, err
	}
	return c.FetchTapHistory(ctx, session.User.ID, token, size, minStartTime, c.now().UnixMilli())
}

// GetTapHistoryForDateRange fetches tap events between start and end.
func (c *Client) GetTapHistoryForDateRange(ctx context.Context, session *domain.Session, start, end time.Time, size int) ([]domain.TapEvent, error) {
	token, err := c.GetJWTToken(ctx, session.Cookies, dataService)
	if err != nil {
		return nil, err
	}
	return c.FetchTapHistory(ctx, session.User.ID, token, size, start.UnixMilli(), end.UnixMilli())
}

// GetTapHistoryForMonth fetches all tap events within the local-calendar
// month: from the 1st at midnight through the last millisecond of the last day.
func (c *Client) GetTapHistoryForMonth(ctx context.Context, session *domain.Session, year, month int) ([]domain.TapEvent, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, c.location)
	end := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, c.location).Add(-time.Millisecond)
	return c.GetTapHistoryForDateRange(ctx, session, start, end, monthPageSize)
}

// GetTapHistoryForDay fetches all tap events within one local-calendar day.
func (c *Client) GetTapHistoryForDay(ctx context.Context, session *domain.Session, year, month, day int) ([]domain.TapEvent, error) {
	start := time.Date(year, time.Month(month), day, 0, 0, 0, 0, c.location)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return c.GetTapHistoryForDateRange(ctx, session, start, end, monthPageSize)
}

// monthPageSize is the page size used by the range helpers. Large enough that
// a month of taps for one rider always fits in a single page.
const monthPageSize = 1000
