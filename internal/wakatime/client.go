// Package wakatime fetches daily coding summaries from the WakaTime API.
package wakatime

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/schema"
	log "github.com/sirupsen/logrus"
)

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 4096

// API key environment variables. The per-user form wins over the shared one.
const (
	apiKeyEnv       = "WAKATIME_API_KEY"
	apiKeyEnvPrefix = "WAKATIME_API_KEY_"
)

// Client implements contract.FetchClient over the summaries endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	lookupEnv  func(string) (string, bool)
}

var _ contract.FetchClient = &Client{} // Compile-time check

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		lookupEnv:  os.LookupEnv,
	}
}

// summariesResponse is the body of GET /users/current/summaries.
type summariesResponse struct {
	Data []daySummary `json:"data"`
}

type daySummary struct {
	Range struct {
		Date     string `json:"date"`
		Timezone string `json:"timezone"`
	} `json:"range"`
	GrandTotal       schema.GrandTotal `json:"grand_total"`
	Languages        []schema.RawEntry `json:"languages"`
	Projects         []schema.RawEntry `json:"projects"`
	Editors          []schema.RawEntry `json:"editors"`
	OperatingSystems []schema.RawEntry `json:"operating_systems"`
}

// APIError is returned for a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("WakaTime API error: %d - %s", e.StatusCode, e.Body)
}

// APIKey returns the key configured for userID.
func (c *Client) APIKey(userID string) (string, error) {
	userEnv := apiKeyEnvPrefix + strings.ToUpper(userID)
	if key, ok := c.lookupEnv(userEnv); ok && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), nil
	}
	if key, ok := c.lookupEnv(apiKeyEnv); ok && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), nil
	}
	return "", fmt.Errorf("%w: %s is not set", schema.ErrConfiguration, userEnv)
}

// FetchRange returns the daily summaries for the inclusive date range [start, end].
func (c *Client) FetchRange(ctx context.Context, userID string, start, end string) ([]schema.RawDaySummary, error) {
	apiKey, err := c.APIKey(userID)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("start", start)
	query.Set("end", end)
	endpoint := c.baseURL + "/users/current/summaries?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(apiKey+":")))
	req.Header.Set("Accept", "application/json")

	log.WithFields(log.Fields{"user": userID, "start": start, "end": end}).Debug("fetching summaries")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("summaries request failed")
		return nil, fmt.Errorf("failed to fetch summaries: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		log.WithFields(log.Fields{"status": resp.StatusCode}).Warn("unexpected summaries status")
		return nil, apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed summariesResponse
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse summaries: %w", err)
	}

	summaries := make([]schema.RawDaySummary, 0, len(parsed.Data))
	for _, day := range parsed.Data {
		summaries = append(summaries, schema.RawDaySummary{
			Date:             day.Range.Date,
			GrandTotal:       day.GrandTotal,
			Languages:        day.Languages,
			Projects:         day.Projects,
			Editors:          day.Editors,
			OperatingSystems: day.OperatingSystems,
		})
	}
	log.WithFields(log.Fields{"user": userID, "days": len(summaries)}).Debug("summaries fetched")
	return summaries, nil
}
