package statsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"explorewithme/internal/domain"
)

const tokenExpiry = 5 * time.Minute

type statsHTTPClient struct {
	baseURL string
	app     string
	client  *http.Client
	issuer  domain.TokenIssuer
}

// NewHTTPClient returns a StatsClient that calls the statistics service over
// HTTP, attaching a short-lived bearer token to each request.
func NewHTTPClient(baseURL, app string, client *http.Client, issuer domain.TokenIssuer) domain.StatsClient {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &statsHTTPClient{
		baseURL: baseURL,
		app:     app,
		client:  client,
		issuer:  issuer,
	}
}

func (c *statsHTTPClient) authorize(req *http.Request) error {
	if c.issuer == nil {
		return nil
	}
	token, err := c.issuer.Issue(c.app, tokenExpiry)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (c *statsHTTPClient) PostHit(ctx context.Context, hit *domain.EndpointHit) error {
	if hit.App == "" {
		hit.App = c.app
	}
	body, err := json.Marshal(hit)
	if err != nil {
		return fmt.Errorf("failed to encode hit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.authorize(req); err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post hit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stats service returned status: %d", resp.StatusCode)
	}
	return nil
}

func (c *statsHTTPClient) GetViews(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]*domain.ViewStats, error) {
	query := url.Values{}
	query.Set("start", start.Format(domain.DateTimeLayout))
	query.Set("end", end.Format(domain.DateTimeLayout))
	for _, uri := range uris {
		query.Add("uris", uri)
	}
	query.Set("unique", strconv.FormatBool(unique))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if err := c.authorize(req); err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats service returned status: %d", resp.StatusCode)
	}
	var envelope struct {
		Data []*domain.ViewStats `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode stats response: %w", err)
	}
	return envelope.Data, nil
}
