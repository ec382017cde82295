// Package sanity reads editorial content from the Sanity HTTP query API.
package sanity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	defaultAPIVersion = "2024-02-10"
	defaultTimeout    = 15 * time.Second
	userAgent         = "go-editorial"
	maxErrorBody      = 4 << 10
)

var (
	projectIDPattern  = regexp.MustCompile(`^[a-z0-9-]+$`)
	apiVersionPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}|1|X)$`)
)

// Config identifies the Sanity project and dataset to query.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	// Host overrides the API origin, e.g. for tests. Defaults to
	// https://<project>.api.sanity.io (or apicdn.sanity.io with UseCDN).
	Host string
}

// Validate checks the fields required to build query URLs.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ProjectID, validation.Required, validation.Match(projectIDPattern)),
		validation.Field(&c.Dataset, validation.Required, validation.Match(projectIDPattern)),
		validation.Field(&c.APIVersion, validation.Match(apiVersionPattern)),
	)
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode  int
	Type        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("sanity: http %d", e.StatusCode)
	}
	return fmt.Sprintf("sanity: http %d: %s", e.StatusCode, e.Description)
}

// Client issues GROQ queries.
type Client struct {
	cfg      Config
	endpoint string
	http     *http.Client
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient validates cfg and returns a client.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	cfg.APIVersion = strings.TrimPrefix(strings.TrimSpace(cfg.APIVersion), "v")
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sanity: invalid config: %w", err)
	}

	host := strings.TrimRight(cfg.Host, "/")
	if host == "" {
		domain := "api.sanity.io"
		if cfg.UseCDN {
			domain = "apicdn.sanity.io"
		}
		host = "https://" + cfg.ProjectID + "." + domain
	}

	c := &Client{
		cfg:      cfg,
		endpoint: fmt.Sprintf("%s/v%s/data/query/%s", host, cfg.APIVersion, cfg.Dataset),
		http:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Ms     int             `json:"ms"`
}

type errorResponse struct {
	Error struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	} `json:"error"`
	Message string `json:"message"`
}

// Query runs groq with params and decodes the result into out. A null
// result leaves out untouched and reports found=false.
func (c *Client) Query(ctx context.Context, groq string, params map[string]any, out any) (found bool, err error) {
	values := url.Values{}
	values.Set("query", groq)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return false, fmt.Errorf("sanity: encode param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("sanity: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("sanity: query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload errorResponse
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Type = payload.Error.Type
			apiErr.Description = payload.Error.Description
			if apiErr.Description == "" {
				apiErr.Description = payload.Message
			}
		}
		return false, apiErr
	}

	var envelope queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return false, fmt.Errorf("sanity: decode response: %w", err)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return false, fmt.Errorf("sanity: decode result: %w", err)
	}
	return true, nil
}
