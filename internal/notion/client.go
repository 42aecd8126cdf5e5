// Package notion is the client for the schema-bearing database service:
// destination schema retrieval, name search, record creation, and the
// type-safe serialization of candidate properties into the service's wire
// format. See docs/ARCHITECTURE.md § Database Service Client.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/okonomi-dev/kiroku/pkg/types"
)

const (
	// DefaultBaseURL is the production endpoint of the database service.
	DefaultBaseURL = "https://api.notion.com"

	// apiVersion is the versioned protocol header value. Every request
	// carries it; the service rejects unversioned calls.
	apiVersion = "2022-06-28"
)

// Client speaks the database service's HTTP API. All calls are single
// blocking round-trips; nothing is retried here. A failed call surfaces
// immediately and the user resending is the retry mechanism.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *zap.Logger
}

// NewClient creates a client for the service at baseURL, authenticating
// with apiKey. Pass DefaultBaseURL outside of tests.
func NewClient(baseURL, apiKey string, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		log:        log,
	}
}

// Candidate is one result of a destination name search.
type Candidate struct {
	ID         string
	Title      string
	LastEdited string
}

// databaseResponse is the schema-retrieval payload. Properties stays raw so
// the decoder can preserve the wire order of the columns.
type databaseResponse struct {
	ID         string          `json:"id"`
	Title      []richText      `json:"title"`
	Properties json.RawMessage `json:"properties"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type searchRequest struct {
	Query  string       `json:"query"`
	Filter searchFilter `json:"filter"`
	Sort   searchSort   `json:"sort"`
}

type searchFilter struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

type searchSort struct {
	Direction string `json:"direction"`
	Timestamp string `json:"timestamp"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID             string     `json:"id"`
	Title          []richText `json:"title"`
	LastEditedTime string     `json:"last_edited_time"`
}

type createPageRequest struct {
	Parent     pageParent     `json:"parent"`
	Properties WireProperties `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type createPageResponse struct {
	URL string `json:"url"`
}

// RetrieveDatabase fetches a destination's live column schema and returns a
// completed handle: canonical identifier, display title, designated title
// column, and the ordered schema. The schema is always fetched fresh; only
// name-to-identifier mappings are ever cached, elsewhere.
func (c *Client) RetrieveDatabase(ctx context.Context, id string) (*types.DestinationHandle, error) {
	var resp databaseResponse
	err := c.do(ctx, http.MethodGet, "/v1/databases/"+types.NormalizeID(id), nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("retrieve database: %w", err)
	}

	schema, err := decodeSchema(resp.Properties)
	if err != nil {
		return nil, fmt.Errorf("retrieve database: %w: decode schema: %v", types.ErrUpstream, err)
	}

	titleColumn := types.DefaultTitleColumn
	if name, ok := schema.FirstOfType(types.ColumnTitle); ok {
		titleColumn = name
	}

	return &types.DestinationHandle{
		ID:          types.NormalizeID(resp.ID),
		Title:       plainText(resp.Title),
		TitleColumn: titleColumn,
		Schema:      schema,
	}, nil
}

// Search runs a name search scoped to database-like objects, ordered by
// last edit time descending. Candidate selection is the resolver's job.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	req := searchRequest{
		Query:  query,
		Filter: searchFilter{Property: "object", Value: "database"},
		Sort:   searchSort{Direction: "descending", Timestamp: "last_edited_time"},
	}

	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, "/v1/search", req, &resp); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	candidates := make([]Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		candidates = append(candidates, Candidate{
			ID:         types.NormalizeID(r.ID),
			Title:      plainText(r.Title),
			LastEdited: r.LastEditedTime,
		})
	}
	return candidates, nil
}

// CreatePage writes one record with the given wire properties into the
// destination and returns the created record's URL.
func (c *Client) CreatePage(ctx context.Context, databaseID string, props WireProperties) (string, error) {
	req := createPageRequest{
		Parent:     pageParent{DatabaseID: types.NormalizeID(databaseID)},
		Properties: props,
	}

	var resp createPageResponse
	if err := c.do(ctx, http.MethodPost, "/v1/pages", req, &resp); err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}

	c.log.Info("record created", zap.String("url", resp.URL))
	return resp.URL, nil
}

// do sends one request and decodes the response into out. Non-2xx statuses
// map onto the error taxonomy: 401/403 to ErrAuth, 404 to ErrNotFound,
// everything else to ErrUpstream.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", apiVersion)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", types.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("database service error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(data, 512)))
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: status %d", types.ErrAuth, resp.StatusCode)
		case http.StatusNotFound:
			return fmt.Errorf("%w: status %d", types.ErrNotFound, resp.StatusCode)
		default:
			return fmt.Errorf("%w: status %d", types.ErrUpstream, resp.StatusCode)
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: decode response: %v", types.ErrUpstream, err)
		}
	}
	return nil
}

// plainText joins a rich-text array into its plain string form.
func plainText(parts []richText) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.PlainText)
	}
	return strings.TrimSpace(b.String())
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
