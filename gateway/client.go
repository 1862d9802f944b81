package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-backoffice/utils"
)

const DefaultBaseURL = "https://api.apper.io"

// ClientConfig holds the remote gateway credentials.
type ClientConfig struct {
	BaseURL   string
	ProjectID string
	PublicKey string
	Timeout   time.Duration
}

// Client talks to the hosted record gateway over HTTP.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

var _ Gateway = (*Client)(nil)

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &Client{
		config: &cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
	if err := c.ValidateConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) ValidateConfig() error {
	if c.config.ProjectID == "" {
		return fmt.Errorf("APPER_PROJECT_ID is not set")
	}
	if c.config.PublicKey == "" {
		return fmt.Errorf("APPER_PUBLIC_KEY is not set")
	}
	return nil
}

type recordsPayload struct {
	Records []Record `json:"records"`
}

type deletePayload struct {
	RecordIds []int64 `json:"RecordIds"`
}

func (c *Client) FetchRecords(ctx context.Context, table string, q Query) (*FetchResponse, error) {
	var out FetchResponse
	if _, err := c.do(ctx, "fetch", table, http.MethodPost, c.tableURL(table, "records", "query"), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRecordByID(ctx context.Context, table string, id int64, fields []Field) (*RecordResponse, error) {
	endpoint := c.tableURL(table, "records", strconv.FormatInt(id, 10))
	if len(fields) > 0 {
		endpoint += "?fields=" + url.QueryEscape(strings.Join(FieldNames(fields), ","))
	}

	var out RecordResponse
	status, err := c.do(ctx, "get", table, http.MethodGet, endpoint, nil, &out)
	if status == http.StatusNotFound {
		return &RecordResponse{Success: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRecord(ctx context.Context, table string, records []Record) (*WriteResponse, error) {
	var out WriteResponse
	if _, err := c.do(ctx, "create", table, http.MethodPost, c.tableURL(table, "records"), recordsPayload{Records: records}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRecord(ctx context.Context, table string, records []Record) (*WriteResponse, error) {
	var out WriteResponse
	if _, err := c.do(ctx, "update", table, http.MethodPut, c.tableURL(table, "records"), recordsPayload{Records: records}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRecord(ctx context.Context, table string, ids []int64) (*WriteResponse, error) {
	var out WriteResponse
	if _, err := c.do(ctx, "delete", table, http.MethodDelete, c.tableURL(table, "records"), deletePayload{RecordIds: ids}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) tableURL(table string, parts ...string) string {
	segments := append([]string{
		c.config.BaseURL, "v1", "projects", url.PathEscape(c.config.ProjectID),
		"tables", url.PathEscape(table),
	}, parts...)
	return strings.Join(segments, "/")
}

// do sends one request and decodes the envelope into out. It returns the HTTP
// status even when it also returns an error.
func (c *Client) do(ctx context.Context, op, table, method, endpoint string, payload, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("gateway %s %s: encode request: %w", op, table, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, fmt.Errorf("gateway %s %s: build request: %w", op, table, err)
	}
	req.SetBasicAuth(c.config.ProjectID, c.config.PublicKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("gateway %s %s: %w", op, table, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("gateway %s %s: read response: %w", op, table, err)
	}

	utils.InfoLogger.Debugf("gateway %s %s -> %d in %s", op, table, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &Error{
			Op:         op,
			Table:      table,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return resp.StatusCode, fmt.Errorf("gateway %s %s: decode response: %w", op, table, err)
	}
	return resp.StatusCode, nil
}
