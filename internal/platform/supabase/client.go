package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/sca-inventory-backend/internal/platform/httpx"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

// Client talks to the PostgREST endpoint of a Supabase project using the
// service role key.
type Client struct {
	log        *logger.Logger
	baseURL    string
	serviceKey string
	hc         *http.Client
	retry      httpx.RetryPolicy
}

type Config struct {
	URL        string
	ServiceKey string
	Timeout    time.Duration
}

func New(log *logger.Logger, cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, fmt.Errorf("supabase: missing url")
	}
	if strings.TrimSpace(cfg.ServiceKey) == "" {
		return nil, fmt.Errorf("supabase: missing service key")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		log:        log.With("client", "Supabase"),
		baseURL:    base,
		serviceKey: cfg.ServiceKey,
		hc:         &http.Client{Timeout: timeout},
		retry:      httpx.DefaultRetryPolicy(),
	}, nil
}

// Eq builds a PostgREST equality filter (column=eq.value).
func Eq(column, value string) url.Values {
	return url.Values{column: []string{"eq." + value}}
}

func (c *Client) Select(ctx context.Context, table string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	if query.Get("select") == "" {
		query.Set("select", "*")
	}
	return c.do(ctx, http.MethodGet, table, query, nil, out)
}

func (c *Client) Insert(ctx context.Context, table string, row any, out any) error {
	return c.do(ctx, http.MethodPost, table, nil, row, out)
}

func (c *Client) Update(ctx context.Context, table string, filter url.Values, patch any, out any) error {
	if len(filter) == 0 {
		return fmt.Errorf("supabase: refusing unfiltered update on %s", table)
	}
	return c.do(ctx, http.MethodPatch, table, filter, patch, out)
}

func (c *Client) Delete(ctx context.Context, table string, filter url.Values) error {
	if len(filter) == 0 {
		return fmt.Errorf("supabase: refusing unfiltered delete on %s", table)
	}
	return c.do(ctx, http.MethodDelete, table, filter, nil, nil)
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, body any, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.baseURL + "/rest/v1/" + url.PathEscape(table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("supabase: encode body: %w", err)
		}
		payload = b
	}

	start := time.Now()
	resp, err := httpx.Do(ctx, c.retry, func(ctx context.Context) (*http.Response, error) {
		var rdr io.Reader
		if payload != nil {
			rdr = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, rdr)
		if err != nil {
			return nil, err
		}
		req.Header.Set("apikey", c.serviceKey)
		req.Header.Set("Authorization", "Bearer "+c.serviceKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
		res, err := c.hc.Do(req)
		if err != nil {
			return nil, err
		}
		if res.StatusCode < 200 || res.StatusCode > 299 {
			raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
			res.Body.Close()
			return res, &httpx.StatusError{Status: res.StatusCode, Body: string(raw)}
		}
		return res, nil
	})
	if err != nil {
		c.log.Warn("Supabase request failed", "method", method, "table", table, "error", err)
		return err
	}
	defer resp.Body.Close()
	c.log.Debug("Supabase request", "method", method, "table", table, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("supabase: decode %s response: %w", table, err)
	}
	return nil
}
