package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/testmiddle/internal/metrics"
	"github.com/shrimpsizemoose/testmiddle/internal/models"
)

var ErrUnknownTable = errors.New("unknown table")

type Client struct {
	endpoints map[string]string
	http      *http.Client
}

func NewClient(endpoints map[string]string, timeout time.Duration) (*Client, error) {
	copied := make(map[string]string, len(endpoints))
	for table, endpoint := range endpoints {
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return nil, fmt.Errorf("invalid endpoint for table %s: %w", table, err)
		}
		copied[table] = endpoint
	}

	return &Client{
		endpoints: copied,
		http:      &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) Send(ctx context.Context, req *models.Request) ([]byte, error) {
	endpoint, ok := c.endpoints[req.TableName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, req.TableName)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	form := url.Values{models.JSONStringField: {string(payload)}}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build backend request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set(RequestIDHeader, RequestID(ctx))

	logger.Debug.Printf("Backend request %s: %s", endpoint, payload)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.BackendRequestDuration.WithLabelValues(
		req.TableName,
		req.Action.String(),
	).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("backend request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}
	logger.Debug.Printf("Backend response %d: %s", resp.StatusCode, string(body))

	return body, nil
}

func (c *Client) List(ctx context.Context, table string, fields map[string]any) ([]models.Record, error) {
	body, err := c.Send(ctx, &models.Request{
		Action:    models.ActionList,
		TableName: table,
		Fields:    fields,
	})
	if err != nil {
		return nil, err
	}

	resp := decodeResponse(body)
	if resp.Items == nil {
		return []models.Record{}, nil
	}
	return resp.Items, nil
}

func (c *Client) Edit(ctx context.Context, table string, primaryKey any, fields map[string]any) (*models.BackendResponse, error) {
	body, err := c.Send(ctx, &models.Request{
		Action:     models.ActionEdit,
		TableName:  table,
		PrimaryKey: primaryKey,
		Fields:     fields,
	})
	if err != nil {
		return nil, err
	}
	return decodeResponse(body), nil
}

// decodeResponse never fails: an unreadable reply is treated as one with no
// status and no items.
func decodeResponse(body []byte) *models.BackendResponse {
	var raw struct {
		Status string          `json:"status"`
		Items  json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		logger.Error.Printf("Failed to decode backend response: %v", err)
		return &models.BackendResponse{}
	}

	resp := &models.BackendResponse{Status: raw.Status}

	items := bytes.TrimSpace(raw.Items)
	if len(items) == 0 || items[0] != '[' {
		return resp
	}
	dec := json.NewDecoder(bytes.NewReader(items))
	dec.UseNumber()
	if err := dec.Decode(&resp.Items); err != nil {
		logger.Error.Printf("Failed to decode backend items: %v", err)
		resp.Items = nil
	}
	return resp
}
