package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go-datasync/internal/config"
	"go-datasync/pkg/syncerr"

	"go.uber.org/zap"
)

// RawRow is one row of a source search result: column label -> string
// value. Values the source leaves null arrive as empty strings.
type RawRow map[string]string

// Page is a single page of a paginated search result.
type Page struct {
	Rows       []RawRow
	HasMore    bool
	PageIndex  int
	TotalPages int
}

// Client reads paginated search results from the remote source.
type Client struct {
	http      *http.Client
	signer    Signer
	baseURL   string
	scriptID  string
	deployID  string
	pageDelay time.Duration
	log       *zap.Logger
}

func NewClient(cfg *config.Config, signer Signer, log *zap.Logger) *Client {
	return &Client{
		http:      &http.Client{Timeout: 120 * time.Second},
		signer:    signer,
		baseURL:   cfg.SourceBaseURL,
		scriptID:  cfg.SourceScriptID,
		deployID:  cfg.SourceDeployID,
		pageDelay: time.Second,
		log:       log,
	}
}

type pagePayload struct {
	Data       *[]RawRow `json:"data"`
	HasMore    bool      `json:"hasMore"`
	PageIndex  int       `json:"pageIndex"`
	TotalPages int       `json:"totalPages"`
	Error      string    `json:"error"`
}

// FetchPage issues one authenticated request for the given zero-based page.
func (c *Client) FetchPage(ctx context.Context, sourceID string, page int) (*Page, error) {
	reqURL := c.buildURL(sourceID, page)

	headers, err := c.signer.Sign(http.MethodGet, reqURL)
	if err != nil {
		return nil, fmt.Errorf("request signing failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header = headers

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &syncerr.TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &syncerr.AuthError{Status: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &syncerr.NotFoundError{Resource: fmt.Sprintf("source search %s", sourceID)}
	case resp.StatusCode >= 500:
		return nil, &syncerr.RemoteServerError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &syncerr.TransportError{Err: err}
	}

	var payload pagePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &syncerr.ProtocolError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if payload.Error != "" {
		return nil, &syncerr.ProtocolError{Message: payload.Error}
	}
	if payload.Data == nil {
		return nil, &syncerr.ProtocolError{Message: "payload missing data array"}
	}

	return &Page{
		Rows:       *payload.Data,
		HasMore:    payload.HasMore,
		PageIndex:  payload.PageIndex,
		TotalPages: payload.TotalPages,
	}, nil
}

// FetchAllPages accumulates every page for sourceID, waiting a fixed delay
// between successive requests to avoid remote rate limiting. The first
// page-level failure propagates without retry.
func (c *Client) FetchAllPages(ctx context.Context, sourceID string) ([]RawRow, error) {
	var rows []RawRow

	for page := 0; ; page++ {
		if page > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.pageDelay):
			}
		}

		p, err := c.FetchPage(ctx, sourceID, page)
		if err != nil {
			return nil, err
		}
		rows = append(rows, p.Rows...)

		c.log.Debug("fetched source page",
			zap.String("source_id", sourceID),
			zap.Int("page", page),
			zap.Int("rows", len(p.Rows)),
			zap.Bool("has_more", p.HasMore))

		if !p.HasMore {
			break
		}
	}

	return rows, nil
}

func (c *Client) buildURL(sourceID string, page int) string {
	q := url.Values{}
	q.Set("script", c.scriptID)
	q.Set("deploy", c.deployID)
	q.Set("searchId", sourceID)
	q.Set("page", fmt.Sprintf("%d", page))
	return c.baseURL + "?" + q.Encode()
}
