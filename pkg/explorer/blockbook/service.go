package blockbook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tdex-network/bitcoin-payments/pkg/explorer"
	"github.com/tdex-network/bitcoin-payments/pkg/util"
	"go.uber.org/ratelimit"
)

// DefaultRequestsPerSecond is the max rate of requests sent to the indexer
// if not specified otherwise.
const DefaultRequestsPerSecond = 10

type blockbook struct {
	apiURL  string
	limiter ratelimit.Limiter
}

// NewService returns a new blockbook service as an explorer.Service interface.
// Requests are throttled to at most requestsPerSecond.
func NewService(apiURL string, requestsPerSecond int) (explorer.Service, error) {
	if apiURL == "" {
		return nil, explorer.ErrNullURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSecond
	}

	return &blockbook{
		apiURL:  strings.TrimSuffix(apiURL, "/"),
		limiter: ratelimit.New(requestsPerSecond),
	}, nil
}

func (b *blockbook) GetStatus(ctx context.Context) (*explorer.Status, error) {
	var resp statusResponse
	if err := b.get(ctx, "/api/v2", &resp); err != nil {
		return nil, err
	}
	return resp.toStatus(), nil
}

// get sends a GET request to the given path and decodes the json response
// into out.
func (b *blockbook) get(ctx context.Context, path string, out interface{}) error {
	return b.do(ctx, http.MethodGet, path, "", out)
}

// post sends body to the given path and decodes the json response into out.
func (b *blockbook) post(
	ctx context.Context, path, body string, out interface{},
) error {
	return b.do(ctx, http.MethodPost, path, body, out)
}

func (b *blockbook) do(
	ctx context.Context, method, path, body string, out interface{},
) error {
	b.limiter.Take()

	url := fmt.Sprintf("%s%s", b.apiURL, path)
	status, resp, err := util.NewHTTPRequest(ctx, method, url, body, nil)
	if err != nil {
		return err
	}
	if err := parseStatus(status, resp); err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(resp), out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func parseStatus(status int, resp string) error {
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return explorer.ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return explorer.ErrDisconnected
	}

	msg := resp
	var e errorResponse
	if err := json.Unmarshal([]byte(resp), &e); err == nil && e.Error != "" {
		msg = e.Error
	}
	if strings.Contains(strings.ToLower(msg), "not found") {
		return explorer.ErrNotFound
	}
	return fmt.Errorf("blockbook: %d %s", status, msg)
}
