package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ceroydata/leaderboard-proxy/internal/observability/metrics"
	"github.com/ceroydata/leaderboard-proxy/internal/types"
	"github.com/rs/zerolog/log"
)

// maxResponseBodySize bounds how much of an upstream body is read
const maxResponseBodySize = 10 << 20

type BaseClient interface {
	GetBaseURL() string
	GetDefaultRequestTimeout() time.Duration
	GetHttpClient() *http.Client
}

type HttpClientOptions struct {
	Timeout time.Duration
	Path    string
	// TemplatePath is used as the metrics label so secrets in the query never
	// end up in a label value
	TemplatePath string
	Query        url.Values
	Headers      map[string]string
}

func BuildURL(baseURL string, opts *HttpClientOptions) (string, error) {
	u, err := url.Parse(baseURL + opts.Path)
	if err != nil {
		return "", err
	}
	if len(opts.Query) > 0 {
		u.RawQuery = opts.Query.Encode()
	}
	return u.String(), nil
}

// SendRequest performs a request and decodes the JSON response into R.
// Transport failures and non 2xx statuses are NetworkError, bodies that are
// not valid JSON are ParseError.
func SendRequest[I any, R any](
	ctx context.Context, client BaseClient, method string, opts *HttpClientOptions, input *I,
) (*R, error) {
	timeout := client.GetDefaultRequestTimeout()
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint, err := BuildURL(client.GetBaseURL(), opts)
	if err != nil {
		return nil, types.NewErrorWithMsg(types.NetworkError, "failed to build request url: %w", err)
	}

	var body io.Reader
	if input != nil {
		payload, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, types.NewErrorWithMsg(types.NetworkError, "failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if input != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	observe := metrics.StartClientRequestDurationTimer(client.GetBaseURL(), method, opts.TemplatePath)

	resp, err := client.GetHttpClient().Do(req)
	if err != nil {
		observe(0)
		return nil, types.NewErrorWithMsg(types.NetworkError, "request to %s failed: %w", opts.TemplatePath, stripURL(err))
	}
	defer resp.Body.Close()
	observe(resp.StatusCode)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, types.NewErrorWithMsg(types.NetworkError, "failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, types.NewErrorWithMsg(types.NetworkError, "rate limit exceeded when calling %s", opts.TemplatePath)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Ctx(ctx).Debug().
			Int("status", resp.StatusCode).
			Str("path", opts.TemplatePath).
			Msg("unexpected response status")
		return nil, types.NewErrorWithMsg(types.NetworkError, "unexpected status %d from %s", resp.StatusCode, opts.TemplatePath)
	}

	var out R
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, types.NewErrorWithMsg(types.ParseError, "invalid json from %s: %w", opts.TemplatePath, err)
	}

	return &out, nil
}

// stripURL drops the request url from transport errors, it carries the api key
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
