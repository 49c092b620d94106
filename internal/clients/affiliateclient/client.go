package affiliateclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ceroydata/leaderboard-proxy/internal/clients/client"
	"github.com/ceroydata/leaderboard-proxy/internal/config"
	"github.com/ceroydata/leaderboard-proxy/internal/leaderboard"
	"github.com/ceroydata/leaderboard-proxy/internal/types"
	"github.com/rs/zerolog/log"
)

const endpoint = "/v1/external/affiliates"

type Client struct {
	httpClient *http.Client
	cfg        *config.AffiliateConfig
}

func NewClient(cfg *config.AffiliateConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

func (c *Client) GetBaseURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/")
}

func (c *Client) GetDefaultRequestTimeout() time.Duration {
	return c.cfg.Timeout
}

func (c *Client) GetHttpClient() *http.Client {
	return c.httpClient
}

func (c *Client) GetAffiliates(ctx context.Context, window leaderboard.DateWindow) ([]leaderboard.Affiliate, error) {
	opts := &client.HttpClientOptions{
		Path:         endpoint,
		TemplatePath: endpoint,
		Query: url.Values{
			"start_at": []string{window.StartDate()},
			"end_at":   []string{window.EndDate()},
			"key":      []string{c.cfg.APIKey},
		},
	}

	callForAffiliates := func() (json.RawMessage, error) {
		resp, err := client.SendRequest[struct{}, json.RawMessage](ctx, c, http.MethodGet, opts, nil)
		if err != nil {
			return nil, err
		}
		return *resp, nil
	}

	raw, err := clientCallWithRetry(ctx, callForAffiliates, c.cfg)
	if err != nil {
		return nil, err
	}

	return decodeAffiliates(raw)
}

// decodeAffiliates expects an object with an "affiliates" array. Array items
// that are not objects are skipped like records without a username.
func decodeAffiliates(raw json.RawMessage) ([]leaderboard.Affiliate, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, types.NewErrorWithMsg(types.DataShapeError, "response is not a json object")
	}

	field, ok := body["affiliates"]
	if !ok {
		return nil, types.NewErrorWithMsg(types.DataShapeError, "response has no affiliates field")
	}

	field = bytes.TrimSpace(field)
	if len(field) == 0 || field[0] != '[' {
		return nil, types.NewErrorWithMsg(types.DataShapeError, "affiliates field is not an array")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(field, &items); err != nil {
		return nil, types.NewErrorWithMsg(types.DataShapeError, "affiliates field is not an array: %w", err)
	}

	affiliates := make([]leaderboard.Affiliate, 0, len(items))
	for _, item := range items {
		var a leaderboard.Affiliate
		if err := json.Unmarshal(item, &a); err != nil {
			continue
		}
		affiliates = append(affiliates, a)
	}

	return affiliates, nil
}

func clientCallWithRetry[T any](
	ctx context.Context,
	call retry.RetryableFuncWithData[T],
	cfg *config.AffiliateConfig,
) (T, error) {
	result, err := retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(cfg.MaxRetryTimes),
		retry.Delay(cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// a malformed payload will not fix itself within one cycle
			kind, _ := types.KindOf(err)
			return kind == types.NetworkError
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", cfg.MaxRetryTimes).
				Err(err).
				Msg("failed to fetch affiliates, retrying with exponential backoff")
		}))
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
