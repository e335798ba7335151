package coincapadapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/infra/upstream"
	"cryptoboard/internal/mapper"
)

// DefaultBaseURL включает версию API: /assets добавляется к нему.
const DefaultBaseURL = "https://api.coincap.io/v2"

// CoinCap принимает до 2000 записей за запрос.
const maxLimit = 2000

type assetsResp struct {
	Data      []mapper.CoinCapAsset `json:"data"`
	Timestamp int64                 `json:"timestamp"`
}

type coinCap struct {
	baseURL string
	http    *upstream.Client
}

func New(baseURL string, hc *upstream.Client) domain.ListingProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = upstream.New(nil, "")
	}
	return &coinCap{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *coinCap) Name() string { return "coincap" }

func (c *coinCap) ListTopRanked(ctx context.Context, limit int) ([]domain.Coin, error) {
	if limit <= 0 {
		return []domain.Coin{}, nil
	}
	limit = min(limit, maxLimit)

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", "0")
	u := fmt.Sprintf("%s/assets?%s", c.baseURL, q.Encode())

	var resp assetsResp
	if err := c.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("coincap: ошибка запроса assets: %w", err)
	}

	out := make([]domain.Coin, 0, len(resp.Data))
	for _, a := range resp.Data {
		coin, err := mapper.FromCoinCap(a)
		if err != nil {
			continue
		}
		out = append(out, coin)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("coincap: пустой или битый список (%d записей): %w", len(resp.Data), mapper.ErrMalformed)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
