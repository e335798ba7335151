package coinloreadapter

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

// CoinLore отдаёт рейтинг страницами по start/limit, не больше 100 за раз.
// Поиска по id нет, поэтому клиент ищет монету в окне топа.

const (
	DefaultBaseURL = "https://api.coinlore.net"
	pageSize       = 100
)

type tickersResp struct {
	Data []mapper.CoinLoreTicker `json:"data"`
	Info struct {
		CoinsNum int64 `json:"coins_num"`
		Time     int64 `json:"time"`
	} `json:"info"`
}

type coinLore struct {
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
	return &coinLore{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *coinLore) Name() string { return "coinlore" }

func (c *coinLore) ListTopRanked(ctx context.Context, limit int) ([]domain.Coin, error) {
	if limit <= 0 {
		return []domain.Coin{}, nil
	}
	out := make([]domain.Coin, 0, limit)
	skipped := 0
	for start := 0; start < limit; start += pageSize {
		n := min(pageSize, limit-start)
		page, err := c.page(ctx, start, n)
		if err != nil {
			return nil, err
		}
		for _, t := range page {
			coin, err := mapper.FromCoinLore(t)
			if err != nil {
				skipped++
				continue
			}
			out = append(out, coin)
		}
		if len(page) < n {
			break // вселенная кончилась раньше limit
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("coinlore: нет валидных тикеров (пропущено %d): %w", skipped, mapper.ErrMalformed)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *coinLore) page(ctx context.Context, start, limit int) ([]mapper.CoinLoreTicker, error) {
	q := url.Values{}
	q.Set("start", strconv.Itoa(start))
	q.Set("limit", strconv.Itoa(limit))
	u := fmt.Sprintf("%s/api/tickers/?%s", c.baseURL, q.Encode())

	var resp tickersResp
	if err := c.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("coinlore: ошибка запроса тикеров: %w", err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("coinlore: в ответе нет data: %w", mapper.ErrMalformed)
	}
	return resp.Data, nil
}
