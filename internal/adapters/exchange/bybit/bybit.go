package bybitadapter

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/infra/upstream"
	"cryptoboard/internal/mapper"
)

const DefaultBaseURL = "https://api.bybit.com"

// Bybit: до 1000 свечей за запрос.
const maxLimit = 1000

var intervals = map[domain.CandleWidth]string{
	domain.Width1m: "1",
	domain.Width1h: "60",
	domain.Width4h: "240",
	domain.Width1d: "D",
	domain.Width1w: "W",
}

type bybitExchange struct {
	baseURL string
	http    *upstream.Client
}

func New(baseURL string, hc *upstream.Client) domain.CandleProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = upstream.New(nil, "")
	}
	return &bybitExchange{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (b *bybitExchange) Name() string { return "bybit" }

type klineResp struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Symbol   string     `json:"symbol"`
		Category string     `json:"category"`
		List     [][]string `json:"list"` // [start, o, h, l, c, volume, turnover], новые первыми
	} `json:"result"`
}

func (b *bybitExchange) GetCandles(ctx context.Context, pair string, width domain.CandleWidth, count int) ([]domain.CoinHistory, error) {
	if count <= 0 {
		return []domain.CoinHistory{}, nil
	}
	iv, ok := intervals[width]
	if !ok {
		return nil, fmt.Errorf("bybit: неизвестная ширина свечи %q", width)
	}
	q := url.Values{}
	q.Set("category", "spot")
	q.Set("symbol", pair)
	q.Set("interval", iv)
	q.Set("limit", strconv.Itoa(min(count, maxLimit)))
	u := fmt.Sprintf("%s/v5/market/kline?%s", b.baseURL, q.Encode())

	var resp klineResp
	if err := b.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("bybit: ошибка запроса свечей: %w", err)
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("bybit: API error %d: %s", resp.RetCode, resp.RetMsg)
	}

	out := make([]domain.CoinHistory, 0, len(resp.Result.List))
	for _, k := range resp.Result.List {
		if len(k) < 5 {
			return nil, fmt.Errorf("bybit: короткая свеча (%d полей): %w", len(k), mapper.ErrMalformed)
		}
		ts, err := strconv.ParseInt(k[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bybit: время свечи %q: %w", k[0], mapper.ErrMalformed)
		}
		p, err := mapper.FromKline(ts, k[4])
		if err != nil {
			return nil, fmt.Errorf("bybit: %s: %w", pair, err)
		}
		out = append(out, p)
	}
	slices.Reverse(out)
	return out, nil
}
