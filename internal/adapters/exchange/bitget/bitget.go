package bitgetadapter

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

// Bitget spot принимает символы "BTCUSDT" без суффиксов, конверсия не нужна.
const DefaultBaseURL = "https://api.bitget.com"

const maxLimit = 1000

var granularities = map[domain.CandleWidth]string{
	domain.Width1m: "1min",
	domain.Width1h: "1h",
	domain.Width4h: "4h",
	domain.Width1d: "1day",
	domain.Width1w: "1week",
}

type bitgetExchange struct {
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
	return &bitgetExchange{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (b *bitgetExchange) Name() string { return "bitget" }

// ===== /spot/market/candles =====

type candlesResp struct {
	Code string     `json:"code"` // "00000" — успех
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"` // [ts(ms), open, high, low, close, baseVol, usdtVol, quoteVol], по возрастанию
}

func (b *bitgetExchange) GetCandles(ctx context.Context, pair string, width domain.CandleWidth, count int) ([]domain.CoinHistory, error) {
	if count <= 0 {
		return []domain.CoinHistory{}, nil
	}
	gr, ok := granularities[width]
	if !ok {
		return nil, fmt.Errorf("bitget: неизвестная ширина свечи %q", width)
	}
	q := url.Values{}
	q.Set("symbol", pair)
	q.Set("granularity", gr)
	q.Set("limit", strconv.Itoa(min(count, maxLimit)))
	u := fmt.Sprintf("%s/api/v2/spot/market/candles?%s", b.baseURL, q.Encode())

	var resp candlesResp
	if err := b.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("bitget: ошибка запроса свечей: %w", err)
	}
	if resp.Code != "00000" {
		return nil, fmt.Errorf("bitget: API error %s: %s", resp.Code, resp.Msg)
	}

	out := make([]domain.CoinHistory, 0, len(resp.Data))
	for _, c := range resp.Data {
		if len(c) < 5 {
			return nil, fmt.Errorf("bitget: короткая свеча (%d полей): %w", len(c), mapper.ErrMalformed)
		}
		ts, err := strconv.ParseInt(c[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bitget: время свечи %q: %w", c[0], mapper.ErrMalformed)
		}
		p, err := mapper.FromKline(ts, c[4])
		if err != nil {
			return nil, fmt.Errorf("bitget: %s: %w", pair, err)
		}
		out = append(out, p)
	}
	return out, nil
}
