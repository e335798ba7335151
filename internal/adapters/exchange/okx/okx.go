package okxadapter

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

// ВНИМАНИЕ: во всём проекте тикер без дефиса, например "BTCUSDT".
// У OKX формат другой — "BTC-USDT". В адаптере делаем конверсию.

const DefaultBaseURL = "https://www.okx.com"

// OKX отдаёт не больше 300 свечей за запрос.
const maxLimit = 300

func toOKXSymbol(unified string) string {
	// "BTCUSDT" -> "BTC-USDT" (и вообще <BASE><QUOTE> -> <BASE>-<QUOTE>)
	if len(unified) > 4 && strings.HasSuffix(unified, "USDT") {
		return unified[:len(unified)-4] + "-USDT"
	}
	return unified
}

var bars = map[domain.CandleWidth]string{
	domain.Width1m: "1m",
	domain.Width1h: "1H",
	domain.Width4h: "4H",
	domain.Width1d: "1D",
	domain.Width1w: "1W",
}

type okxExchange struct {
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
	return &okxExchange{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (o *okxExchange) Name() string { return "okx" }

// ===== /market/candles =====

type candlesResp struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"` // [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm], новые первыми
}

func (o *okxExchange) GetCandles(ctx context.Context, pair string, width domain.CandleWidth, count int) ([]domain.CoinHistory, error) {
	if count <= 0 {
		return []domain.CoinHistory{}, nil
	}
	bar, ok := bars[width]
	if !ok {
		return nil, fmt.Errorf("okx: неизвестная ширина свечи %q", width)
	}
	q := url.Values{}
	q.Set("instId", toOKXSymbol(pair))
	q.Set("bar", bar)
	q.Set("limit", strconv.Itoa(min(count, maxLimit)))
	u := fmt.Sprintf("%s/api/v5/market/candles?%s", o.baseURL, q.Encode())

	var resp candlesResp
	if err := o.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("okx: ошибка запроса свечей: %w", err)
	}
	if resp.Code != "0" {
		return nil, fmt.Errorf("okx: API error %s: %s", resp.Code, resp.Msg)
	}

	out := make([]domain.CoinHistory, 0, len(resp.Data))
	for _, c := range resp.Data {
		if len(c) < 5 {
			return nil, fmt.Errorf("okx: короткая свеча (%d полей): %w", len(c), mapper.ErrMalformed)
		}
		ts, err := strconv.ParseInt(c[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("okx: время свечи %q: %w", c[0], mapper.ErrMalformed)
		}
		p, err := mapper.FromKline(ts, c[4])
		if err != nil {
			return nil, fmt.Errorf("okx: %s: %w", pair, err)
		}
		out = append(out, p)
	}
	// наружу — по возрастанию времени
	slices.Reverse(out)
	return out, nil
}
