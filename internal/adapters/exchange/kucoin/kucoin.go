package kucoinadapter

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/infra/upstream"
	"cryptoboard/internal/mapper"
)

const DefaultBaseURL = "https://api.kucoin.com"

// KuCoin использует формат "BTC-USDT".
// В проекте — унифицированный "BTCUSDT".
func toKuCoinSymbol(unified string) string {
	if len(unified) > 5 && strings.HasSuffix(unified, "USDT") {
		return unified[:len(unified)-4] + "-USDT"
	}
	if len(unified) > 4 {
		return unified[:len(unified)-4] + "-" + unified[len(unified)-4:]
	}
	return unified
}

var types = map[domain.CandleWidth]string{
	domain.Width1m: "1min",
	domain.Width1h: "1hour",
	domain.Width4h: "4hour",
	domain.Width1d: "1day",
	domain.Width1w: "1week",
}

type kucoinExchange struct {
	baseURL string
	http    *upstream.Client
	now     func() time.Time
}

func New(baseURL string, hc *upstream.Client) domain.CandleProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = upstream.New(nil, "")
	}
	return &kucoinExchange{baseURL: strings.TrimRight(baseURL, "/"), http: hc, now: time.Now}
}

func (k *kucoinExchange) Name() string { return "kucoin" }

// ===== /market/candles =====

type candlesResp struct {
	Code string     `json:"code"` // "200000" — успех
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"` // [time(s), open, close, high, low, volume, turnover], новые первыми
}

// У KuCoin нет limit: окно задаём через startAt/endAt в секундах.
func (k *kucoinExchange) GetCandles(ctx context.Context, pair string, width domain.CandleWidth, count int) ([]domain.CoinHistory, error) {
	if count <= 0 {
		return []domain.CoinHistory{}, nil
	}
	typ, ok := types[width]
	if !ok {
		return nil, fmt.Errorf("kucoin: неизвестная ширина свечи %q", width)
	}
	end := k.now().Unix()
	start := end - int64(count)*int64(width.Duration()/time.Second)

	q := url.Values{}
	q.Set("symbol", toKuCoinSymbol(pair))
	q.Set("type", typ)
	q.Set("startAt", strconv.FormatInt(start, 10))
	q.Set("endAt", strconv.FormatInt(end, 10))
	u := fmt.Sprintf("%s/api/v1/market/candles?%s", k.baseURL, q.Encode())

	var resp candlesResp
	if err := k.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("kucoin: ошибка запроса свечей: %w", err)
	}
	if resp.Code != "200000" {
		return nil, fmt.Errorf("kucoin: API error %s: %s", resp.Code, resp.Msg)
	}

	out := make([]domain.CoinHistory, 0, len(resp.Data))
	for _, c := range resp.Data {
		if len(c) < 3 {
			return nil, fmt.Errorf("kucoin: короткая свеча (%d полей): %w", len(c), mapper.ErrMalformed)
		}
		sec, err := strconv.ParseInt(c[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("kucoin: время свечи %q: %w", c[0], mapper.ErrMalformed)
		}
		// close у KuCoin — третье поле
		p, err := mapper.FromKline(sec*1000, c[2])
		if err != nil {
			return nil, fmt.Errorf("kucoin: %s: %w", pair, err)
		}
		out = append(out, p)
	}
	slices.Reverse(out)
	// окно может захватить текущую незакрытую свечу
	if len(out) > count {
		out = out[len(out)-count:]
	}
	return out, nil
}
