package gateadapter

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

const DefaultBaseURL = "https://api.gateio.ws"

// Gate отдаёт не больше 1000 свечей за запрос.
const maxLimit = 1000

// Gate.io использует "BTC_USDT".
// Конвертируем из унифицированного "BTCUSDT".
func toGateSymbol(unified string) string {
	if len(unified) > 5 && strings.HasSuffix(unified, "USDT") {
		return unified[:len(unified)-4] + "_USDT"
	}
	if len(unified) > 4 {
		return unified[:len(unified)-4] + "_" + unified[len(unified)-4:]
	}
	return unified
}

var intervals = map[domain.CandleWidth]string{
	domain.Width1m: "1m",
	domain.Width1h: "1h",
	domain.Width4h: "4h",
	domain.Width1d: "1d",
	domain.Width1w: "7d",
}

type gateExchange struct {
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
	return &gateExchange{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (g *gateExchange) Name() string { return "gate" }

// ===== /spot/candlesticks =====
// Ответ — голый массив: [time(s), quote_volume, close, high, low, open, base_volume, closed],
// по возрастанию времени.

func (g *gateExchange) GetCandles(ctx context.Context, pair string, width domain.CandleWidth, count int) ([]domain.CoinHistory, error) {
	if count <= 0 {
		return []domain.CoinHistory{}, nil
	}
	iv, ok := intervals[width]
	if !ok {
		return nil, fmt.Errorf("gate: неизвестная ширина свечи %q", width)
	}
	q := url.Values{}
	q.Set("currency_pair", toGateSymbol(pair))
	q.Set("interval", iv)
	q.Set("limit", strconv.Itoa(min(count, maxLimit)))
	u := fmt.Sprintf("%s/api/v4/spot/candlesticks?%s", g.baseURL, q.Encode())

	var rows [][]string
	if err := g.http.GetJSON(ctx, u, &rows); err != nil {
		return nil, fmt.Errorf("gate: ошибка запроса свечей: %w", err)
	}

	out := make([]domain.CoinHistory, 0, len(rows))
	for _, c := range rows {
		if len(c) < 3 {
			return nil, fmt.Errorf("gate: короткая свеча (%d полей): %w", len(c), mapper.ErrMalformed)
		}
		sec, err := strconv.ParseInt(c[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("gate: время свечи %q: %w", c[0], mapper.ErrMalformed)
		}
		p, err := mapper.FromKline(sec*1000, c[2])
		if err != nil {
			return nil, fmt.Errorf("gate: %s: %w", pair, err)
		}
		out = append(out, p)
	}
	return out, nil
}
