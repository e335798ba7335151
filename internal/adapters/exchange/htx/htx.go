package htxadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/infra/upstream"
	"cryptoboard/internal/mapper"
)

const DefaultBaseURL = "https://api.huobi.pro"

const maxSize = 2000

// HTX (Huobi) использует "btcusdt" (lowercase, без разделителей).
// В адаптере переводим из "BTCUSDT" -> "btcusdt".
func toHTXSymbol(unified string) string {
	return strings.ToLower(unified)
}

var periods = map[domain.CandleWidth]string{
	domain.Width1m: "1min",
	domain.Width1h: "60min",
	domain.Width4h: "4hour",
	domain.Width1d: "1day",
	domain.Width1w: "1week",
}

type htxExchange struct {
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
	return &htxExchange{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (h *htxExchange) Name() string { return "htx" }

// ===== /market/history/kline =====

type klineResp struct {
	Status  string `json:"status"` // "ok" | "error"
	ErrCode string `json:"err-code"`
	ErrMsg  string `json:"err-msg"`
	Data    []struct {
		ID    int64       `json:"id"`    // начало свечи, секунды
		Close json.Number `json:"close"` // число, храним текст как есть
	} `json:"data"` // новые первыми
}

func (h *htxExchange) GetCandles(ctx context.Context, pair string, width domain.CandleWidth, count int) ([]domain.CoinHistory, error) {
	if count <= 0 {
		return []domain.CoinHistory{}, nil
	}
	period, ok := periods[width]
	if !ok {
		return nil, fmt.Errorf("htx: неизвестная ширина свечи %q", width)
	}
	q := url.Values{}
	q.Set("symbol", toHTXSymbol(pair))
	q.Set("period", period)
	q.Set("size", strconv.Itoa(min(count, maxSize)))
	u := fmt.Sprintf("%s/market/history/kline?%s", h.baseURL, q.Encode())

	var resp klineResp
	if err := h.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("htx: ошибка запроса свечей: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("htx: API error %s: %s", resp.ErrCode, resp.ErrMsg)
	}

	out := make([]domain.CoinHistory, 0, len(resp.Data))
	for _, c := range resp.Data {
		p, err := mapper.FromKline(c.ID*1000, c.Close.String())
		if err != nil {
			return nil, fmt.Errorf("htx: %s: %w", pair, err)
		}
		out = append(out, p)
	}
	slices.Reverse(out)
	return out, nil
}
