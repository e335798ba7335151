package binanceadapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/mapper"

	gbinance "github.com/adshao/go-binance/v2"
)

// Публичные свечи /api/v3/klines, ключи не нужны.

type BinanceExchange struct {
	client *gbinance.Client
}

// New: пустой baseURL — боевой api.binance.com. hc == nil — клиент с мягким таймаутом.
func New(baseURL string, hc *http.Client) *BinanceExchange {
	client := gbinance.NewClient("", "")
	if baseURL != "" {
		client.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if hc == nil {
		// не висим долго, но и не рвём слишком быстро
		hc = &http.Client{Timeout: 7 * time.Second}
	}
	client.HTTPClient = hc
	return &BinanceExchange{client: client}
}

func (b *BinanceExchange) Name() string { return "binance" }

// У Binance словарь интервалов совпадает с нашим.
var intervals = map[domain.CandleWidth]string{
	domain.Width1m: "1m",
	domain.Width1h: "1h",
	domain.Width4h: "4h",
	domain.Width1d: "1d",
	domain.Width1w: "1w",
}

func (b *BinanceExchange) GetCandles(ctx context.Context, pair string, width domain.CandleWidth, count int) ([]domain.CoinHistory, error) {
	if count <= 0 {
		return []domain.CoinHistory{}, nil
	}
	iv, ok := intervals[width]
	if !ok {
		return nil, fmt.Errorf("binance: неизвестная ширина свечи %q", width)
	}
	klines, err := b.client.NewKlinesService().
		Symbol(pair).
		Interval(iv).
		Limit(count).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance: свечи %s (%s x%d): %w", pair, iv, count, err)
	}

	out := make([]domain.CoinHistory, 0, len(klines))
	for _, k := range klines {
		p, err := mapper.FromKline(k.OpenTime, k.Close)
		if err != nil {
			return nil, fmt.Errorf("binance: %s: %w", pair, err)
		}
		out = append(out, p)
	}
	return out, nil
}
