package domain

import (
	"context"
	"strings"
)

// Базовые доменные сущности. Все числа — десятичные строки, как их отдаёт апстрим.

type Coin struct {
	ID                string  `json:"id"`
	Rank              string  `json:"rank"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Supply            string  `json:"supply"`
	MaxSupply         *string `json:"maxSupply"` // nil — эмиссия не ограничена
	MarketCapUsd      string  `json:"marketCapUsd"`
	VolumeUsd24Hr     string  `json:"volumeUsd24Hr"`
	PriceUsd          string  `json:"priceUsd"`
	ChangePercent24Hr string  `json:"changePercent24Hr"`
	Vwap24Hr          string  `json:"vwap24Hr"`
	Explorer          *string `json:"explorer"`
}

// CoinHistory — одна точка графика: close свечи и время её открытия.
type CoinHistory struct {
	PriceUsd string `json:"priceUsd"`
	Time     int64  `json:"time"` // epoch ms
	Date     string `json:"date"`
}

// NormalizeID приводит слаг монеты к виду, в котором его сравнивают.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Контракт провайдера рейтинга монет (CoinLore, CoinCap).
type ListingProvider interface {
	Name() string
	ListTopRanked(ctx context.Context, limit int) ([]Coin, error)
}

// Контракт провайдера свечей (Binance, OKX, Bybit).
// pair — унифицированный тикер без разделителя, например "BTCUSDT".
// Возвращает точки в порядке возрастания времени.
type CandleProvider interface {
	Name() string
	GetCandles(ctx context.Context, pair string, width CandleWidth, count int) ([]CoinHistory, error)
}
