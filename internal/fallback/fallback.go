// Package fallback — запасной набор монет и генератор синтетической истории
// на случай, когда апстримы недоступны. Набор неизменяемый и передаётся явно.
package fallback

import (
	"math/rand/v2"
	"time"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/shared/format"
)

// DefaultBasePrice — стартовая цена случайного блуждания для монет без своей.
const DefaultBasePrice = 0.15

// Dataset хранит свою копию монет; наружу отдаёт только копии.
type Dataset struct {
	coins      []domain.Coin
	basePrices map[string]float64

	now  func() time.Time
	rand func() float64 // [0, 1)
}

type Option func(*Dataset)

// WithClock подменяет часы генератора истории.
func WithClock(now func() time.Time) Option { return func(d *Dataset) { d.now = now } }

// WithRand подменяет источник равномерных чисел в [0, 1).
func WithRand(r func() float64) Option { return func(d *Dataset) { d.rand = r } }

// WithBasePrices задаёт стартовые цены по id.
func WithBasePrices(m map[string]float64) Option {
	return func(d *Dataset) {
		d.basePrices = make(map[string]float64, len(m))
		for k, v := range m {
			d.basePrices[domain.NormalizeID(k)] = v
		}
	}
}

func New(coins []domain.Coin, opts ...Option) *Dataset {
	d := &Dataset{
		coins:      cloneCoins(coins),
		basePrices: map[string]float64{},
		now:        time.Now,
		rand:       rand.Float64,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Default — три монеты: с лимитом эмиссии, без лимита и дешёвая с огромным supply.
func Default(opts ...Option) *Dataset {
	base := []Option{WithBasePrices(map[string]float64{
		"bitcoin":  42000,
		"ethereum": 2900,
	})}
	return New(DefaultCoins(), append(base, opts...)...)
}

func DefaultCoins() []domain.Coin {
	return []domain.Coin{
		{
			ID: "bitcoin", Rank: "1", Symbol: "BTC", Name: "Bitcoin",
			Supply: "19000000", MaxSupply: ptr("21000000"),
			MarketCapUsd: "800000000000", VolumeUsd24Hr: "30000000000",
			PriceUsd: "42000.50", ChangePercent24Hr: "2.5", Vwap24Hr: "41500.00",
			Explorer: ptr("https://blockchain.info/"),
		},
		{
			ID: "ethereum", Rank: "2", Symbol: "ETH", Name: "Ethereum",
			Supply: "120000000", MaxSupply: nil,
			MarketCapUsd: "350000000000", VolumeUsd24Hr: "15000000000",
			PriceUsd: "2900.25", ChangePercent24Hr: "-1.2", Vwap24Hr: "2950.00",
			Explorer: ptr("https://etherscan.io/"),
		},
		{
			ID: "dogecoin", Rank: "10", Symbol: "DOGE", Name: "Dogecoin",
			Supply: "132000000000", MaxSupply: nil,
			MarketCapUsd: "20000000000", VolumeUsd24Hr: "1000000000",
			PriceUsd: "0.15", ChangePercent24Hr: "5.0", Vwap24Hr: "0.14",
			Explorer: ptr("https://dogechain.info/"),
		},
	}
}

func (d *Dataset) Len() int { return len(d.coins) }

// Coins — первые limit монет в исходном порядке.
func (d *Dataset) Coins(limit int) []domain.Coin {
	if limit <= 0 {
		return []domain.Coin{}
	}
	if limit > len(d.coins) {
		limit = len(d.coins)
	}
	return cloneCoins(d.coins[:limit])
}

func (d *Dataset) Find(id string) (domain.Coin, bool) {
	id = domain.NormalizeID(id)
	for _, c := range d.coins {
		if c.ID == id {
			return cloneCoin(c), true
		}
	}
	return domain.Coin{}, false
}

func (d *Dataset) BasePrice(id string) float64 {
	if p, ok := d.basePrices[domain.NormalizeID(id)]; ok && p > 0 {
		return p
	}
	return DefaultBasePrice
}

// History — геометрическое случайное блуждание: каждая точка умножает цену на 1+u,
// u равномерно в [-5%, +5%). Число точек и шаг — из таблицы периода.
// Точка i из n стоит на now-(n-i)*step, так что последняя — за один шаг до now.
func (d *Dataset) History(id string, iv domain.Interval) []domain.CoinHistory {
	c := iv.Candles()
	now := d.now().UnixMilli()
	step := c.Step.Milliseconds()
	price := d.BasePrice(id)

	out := make([]domain.CoinHistory, 0, c.Count)
	for i := 0; i < c.Count; i++ {
		price *= 1 + (d.rand()*0.1 - 0.05)
		ts := now - int64(c.Count-i)*step
		out = append(out, domain.CoinHistory{
			PriceUsd: format.Price(price),
			Time:     ts,
			Date:     format.ISOMillis(ts),
		})
	}
	return out
}

func ptr(s string) *string { return &s }

func cloneCoin(c domain.Coin) domain.Coin {
	if c.MaxSupply != nil {
		c.MaxSupply = ptr(*c.MaxSupply)
	}
	if c.Explorer != nil {
		c.Explorer = ptr(*c.Explorer)
	}
	return c
}

func cloneCoins(cs []domain.Coin) []domain.Coin {
	out := make([]domain.Coin, len(cs))
	for i, c := range cs {
		out[i] = cloneCoin(c)
	}
	return out
}
