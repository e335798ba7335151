// Package mapper переводит записи апстримов в канонические domain.Coin и domain.CoinHistory.
// Все функции чистые: одна входная запись — ровно одна каноническая либо ошибка.
package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/shared/format"
)

var ErrMalformed = errors.New("malformed upstream record")

// CoinLoreTicker — элемент data[] из /api/tickers/.
// rank и volume24 приходят числами, прочее — строками; msupply "" у монет без лимита.
type CoinLoreTicker struct {
	ID               string      `json:"id"`
	Symbol           string      `json:"symbol"`
	Name             string      `json:"name"`
	NameID           string      `json:"nameid"`
	Rank             json.Number `json:"rank"`
	PriceUsd         string      `json:"price_usd"`
	PercentChange24h string      `json:"percent_change_24h"`
	MarketCapUsd     string      `json:"market_cap_usd"`
	Volume24         json.Number `json:"volume24"`
	CSupply          string      `json:"csupply"`
	TSupply          string      `json:"tsupply"`
	MSupply          string      `json:"msupply"`
}

// CoinCapAsset — элемент data[] из /v2/assets. Почти канон, но часть полей бывает null.
type CoinCapAsset struct {
	ID                string  `json:"id"`
	Rank              string  `json:"rank"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Supply            *string `json:"supply"`
	MaxSupply         *string `json:"maxSupply"`
	MarketCapUsd      *string `json:"marketCapUsd"`
	VolumeUsd24Hr     *string `json:"volumeUsd24Hr"`
	PriceUsd          *string `json:"priceUsd"`
	ChangePercent24Hr *string `json:"changePercent24Hr"`
	Vwap24Hr          *string `json:"vwap24Hr"`
	Explorer          *string `json:"explorer"`
}

func FromCoinLore(t CoinLoreTicker) (domain.Coin, error) {
	id := domain.NormalizeID(t.NameID)
	if id == "" || strings.TrimSpace(t.Symbol) == "" || strings.TrimSpace(t.Name) == "" {
		return domain.Coin{}, fmt.Errorf("%w: coinlore ticker %q without nameid/symbol/name", ErrMalformed, t.ID)
	}
	rank, err := integer(t.Rank.String())
	if err != nil {
		return domain.Coin{}, fmt.Errorf("%w: coinlore %s rank: %v", ErrMalformed, id, err)
	}
	f := fields{id: id}
	c := domain.Coin{
		ID:                id,
		Rank:              rank,
		Symbol:            strings.ToUpper(strings.TrimSpace(t.Symbol)),
		Name:              strings.TrimSpace(t.Name),
		Supply:            f.req("csupply", t.CSupply),
		MaxSupply:         format.OptionalDecimal(t.MSupply),
		MarketCapUsd:      f.req("market_cap_usd", t.MarketCapUsd),
		VolumeUsd24Hr:     f.req("volume24", t.Volume24.String()),
		PriceUsd:          f.req("price_usd", t.PriceUsd),
		ChangePercent24Hr: f.req("percent_change_24h", t.PercentChange24h),
	}
	// VWAP у CoinLore нет — ближайшее, что есть, это спот
	c.Vwap24Hr = c.PriceUsd
	if f.err != nil {
		return domain.Coin{}, f.err
	}
	return c, nil
}

func FromCoinCap(a CoinCapAsset) (domain.Coin, error) {
	id := domain.NormalizeID(a.ID)
	if id == "" || strings.TrimSpace(a.Symbol) == "" || strings.TrimSpace(a.Name) == "" {
		return domain.Coin{}, fmt.Errorf("%w: coincap asset without id/symbol/name", ErrMalformed)
	}
	rank, err := integer(a.Rank)
	if err != nil {
		return domain.Coin{}, fmt.Errorf("%w: coincap %s rank: %v", ErrMalformed, id, err)
	}
	f := fields{id: id}
	c := domain.Coin{
		ID:                id,
		Rank:              rank,
		Symbol:            strings.ToUpper(strings.TrimSpace(a.Symbol)),
		Name:              strings.TrimSpace(a.Name),
		Supply:            f.req("supply", deref(a.Supply)),
		MaxSupply:         format.OptionalDecimal(deref(a.MaxSupply)),
		MarketCapUsd:      f.req("marketCapUsd", deref(a.MarketCapUsd)),
		VolumeUsd24Hr:     f.req("volumeUsd24Hr", deref(a.VolumeUsd24Hr)),
		PriceUsd:          f.req("priceUsd", deref(a.PriceUsd)),
		ChangePercent24Hr: f.req("changePercent24Hr", deref(a.ChangePercent24Hr)),
		Explorer:          optionalURL(deref(a.Explorer)),
	}
	c.Vwap24Hr = c.PriceUsd
	if v, err := format.Decimal(deref(a.Vwap24Hr)); err == nil {
		c.Vwap24Hr = v
	}
	if f.err != nil {
		return domain.Coin{}, f.err
	}
	return c, nil
}

// FromKline: из свечи берём только время открытия и close.
func FromKline(openTimeMs int64, closePrice string) (domain.CoinHistory, error) {
	if openTimeMs <= 0 {
		return domain.CoinHistory{}, fmt.Errorf("%w: kline open time %d", ErrMalformed, openTimeMs)
	}
	p, err := format.Decimal(closePrice)
	if err != nil {
		return domain.CoinHistory{}, fmt.Errorf("%w: kline close: %v", ErrMalformed, err)
	}
	return domain.CoinHistory{
		PriceUsd: p,
		Time:     openTimeMs,
		Date:     format.ISOMillis(openTimeMs),
	}, nil
}

// fields собирает первую ошибку обязательного поля, чтобы не ветвиться на каждом.
type fields struct {
	id  string
	err error
}

func (f *fields) req(name, v string) string {
	out, err := format.Decimal(v)
	if err != nil && f.err == nil {
		f.err = fmt.Errorf("%w: %s %s: %v", ErrMalformed, f.id, name, err)
	}
	return out
}

func integer(s string) (string, error) {
	v, err := format.Decimal(s)
	if err != nil {
		return "", err
	}
	if strings.ContainsAny(v, ".eE") {
		return "", fmt.Errorf("rank %q is not an integer", v)
	}
	return v, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalURL(s string) *string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return nil
	}
	return &s
}
