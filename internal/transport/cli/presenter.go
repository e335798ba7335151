package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"cryptoboard/internal/domain"
)

type CLIPresenter struct{ out io.Writer }

func NewCLIPresenter(out io.Writer) *CLIPresenter { return &CLIPresenter{out: out} }

func (c *CLIPresenter) Infof(format string, args ...any) { fmt.Fprintf(c.out, format, args...) }
func (c *CLIPresenter) Warnf(format string, args ...any) { fmt.Fprintf(c.out, format, args...) }

func (c *CLIPresenter) ShowCoins(coins []domain.Coin) {
	fmt.Fprintf(c.out, "\n=== Топ-%d монет ===\n", len(coins))
	for _, coin := range coins {
		fmt.Fprintf(c.out, "%4s  %-6s %-20s %18s USD  %s%%\n",
			coin.Rank, coin.Symbol, coin.Name, humanUSD(round(coin.PriceUsd, 4)), round(coin.ChangePercent24Hr, 2))
	}
}

func (c *CLIPresenter) ShowCoinSummary(coin domain.Coin) {
	fmt.Fprintf(c.out, "\n=== %s (%s), #%s ===\n", coin.Name, coin.Symbol, coin.Rank)
	fmt.Fprintf(c.out, "Цена: %s USD, за 24ч: %s%%\n", humanUSD(round(coin.PriceUsd, 4)), round(coin.ChangePercent24Hr, 2))
	fmt.Fprintf(c.out, "Капитализация: %s USD, объём 24ч: %s USD\n",
		humanUSD(round(coin.MarketCapUsd, 0)), humanUSD(round(coin.VolumeUsd24Hr, 0)))
	if coin.MaxSupply != nil {
		fmt.Fprintf(c.out, "Эмиссия: %s из %s\n", humanUSD(round(coin.Supply, 0)), humanUSD(round(*coin.MaxSupply, 0)))
	} else {
		fmt.Fprintf(c.out, "Эмиссия: %s (без лимита)\n", humanUSD(round(coin.Supply, 0)))
	}
}

// ShowHistory печатает границы ряда, минимум, максимум и изменение за период.
func (c *CLIPresenter) ShowHistory(iv domain.Interval, points []domain.CoinHistory) {
	fmt.Fprintf(c.out, "\n=== История %s: %d точек ===\n", iv, len(points))
	if len(points) == 0 {
		return
	}
	first, last := points[0], points[len(points)-1]
	lo, hi := price(first), price(first)
	for _, p := range points[1:] {
		v := price(p)
		lo = decimal.Min(lo, v)
		hi = decimal.Max(hi, v)
	}
	fmt.Fprintf(c.out, "С %s по %s\n", stamp(first.Time), stamp(last.Time))
	fmt.Fprintf(c.out, "Мин: %s, макс: %s\n", humanUSD(lo.Round(4).String()), humanUSD(hi.Round(4).String()))
	if f := price(first); !f.IsZero() {
		ch := price(last).Sub(f).Div(f).Mul(decimal.NewFromInt(100))
		fmt.Fprintf(c.out, "Изменение: %s%%\n", ch.Round(2).String())
	}
}

func price(p domain.CoinHistory) decimal.Decimal {
	d, err := decimal.NewFromString(p.PriceUsd)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func round(s string, places int32) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d.Round(places).String()
}

func stamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("15:04 02.01.2006")
}
