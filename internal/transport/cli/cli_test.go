package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/fallback"
)

func TestGetInteractiveParams(t *testing.T) {
	coins := fallback.DefaultCoins()
	var out bytes.Buffer

	p := GetInteractiveParams(strings.NewReader("2\n5Y\n1M\n"), &out, coins)
	assert.Equal(t, "ethereum", p.CoinID)
	assert.Equal(t, domain.Interval1M, p.Interval)
	assert.Contains(t, out.String(), "Ethereum (ETH)")
	assert.Contains(t, out.String(), "Введите одну из меток")
}

func TestGetInteractiveParams_Defaults(t *testing.T) {
	var out bytes.Buffer
	p := GetInteractiveParams(strings.NewReader(""), &out, fallback.DefaultCoins())
	assert.Equal(t, "bitcoin", p.CoinID)
	assert.Equal(t, domain.DefaultInterval, p.Interval)
}

func TestHumanUSD(t *testing.T) {
	assert.Equal(t, "42 000,5", humanUSD("42000.5"))
	assert.Equal(t, "-1 234", humanUSD("-1234"))
	assert.Equal(t, "0,15", humanUSD("0.15"))
}

func TestPresenter(t *testing.T) {
	var out bytes.Buffer
	pr := NewCLIPresenter(&out)

	coins := fallback.DefaultCoins()
	pr.ShowCoins(coins)
	pr.ShowCoinSummary(coins[1])
	pr.ShowHistory(domain.Interval1H, []domain.CoinHistory{
		{PriceUsd: "100", Time: 1700000000000},
		{PriceUsd: "90", Time: 1700000060000},
		{PriceUsd: "110", Time: 1700000120000},
	})

	s := out.String()
	assert.Contains(t, s, "Топ-3 монет")
	assert.Contains(t, s, "Эмиссия: 120 000 000 (без лимита)")
	assert.Contains(t, s, "Мин: 90, макс: 110")
	assert.Contains(t, s, "Изменение: 10%")
}
