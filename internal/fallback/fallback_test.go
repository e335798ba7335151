package fallback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/shared/format"
)

func fixedClock() time.Time { return time.UnixMilli(1_700_000_000_000) }

func TestDefaultCoins(t *testing.T) {
	d := Default()
	require.Equal(t, 3, d.Len())

	coins := d.Coins(10)
	ids := []string{coins[0].ID, coins[1].ID, coins[2].ID}
	assert.Equal(t, []string{"bitcoin", "ethereum", "dogecoin"}, ids)

	assert.NotNil(t, coins[0].MaxSupply, "capped supply asset")
	assert.Nil(t, coins[1].MaxSupply, "uncapped supply asset")
	assert.Equal(t, "0.15", coins[2].PriceUsd)
}

func TestCoins_Limit(t *testing.T) {
	d := Default()
	assert.Len(t, d.Coins(2), 2)
	assert.Len(t, d.Coins(0), 0)
	assert.Len(t, d.Coins(-3), 0)
	assert.Equal(t, "ethereum", d.Coins(2)[1].ID)
}

func TestCoins_ReturnsCopies(t *testing.T) {
	d := Default()
	c := d.Coins(1)
	c[0].Name = "changed"
	*c[0].MaxSupply = "1"

	again, ok := d.Find("bitcoin")
	require.True(t, ok)
	assert.Equal(t, "Bitcoin", again.Name)
	assert.Equal(t, "21000000", *again.MaxSupply)
}

func TestFind(t *testing.T) {
	d := Default()
	c, ok := d.Find(" Ethereum ")
	require.True(t, ok)
	assert.Equal(t, "ETH", c.Symbol)

	_, ok = d.Find("unknownid")
	assert.False(t, ok)
}

func TestNew_SubstitutesDataset(t *testing.T) {
	d := New([]domain.Coin{{ID: "solana", Symbol: "SOL", Name: "Solana"}})
	assert.Equal(t, 1, d.Len())
	_, ok := d.Find("bitcoin")
	assert.False(t, ok)
	assert.Equal(t, DefaultBasePrice, d.BasePrice("solana"))
}

func TestHistory_ShapeForEveryInterval(t *testing.T) {
	d := Default(WithClock(fixedClock))
	for _, iv := range domain.Intervals() {
		c := iv.Candles()
		h := d.History("bitcoin", iv)
		require.Lenf(t, h, c.Count, "interval %s", iv)

		for i := range h {
			assert.True(t, format.IsDecimal(h[i].PriceUsd))
			assert.Equal(t, format.ISOMillis(h[i].Time), h[i].Date)
			if i > 0 {
				assert.Equalf(t, c.Step.Milliseconds(), h[i].Time-h[i-1].Time, "interval %s step", iv)
			}
		}
		last := h[len(h)-1].Time
		assert.Equal(t, fixedClock().UnixMilli()-c.Step.Milliseconds(), last)
	}
}

func TestHistory_RandomWalkBounds(t *testing.T) {
	// u всегда на верхней границе: каждая точка ровно на 5% выше предыдущей
	d := Default(WithClock(fixedClock), WithRand(func() float64 { return 1 }))
	h := d.History("ethereum", domain.Interval1D)
	require.Len(t, h, 24)
	assert.Equal(t, format.Price(2900*1.05), h[0].PriceUsd)

	// нулевой u — спад на 5% на каждом шаге, цена остаётся положительной
	d = Default(WithClock(fixedClock), WithRand(func() float64 { return 0 }))
	h = d.History("unknown-coin", domain.Interval1Y)
	require.Len(t, h, 52)
	assert.Equal(t, format.Price(DefaultBasePrice*0.95), h[0].PriceUsd)
}
