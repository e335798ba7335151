package mapper

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/shared/format"
)

const coinLoreBTC = `{
	"id": "90", "symbol": "BTC", "name": "Bitcoin", "nameid": "bitcoin", "rank": 1,
	"price_usd": "42000.12", "percent_change_24h": "-0.84", "percent_change_1h": "0.10",
	"market_cap_usd": "822553816866.24", "volume24": 31443729387.312345,
	"csupply": "19600000.00", "tsupply": "19600000", "msupply": "21000000"
}`

const coinLoreETH = `{
	"id": "80", "symbol": "eth", "name": "Ethereum", "nameid": "ethereum", "rank": 2,
	"price_usd": "2900.25", "percent_change_24h": "1.2", "market_cap_usd": "348000000000",
	"volume24": 15000000000, "csupply": "120000000", "tsupply": "120000000", "msupply": ""
}`

func requireCanonical(t *testing.T, c domain.Coin) {
	t.Helper()
	require.NotEmpty(t, c.ID)
	require.NotEmpty(t, c.Symbol)
	require.NotEmpty(t, c.Name)
	for name, v := range map[string]string{
		"rank": c.Rank, "supply": c.Supply, "marketCapUsd": c.MarketCapUsd,
		"volumeUsd24Hr": c.VolumeUsd24Hr, "priceUsd": c.PriceUsd,
		"changePercent24Hr": c.ChangePercent24Hr, "vwap24Hr": c.Vwap24Hr,
	} {
		assert.Truef(t, format.IsDecimal(v), "%s=%q is not a decimal", name, v)
	}
	if c.MaxSupply != nil {
		assert.True(t, format.IsDecimal(*c.MaxSupply))
	}
}

func TestFromCoinLore(t *testing.T) {
	var raw CoinLoreTicker
	require.NoError(t, json.Unmarshal([]byte(coinLoreBTC), &raw))

	c, err := FromCoinLore(raw)
	require.NoError(t, err)
	requireCanonical(t, c)

	assert.Equal(t, "bitcoin", c.ID)
	assert.Equal(t, "1", c.Rank)
	assert.Equal(t, "BTC", c.Symbol)
	assert.Equal(t, "19600000.00", c.Supply)
	require.NotNil(t, c.MaxSupply)
	assert.Equal(t, "21000000", *c.MaxSupply)
	// точность объёма не теряется при декодировании
	assert.Equal(t, "31443729387.312345", c.VolumeUsd24Hr)
	assert.Equal(t, c.PriceUsd, c.Vwap24Hr)
	assert.Nil(t, c.Explorer)
}

func TestFromCoinLore_UncappedAndLowercaseSymbol(t *testing.T) {
	var raw CoinLoreTicker
	require.NoError(t, json.Unmarshal([]byte(coinLoreETH), &raw))

	c, err := FromCoinLore(raw)
	require.NoError(t, err)
	requireCanonical(t, c)
	assert.Nil(t, c.MaxSupply, "empty msupply means uncapped")
	assert.Equal(t, "ETH", c.Symbol)
}

func TestFromCoinLore_Malformed(t *testing.T) {
	var raw CoinLoreTicker
	require.NoError(t, json.Unmarshal([]byte(coinLoreBTC), &raw))

	noPrice := raw
	noPrice.PriceUsd = ""
	_, err := FromCoinLore(noPrice)
	assert.True(t, errors.Is(err, ErrMalformed))

	noID := raw
	noID.NameID = " "
	_, err = FromCoinLore(noID)
	assert.True(t, errors.Is(err, ErrMalformed))

	badRank := raw
	badRank.Rank = json.Number("1.5")
	_, err = FromCoinLore(badRank)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestFromCoinCap(t *testing.T) {
	body := `{
		"id": "Ethereum", "rank": "2", "symbol": "ETH", "name": "Ethereum",
		"supply": "120000000.5", "maxSupply": null, "marketCapUsd": "350000000000",
		"volumeUsd24Hr": "15000000000", "priceUsd": "2900.2500000000000001",
		"changePercent24Hr": "-1.2", "vwap24Hr": null, "explorer": "https://etherscan.io/"
	}`
	var raw CoinCapAsset
	require.NoError(t, json.Unmarshal([]byte(body), &raw))

	c, err := FromCoinCap(raw)
	require.NoError(t, err)
	requireCanonical(t, c)

	assert.Equal(t, "ethereum", c.ID)
	assert.Nil(t, c.MaxSupply)
	assert.Equal(t, "2900.2500000000000001", c.PriceUsd)
	assert.Equal(t, c.PriceUsd, c.Vwap24Hr, "null vwap takes the spot price")
	require.NotNil(t, c.Explorer)
	assert.Equal(t, "https://etherscan.io/", *c.Explorer)
}

func TestFromCoinCap_NullRequiredField(t *testing.T) {
	body := `{"id":"x","rank":"9","symbol":"X","name":"X","supply":"1","priceUsd":null,
		"marketCapUsd":"1","volumeUsd24Hr":"1","changePercent24Hr":"0"}`
	var raw CoinCapAsset
	require.NoError(t, json.Unmarshal([]byte(body), &raw))

	_, err := FromCoinCap(raw)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestFromKline(t *testing.T) {
	p, err := FromKline(1700000000000, "37012.34000000")
	require.NoError(t, err)
	assert.Equal(t, "37012.34000000", p.PriceUsd)
	assert.Equal(t, int64(1700000000000), p.Time)
	assert.Equal(t, "2023-11-14T22:13:20.000Z", p.Date)

	_, err = FromKline(0, "1")
	assert.True(t, errors.Is(err, ErrMalformed))
	_, err = FromKline(1700000000000, "")
	assert.True(t, errors.Is(err, ErrMalformed))
}
