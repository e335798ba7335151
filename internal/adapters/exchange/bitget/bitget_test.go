package bitgetadapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/mapper"
)

func TestGetCandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/spot/market/candles", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "BTCUSDT", q.Get("symbol"))
		assert.Equal(t, "1day", q.Get("granularity"))
		assert.Equal(t, "2", q.Get("limit"))
		_, _ = w.Write([]byte(`{"code":"00000","msg":"success","data":[
			["1700000000000","36000","37000","35500","36500.10","10","365000","365000"],
			["1700086400000","36500.10","37500","36000","37100.00","10","371000","371000"]
		]}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL, nil).GetCandles(context.Background(), "BTCUSDT", domain.Width1d, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "36500.10", got[0].PriceUsd)
	assert.Equal(t, "37100.00", got[1].PriceUsd)
	assert.Equal(t, "2023-11-15T22:13:20.000Z", got[1].Date)
}

func TestGetCandles_Errors(t *testing.T) {
	body := `{"code":"40034","msg":"Parameter does not exist","data":null}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()
	p := New(srv.URL, nil)

	_, err := p.GetCandles(context.Background(), "NOPEUSDT", domain.Width1h, 24)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40034")

	body = `{"code":"00000","data":[["1700000000000","1","2","3"]]}`
	_, err = p.GetCandles(context.Background(), "BTCUSDT", domain.Width1h, 24)
	assert.True(t, errors.Is(err, mapper.ErrMalformed))
}
