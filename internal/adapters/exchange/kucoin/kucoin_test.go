package kucoinadapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/mapper"
)

func TestToKuCoinSymbol(t *testing.T) {
	assert.Equal(t, "BTC-USDT", toKuCoinSymbol("BTCUSDT"))
	assert.Equal(t, "USDC-USDT", toKuCoinSymbol("USDCUSDT"))
	assert.Equal(t, "USDT", toKuCoinSymbol("USDT"))
}

func fixedNow(p domain.CandleProvider, ts time.Time) {
	p.(*kucoinExchange).now = func() time.Time { return ts }
}

func TestGetCandles_WindowAndOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/market/candles", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "BTC-USDT", q.Get("symbol"))
		assert.Equal(t, "1hour", q.Get("type"))
		assert.Equal(t, "1700007200", q.Get("endAt"))
		assert.Equal(t, "1700000000", q.Get("startAt"))
		_, _ = w.Write([]byte(`{"code":"200000","data":[
			["1700007200","3","3.3","3.5","2.9","1","1"],
			["1700003600","2","2.2","2.5","1.9","1","1"],
			["1700000000","1","1.1","1.5","0.9","1","1"]
		]}`))
	}))
	defer srv.Close()

	p := New(srv.URL, nil)
	fixedNow(p, time.Unix(1700007200, 0))
	got, err := p.GetCandles(context.Background(), "BTCUSDT", domain.Width1h, 2)
	require.NoError(t, err)
	// лишняя свеча отрезается с начала
	require.Len(t, got, 2)
	assert.Equal(t, int64(1700003600000), got[0].Time)
	assert.Equal(t, "2.2", got[0].PriceUsd)
	assert.Equal(t, "3.3", got[1].PriceUsd)
}

func TestGetCandles_Errors(t *testing.T) {
	body := `{"code":"400100","msg":"symbol not exists","data":[]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()
	p := New(srv.URL, nil)

	_, err := p.GetCandles(context.Background(), "NOPEUSDT", domain.Width1d, 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400100")

	body = `{"code":"200000","data":[["x","1","2"]]}`
	_, err = p.GetCandles(context.Background(), "BTCUSDT", domain.Width1d, 30)
	assert.True(t, errors.Is(err, mapper.ErrMalformed))

	_, err = p.GetCandles(context.Background(), "BTCUSDT", domain.CandleWidth("3m"), 30)
	assert.Error(t, err)
}
