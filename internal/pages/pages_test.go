package pages

import (
	"context"
	"encoding/xml"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoboard/internal/domain"
)

type stubMarket struct {
	mu       sync.Mutex
	coins    []domain.Coin
	limits   []int
	interval domain.Interval
	delay    time.Duration
}

func (s *stubMarket) ListCoins(_ context.Context, limit int) []domain.Coin {
	s.mu.Lock()
	s.limits = append(s.limits, limit)
	s.mu.Unlock()
	return s.coins[:min(limit, len(s.coins))]
}

func (s *stubMarket) GetCoinByID(_ context.Context, id string) (domain.Coin, bool) {
	time.Sleep(s.delay)
	for _, c := range s.coins {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Coin{}, false
}

func (s *stubMarket) GetHistory(_ context.Context, _ string, iv domain.Interval) []domain.CoinHistory {
	time.Sleep(s.delay)
	s.mu.Lock()
	s.interval = iv
	s.mu.Unlock()
	return make([]domain.CoinHistory, iv.Candles().Count)
}

func market() *stubMarket {
	return &stubMarket{coins: []domain.Coin{
		{ID: "bitcoin", Rank: "1", Symbol: "BTC"},
		{ID: "ethereum", Rank: "2", Symbol: "ETH"},
	}}
}

func TestHome(t *testing.T) {
	md := market()
	l := NewLoader(md, "https://coins.example.com/")
	l.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	h := l.Home(context.Background(), 0)
	assert.Len(t, h.Coins, 2)
	assert.Equal(t, "2024-05-01T10:00:00Z", h.LastUpdated)

	l.Home(context.Background(), 500)
	assert.Equal(t, []int{HomeLimit, MaxHomeLimit}, md.limits)
}

func TestCoinDetail(t *testing.T) {
	md := market()
	md.delay = 100 * time.Millisecond
	l := NewLoader(md, "")

	start := time.Now()
	d, err := l.CoinDetail(context.Background(), "ethereum", domain.Interval1M)
	require.NoError(t, err)
	// оба вызова идут параллельно
	assert.Less(t, time.Since(start), 190*time.Millisecond)
	assert.Equal(t, "ETH", d.Coin.Symbol)
	assert.Len(t, d.History, 30)
	assert.Equal(t, domain.Interval1M, d.Interval)
}

func TestCoinDetail_DefaultInterval(t *testing.T) {
	md := market()
	d, err := NewLoader(md, "").CoinDetail(context.Background(), "bitcoin", "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultInterval, d.Interval)
	assert.Equal(t, domain.DefaultInterval, md.interval)
}

func TestCoinDetail_NotFound(t *testing.T) {
	_, err := NewLoader(market(), "").CoinDetail(context.Background(), "unknownid", domain.Interval1D)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSitemap(t *testing.T) {
	md := market()
	body, err := NewLoader(md, "https://coins.example.com").Sitemap(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(body), `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, string(body), `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Equal(t, []int{SitemapLimit}, md.limits)

	var set urlset
	require.NoError(t, xml.Unmarshal(body, &set))
	require.Len(t, set.URLs, 3)
	assert.Equal(t, "https://coins.example.com", set.URLs[0].Loc)
	assert.Equal(t, "1.0", set.URLs[0].Priority)
	assert.Equal(t, "https://coins.example.com/coin/bitcoin", set.URLs[1].Loc)
	assert.Equal(t, "0.8", set.URLs[2].Priority)
}
