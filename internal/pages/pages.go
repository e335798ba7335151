// Package pages собирает данные серверных страниц: главной, карточки монеты и sitemap.
// Разметку не строит: наружу уходят только структуры (и XML для поисковиков).
package pages

import (
	"context"
	"encoding/xml"
	"errors"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"cryptoboard/internal/domain"
)

const (
	HomeLimit    = 50
	MaxHomeLimit = 100
	SitemapLimit = 100
)

var ErrNotFound = errors.New("coin not found")

// MarketData — то, что страницам нужно от клиента рыночных данных.
type MarketData interface {
	ListCoins(ctx context.Context, limit int) []domain.Coin
	GetCoinByID(ctx context.Context, id string) (domain.Coin, bool)
	GetHistory(ctx context.Context, id string, iv domain.Interval) []domain.CoinHistory
}

type Home struct {
	Coins       []domain.Coin `json:"coins"`
	LastUpdated string        `json:"lastUpdated"`
}

type Detail struct {
	Coin     domain.Coin          `json:"coin"`
	History  []domain.CoinHistory `json:"history"`
	Interval domain.Interval      `json:"interval"`
}

type Loader struct {
	md      MarketData
	baseURL string
	now     func() time.Time
}

func NewLoader(md MarketData, baseURL string) *Loader {
	return &Loader{md: md, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

// Home: limit <= 0 — HomeLimit, больше MaxHomeLimit не отдаём.
func (l *Loader) Home(ctx context.Context, limit int) Home {
	if limit <= 0 {
		limit = HomeLimit
	}
	limit = min(limit, MaxHomeLimit)
	return Home{
		Coins:       l.md.ListCoins(ctx, limit),
		LastUpdated: l.now().UTC().Format(time.RFC3339),
	}
}

// CoinDetail грузит монету и историю параллельно. Монеты нет — ErrNotFound.
func (l *Loader) CoinDetail(ctx context.Context, id string, iv domain.Interval) (Detail, error) {
	if !iv.Valid() {
		iv = domain.DefaultInterval
	}
	var (
		coin    domain.Coin
		found   bool
		history []domain.CoinHistory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		coin, found = l.md.GetCoinByID(gctx, id)
		return nil
	})
	g.Go(func() error {
		history = l.md.GetHistory(gctx, id, iv)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Detail{}, err
	}
	if !found {
		return Detail{}, ErrNotFound
	}
	return Detail{Coin: coin, History: history, Interval: iv}, nil
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Sitemap: главная и страницы топ-100 монет.
func (l *Loader) Sitemap(ctx context.Context) ([]byte, error) {
	coins := l.md.ListCoins(ctx, SitemapLimit)
	set := urlset{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(coins)+1),
	}
	set.URLs = append(set.URLs, sitemapURL{Loc: l.baseURL, ChangeFreq: "hourly", Priority: "1.0"})
	for _, c := range coins {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        l.baseURL + "/coin/" + url.PathEscape(c.ID),
			ChangeFreq: "hourly",
			Priority:   "0.8",
		})
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
