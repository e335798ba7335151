// Package marketdata — единая точка доступа к рыночным данным.
// Клиент опрашивает провайдера рейтинга и провайдера свечей, а при любом сбое
// отдаёт запасной набор. Наружу ошибки апстримов не выходят никогда.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/fallback"
	"cryptoboard/internal/shared/retry"
)

const (
	DefaultTimeout      = 5 * time.Second
	DefaultSearchWindow = 100
	DefaultRetryDelay   = 200 * time.Millisecond
	DefaultQuote        = "USDT"
	DefaultStablePair   = "USDCUSDT"
)

// Виды апстримов: метка op в метриках и префикс сервиса в health.
const (
	KindListing = "listing"
	KindCandles = "candles"
)

var (
	ErrPanic      = errors.New("upstream adapter panicked")
	ErrNoProvider = errors.New("provider is not configured")
	ErrEmpty      = errors.New("upstream returned no records")
	ErrNotFound   = errors.New("coin not found")
	ErrSeries     = errors.New("candle series does not match interval")
)

// Observer получает исход каждого вызова апстрима и каждый переход на запасные данные.
type Observer interface {
	UpstreamCall(kind, provider string, took time.Duration, err error)
	Fallback(op string)
}

type nopObserver struct{}

func (nopObserver) UpstreamCall(string, string, time.Duration, error) {}
func (nopObserver) Fallback(string)                                  {}

type Options struct {
	Listing  domain.ListingProvider
	Candles  domain.CandleProvider
	Fallback *fallback.Dataset
	Logger   logrus.FieldLogger
	Observer Observer

	Timeout      time.Duration // бюджет одного вызова апстрима, вместе с ретраями
	SearchWindow int           // сколько монет топа просматривать при поиске по id
	Attempts     int           // 1 — без повторов
	RetryDelay   time.Duration

	Quote      string // котируемая валюта пары
	StablePair string // пара для самой котируемой валюты
}

type Client struct {
	listing domain.ListingProvider
	candles domain.CandleProvider
	data    *fallback.Dataset
	log     logrus.FieldLogger
	obs     Observer

	timeout    time.Duration
	window     int
	attempts   int
	retryDelay time.Duration
	quote      string
	stablePair string
}

func New(o Options) *Client {
	c := &Client{
		listing:    o.Listing,
		candles:    o.Candles,
		data:       o.Fallback,
		log:        o.Logger,
		obs:        o.Observer,
		timeout:    o.Timeout,
		window:     o.SearchWindow,
		attempts:   o.Attempts,
		retryDelay: o.RetryDelay,
		quote:      strings.ToUpper(strings.TrimSpace(o.Quote)),
		stablePair: strings.ToUpper(strings.TrimSpace(o.StablePair)),
	}
	if c.data == nil {
		c.data = fallback.Default()
	}
	if c.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		c.log = l
	}
	if c.obs == nil {
		c.obs = nopObserver{}
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.window <= 0 {
		c.window = DefaultSearchWindow
	}
	if c.attempts < 1 {
		c.attempts = 1
	}
	if c.retryDelay <= 0 {
		c.retryDelay = DefaultRetryDelay
	}
	if c.quote == "" {
		c.quote = DefaultQuote
	}
	if c.stablePair == "" {
		c.stablePair = DefaultStablePair
	}
	return c
}

// ListCoins — до limit монет рейтинга; при сбое провайдера — первые limit запасных.
func (c *Client) ListCoins(ctx context.Context, limit int) []domain.Coin {
	if limit <= 0 {
		return []domain.Coin{}
	}
	coins, err := c.topRanked(ctx, limit)
	if err != nil {
		c.degrade("list", err, logrus.Fields{"limit": limit})
		return c.data.Coins(limit)
	}
	return coins
}

// GetCoinByID ищет монету в окне топа, затем в запасном наборе.
func (c *Client) GetCoinByID(ctx context.Context, id string) (domain.Coin, bool) {
	key := domain.NormalizeID(id)
	if key == "" {
		return domain.Coin{}, false
	}
	window, err := c.topRanked(ctx, c.window)
	if err != nil {
		c.degrade("coin", err, logrus.Fields{"id": key})
		return c.data.Find(key)
	}
	for _, coin := range window {
		if coin.ID == key {
			return coin, true
		}
	}
	c.log.WithFields(logrus.Fields{"id": key, "window": c.window}).Debug("coin not in listing window, trying fallback set")
	return c.data.Find(key)
}

// CoinsByIDs — монеты в порядке ids; одна выборка окна на весь вызов.
// Неизвестные id молча пропускаются, повторы отдаются один раз.
func (c *Client) CoinsByIDs(ctx context.Context, ids []string) []domain.Coin {
	keys := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		k := domain.NormalizeID(id)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	out := make([]domain.Coin, 0, len(keys))
	if len(keys) == 0 {
		return out
	}

	byID := map[string]domain.Coin{}
	window, err := c.topRanked(ctx, c.window)
	if err != nil {
		c.degrade("coins", err, logrus.Fields{"ids": len(keys)})
	}
	for _, coin := range window {
		byID[coin.ID] = coin
	}
	for _, k := range keys {
		if coin, ok := byID[k]; ok {
			out = append(out, coin)
			continue
		}
		if coin, ok := c.data.Find(k); ok {
			out = append(out, coin)
		}
	}
	return out
}

// GetHistory — ряд close-цен за период. Ровно столько точек, сколько велит таблица,
// с шагом в ширину свечи; иначе синтетический ряд.
func (c *Client) GetHistory(ctx context.Context, id string, iv domain.Interval) []domain.CoinHistory {
	if !iv.Valid() {
		iv = domain.DefaultInterval
	}
	key := domain.NormalizeID(id)
	coin, ok := c.GetCoinByID(ctx, key)
	if !ok {
		c.degrade("history", ErrNotFound, logrus.Fields{"id": key, "interval": iv})
		return c.data.History(key, iv)
	}

	want := iv.Candles()
	pair := c.Pair(coin.Symbol)
	var points []domain.CoinHistory
	err := c.call(ctx, KindCandles, name(c.candles), func(ctx context.Context) error {
		if c.candles == nil {
			return ErrNoProvider
		}
		var err error
		points, err = c.candles.GetCandles(ctx, pair, want.Width, want.Count)
		return err
	})
	if err == nil {
		err = checkSeries(points, want)
	}
	if err != nil {
		c.degrade("history", err, logrus.Fields{
			"id": coin.ID, "pair": pair, "interval": iv, "provider": name(c.candles),
		})
		return c.data.History(coin.ID, iv)
	}
	return points
}

// Pair строит тикер пары для свечей: SYMBOL+quote, сама quote — стейбл-пара.
func (c *Client) Pair(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == c.quote {
		return c.stablePair
	}
	return s + c.quote
}

func (c *Client) topRanked(ctx context.Context, limit int) ([]domain.Coin, error) {
	var coins []domain.Coin
	err := c.call(ctx, KindListing, name(c.listing), func(ctx context.Context) error {
		if c.listing == nil {
			return ErrNoProvider
		}
		var err error
		coins, err = c.listing.ListTopRanked(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(coins) == 0 {
		return nil, fmt.Errorf("%s: %w", name(c.listing), ErrEmpty)
	}
	if len(coins) > limit {
		coins = coins[:limit]
	}
	return coins, nil
}

// call: свой таймаут на вызов (с повторами внутри), паника адаптера — обычная ошибка.
func (c *Client) call(ctx context.Context, kind, provider string, op func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := retry.WithRetry(ctx, c.attempts, c.retryDelay, func(ctx context.Context) error {
		return guard(ctx, op)
	})
	c.obs.UpstreamCall(kind, provider, time.Since(start), err)
	return err
}

func guard(ctx context.Context, op func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return op(ctx)
}

func (c *Client) degrade(op string, err error, f logrus.Fields) {
	c.obs.Fallback(op)
	entry := c.log.WithFields(f).WithField("op", op).WithError(err)
	if _, ok := f["provider"]; !ok {
		entry = entry.WithField("provider", name(c.listing))
	}
	entry.Warn("upstream failed, serving fallback data")
}

func checkSeries(points []domain.CoinHistory, want domain.Candles) error {
	if len(points) != want.Count {
		return fmt.Errorf("%w: %d points, want %d", ErrSeries, len(points), want.Count)
	}
	step := want.Step.Milliseconds()
	for i := 1; i < len(points); i++ {
		if d := points[i].Time - points[i-1].Time; d != step {
			return fmt.Errorf("%w: gap %dms at %d, want %dms", ErrSeries, d, i, step)
		}
	}
	return nil
}

type named interface{ Name() string }

func name(p named) (n string) {
	if p == nil {
		return "none"
	}
	defer func() {
		if recover() != nil {
			n = "unknown"
		}
	}()
	return p.Name()
}
