package webserver

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	binanceadapter "cryptoboard/internal/adapters/exchange/binance"
	bitgetadapter "cryptoboard/internal/adapters/exchange/bitget"
	bybitadapter "cryptoboard/internal/adapters/exchange/bybit"
	gateadapter "cryptoboard/internal/adapters/exchange/gate"
	htxadapter "cryptoboard/internal/adapters/exchange/htx"
	kucoinadapter "cryptoboard/internal/adapters/exchange/kucoin"
	okxadapter "cryptoboard/internal/adapters/exchange/okx"
	coincapadapter "cryptoboard/internal/adapters/listing/coincap"
	coinloreadapter "cryptoboard/internal/adapters/listing/coinlore"
	"cryptoboard/internal/config"
	"cryptoboard/internal/domain"
	"cryptoboard/internal/fallback"
	"cryptoboard/internal/infra/upstream"
	"cryptoboard/internal/marketdata"
	"cryptoboard/internal/observability"
	"cryptoboard/internal/pages"
	"cryptoboard/internal/transport/httpapi"
)

// App — собранный процесс: HTTP-сервер и health для gRPC-листенера.
type App struct {
	HTTP   *httpapi.Server
	Health *observability.Health
	Market *marketdata.Client
}

// New собирает зависимости по конфигу. reg == nil — отдельный реестр метрик.
func New(cfg *config.Config, log logrus.FieldLogger, reg *prometheus.Registry) (*App, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	// Инфраструктура: общий GET+JSON для публичных API
	hc := upstream.New(nil, "")

	listing, err := newListing(cfg.Upstream.Listing, hc)
	if err != nil {
		return nil, err
	}
	candles, err := newCandles(cfg.Upstream.Candles, hc)
	if err != nil {
		return nil, err
	}

	health := observability.NewHealth(
		observability.ServiceName(marketdata.KindListing, listing.Name()),
		observability.ServiceName(marketdata.KindCandles, candles.Name()),
	)
	metrics := observability.NewMetrics(reg, observability.DefaultNamespace)

	md := marketdata.New(marketdata.Options{
		Listing:      listing,
		Candles:      candles,
		Fallback:     fallback.Default(),
		Logger:       log.WithField("component", "marketdata"),
		Observer:     observability.NewRecorder(metrics, health),
		Timeout:      cfg.Upstream.Timeout,
		SearchWindow: cfg.Upstream.SearchWindow,
		Attempts:     cfg.Upstream.Attempts,
	})

	srv := httpapi.New(cfg.API.HTTPAddr, httpapi.Deps{
		Market:  md,
		Pages:   pages.NewLoader(md, cfg.API.SiteBaseURL),
		Health:  health,
		Metrics: metrics,
		Gather:  observability.Handler(reg),
		Logger:  log.WithField("component", "httpapi"),
		Origins: cfg.API.Origins(),
	})
	return &App{HTTP: srv, Health: health, Market: md}, nil
}

func newListing(c config.ListingConfig, hc *upstream.Client) (domain.ListingProvider, error) {
	switch c.Provider {
	case "coinlore":
		return coinloreadapter.New(c.BaseURL, hc), nil
	case "coincap":
		return coincapadapter.New(c.BaseURL, hc), nil
	}
	return nil, fmt.Errorf("webserver: неизвестный провайдер рейтинга %q", c.Provider)
}

func newCandles(c config.CandlesConfig, hc *upstream.Client) (domain.CandleProvider, error) {
	switch c.Provider {
	case "binance":
		// go-binance ходит своим http.Client, nil — с таймаутом адаптера
		return binanceadapter.New(c.BaseURL, nil), nil
	case "okx":
		return okxadapter.New(c.BaseURL, hc), nil
	case "bybit":
		return bybitadapter.New(c.BaseURL, hc), nil
	case "kucoin":
		return kucoinadapter.New(c.BaseURL, hc), nil
	case "gate":
		return gateadapter.New(c.BaseURL, hc), nil
	case "htx":
		return htxadapter.New(c.BaseURL, hc), nil
	case "bitget":
		return bitgetadapter.New(c.BaseURL, hc), nil
	}
	return nil, fmt.Errorf("webserver: неизвестный провайдер свечей %q", c.Provider)
}
