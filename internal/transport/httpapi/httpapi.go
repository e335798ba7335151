package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/sirupsen/logrus"

	"cryptoboard/internal/domain"
	"cryptoboard/internal/observability"
	"cryptoboard/internal/pages"
)

// MarketData — запросы API, которые идут прямо в клиент рыночных данных.
type MarketData interface {
	CoinsByIDs(ctx context.Context, ids []string) []domain.Coin
	GetHistory(ctx context.Context, id string, iv domain.Interval) []domain.CoinHistory
}

type Pages interface {
	Home(ctx context.Context, limit int) pages.Home
	CoinDetail(ctx context.Context, id string, iv domain.Interval) (pages.Detail, error)
	Sitemap(ctx context.Context) ([]byte, error)
}

type HealthReporter interface {
	Statuses(ctx context.Context) map[string]string
}

type Deps struct {
	Market  MarketData
	Pages   Pages
	Health  HealthReporter         // может быть nil
	Metrics *observability.Metrics // может быть nil
	Gather  http.Handler           // /metrics; nil — маршрут не регистрируется
	Logger  logrus.FieldLogger
	Origins []string // CORS; пусто или "*" — любой Origin
}

type Server struct {
	addr     string
	deps     Deps
	validate *validator.Validate
	server   *http.Server
}

func New(addr string, d Deps) *Server {
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	return &Server{addr: addr, deps: d, validate: validator.New()}
}

// Handler — готовое дерево маршрутов со всеми middleware.
func (s *Server) Handler() http.Handler {
	// API — на роутере grpc-gateway: шаблоны путей с параметрами из коробки
	gw := runtime.NewServeMux(runtime.WithRoutingErrorHandler(s.routingError))
	for _, rt := range []struct {
		pattern string
		h       runtime.HandlerFunc
	}{
		{"/api/health", s.handleHealth},
		{"/api/coins", s.handleCoins},
		{"/api/coins/{id}", s.handleCoinDetail},
		{"/api/history", s.handleHistory},
		{"/api/markets", s.handleMarkets},
	} {
		if err := gw.HandlePath(http.MethodGet, rt.pattern, rt.h); err != nil {
			// шаблоны статические: ошибка тут — ошибка программиста
			panic(err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", s.handleSitemap)
	if s.deps.Gather != nil {
		mux.Handle("/metrics", s.deps.Gather)
	}
	mux.Handle("/", gw)

	return s.withRequestLog(s.withRecover(withCORS(s.deps.Origins, mux)))
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.deps.Logger.Infof("HTTP server listening on %s", s.addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	resp := HealthResponse{Status: "ok"}
	if s.deps.Health != nil {
		resp.Providers = s.deps.Health.Statuses(r.Context())
	}
	writeJSON(w, http.StatusOK, resp)
}

// /api/coins?ids=a,b,c — монеты списка наблюдения.
func (s *Server) handleCoins(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	q := coinsQuery{IDs: splitIDs(r.URL.Query().Get("ids"))}
	if err := s.validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, "Missing or invalid ids parameter")
		return
	}
	writeJSON(w, http.StatusOK, CoinsResponse{Coins: s.deps.Market.CoinsByIDs(r.Context(), q.IDs)})
}

// /api/history?id=bitcoin&interval=1D
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	q := historyQuery{
		ID:       strings.TrimSpace(r.URL.Query().Get("id")),
		Interval: strings.TrimSpace(r.URL.Query().Get("interval")),
	}
	if err := s.validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, "Missing or invalid id parameter")
		return
	}
	iv, err := domain.ParseInterval(q.Interval)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid interval parameter")
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{History: s.deps.Market.GetHistory(r.Context(), q.ID, iv)})
}

// /api/markets?limit=50 — данные главной страницы.
func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var q marketsQuery
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		q.Limit = n
	}
	if err := s.validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid limit parameter")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Pages.Home(r.Context(), q.Limit))
}

// /api/coins/{id}?interval=1D — карточка монеты.
func (s *Server) handleCoinDetail(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id := strings.TrimSpace(params["id"])
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing or invalid id parameter")
		return
	}
	iv, err := domain.ParseInterval(strings.TrimSpace(r.URL.Query().Get("interval")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid interval parameter")
		return
	}
	d, err := s.deps.Pages.CoinDetail(r.Context(), id, iv)
	switch {
	case errors.Is(err, pages.ErrNotFound):
		writeError(w, http.StatusNotFound, "Coin not found")
		return
	case err != nil:
		s.deps.Logger.WithError(err).WithField("id", id).Error("coin detail failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch coin")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	body, err := s.deps.Pages.Sitemap(r.Context())
	if err != nil {
		s.deps.Logger.WithError(err).Error("sitemap failed")
		writeError(w, http.StatusInternalServerError, "Failed to build sitemap")
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	_, _ = w.Write(body)
}

// routingError — 404/405 от роутера в нашем формате ошибок.
func (s *Server) routingError(_ context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, _ *http.Request, status int) {
	writeError(w, status, strings.ToLower(http.StatusText(status)))
}

func splitIDs(raw string) []string {
	var out []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
