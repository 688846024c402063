package server

import (
	"net/http"
	"strconv"
	"time"

	"codestats-proxy/internal/cache"
	"codestats-proxy/internal/config"
	"codestats-proxy/internal/domain"
	"codestats-proxy/internal/metrics"
	"codestats-proxy/internal/middleware"
	"codestats-proxy/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type StatsServer struct {
	cfg        *config.Config
	statsSvc   *service.StatsService
	summarySvc *service.SummaryService
	historySvc *service.HistoryService
	cache      cache.Cache
	logger     zerolog.Logger
}

func NewStatsServer(
	cfg *config.Config,
	statsSvc *service.StatsService,
	summarySvc *service.SummaryService,
	historySvc *service.HistoryService,
	c cache.Cache,
	logger zerolog.Logger,
) *StatsServer {
	return &StatsServer{
		cfg:        cfg,
		statsSvc:   statsSvc,
		summarySvc: summarySvc,
		historySvc: historySvc,
		cache:      c,
		logger:     logger,
	}
}

// Router wires every public route behind request-id, metrics and CORS
// middleware.
func (s *StatsServer) Router() http.Handler {
	r := chi.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	r.Use(c.Handler)
	r.Use(middleware.RequestID(s.logger))
	r.Use(metrics.Middleware)

	r.Get("/stats", s.handleStats)
	r.Get("/api/get-score", s.handleStats)
	r.Get("/api/summary", s.handleSummary)
	r.Get("/api/history", s.handleHistory)
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/cache-status", s.handleCacheStatus)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *StatsServer) handleStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	record, err := s.statsSvc.GetStats(r.Context(), domain.StatsRequest{
		Platform: q.Get("platform"),
		Username: q.Get("username"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, record)
}

type SummaryResponse struct {
	Results map[domain.Platform]*domain.StatsRecord `json:"results"`
}

func (s *StatsServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	// Only platform names are read; anything else in the query, such as a
	// cache-buster, is ignored.
	usernames := make(map[string]string)
	for name, values := range r.URL.Query() {
		if _, err := domain.ParsePlatform(name); err != nil || len(values) == 0 {
			continue
		}
		usernames[name] = values[0]
	}

	results, err := s.summarySvc.GetSummary(r.Context(), usernames)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, SummaryResponse{Results: results})
}

type HistoryResponse struct {
	Platform domain.Platform      `json:"platform"`
	Username string               `json:"username"`
	Entries  []domain.Acquisition `json:"entries"`
}

func (s *StatsServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, domain.BadRequest("limit must be an integer"))
			return
		}
		limit = n
	}

	req := domain.StatsRequest{Platform: q.Get("platform"), Username: q.Get("username")}
	entries, err := s.historySvc.ListRecent(r.Context(), req, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	platform, _ := domain.ParsePlatform(req.Platform)
	respondJSON(w, r, http.StatusOK, HistoryResponse{
		Platform: platform,
		Username: req.Username,
		Entries:  entries,
	})
}

type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	APIs      map[domain.Platform]bool `json:"apis"`
}

func (s *StatsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	apis := make(map[domain.Platform]bool, len(domain.Platforms))
	for _, p := range domain.Platforms {
		apis[p] = s.cfg.IsEnabled(p)
	}

	respondJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		APIs:      apis,
	})
}

type CacheStatusResponse struct {
	Keys    []string `json:"keys"`
	Size    int      `json:"size"`
	TTL     int64    `json:"ttl"`
	Backend string   `json:"backend"`
}

func (s *StatsServer) handleCacheStatus(w http.ResponseWriter, r *http.Request) {
	keys := s.cache.Keys(r.Context())
	if keys == nil {
		keys = []string{}
	}

	respondJSON(w, r, http.StatusOK, CacheStatusResponse{
		Keys:    keys,
		Size:    len(keys),
		TTL:     int64(s.cache.TTL().Seconds()),
		Backend: s.cache.Backend(),
	})
}
