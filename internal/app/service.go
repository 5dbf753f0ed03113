// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/svyas/admitcast/internal/adapters/cache"
	"github.com/svyas/admitcast/internal/adapters/repository"
	"github.com/svyas/admitcast/internal/domain/predict"
	"github.com/svyas/admitcast/internal/domain/types"
	"github.com/svyas/admitcast/pkg/logger"
	"github.com/svyas/admitcast/pkg/metrics"
)

// cacheKeyVersion tags cache keys so a payload-shape change invalidates old
// entries by construction.
const cacheKeyVersion = "v1"

// Service wires the cutoff store, the response cache and the prediction
// engine behind the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	cache  cache.Cache
	engine *predict.Engine

	// Configuration
	databaseURL     string
	dbMaxOpenConns  int
	dbMaxIdleConns  int
	defaultLimit    int
	maxLimit        int
	cacheEnabled    bool
	cacheDir        string
	cacheTTL        time.Duration
	projectionYears int

	// State
	started   bool
	startedAt time.Time

	// Counters surfaced by GetStats
	predictions    atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	lastCandidates atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDatabaseURL sets the lib/pq DSN of the cutoff store.
func WithDatabaseURL(dsn string) Option {
	return func(s *Service) {
		if dsn != "" {
			s.databaseURL = dsn
		}
	}
}

// WithDBConns bounds the database connection pool.
func WithDBConns(maxOpen, maxIdle int) Option {
	return func(s *Service) {
		if maxOpen > 0 {
			s.dbMaxOpenConns = maxOpen
		}
		if maxIdle > 0 {
			s.dbMaxIdleConns = maxIdle
		}
	}
}

// WithCandidateLimits sets the default and maximum candidate-set sizes.
func WithCandidateLimits(def, max int) Option {
	return func(s *Service) {
		if def > 0 {
			s.defaultLimit = def
		}
		if max >= def {
			s.maxLimit = max
		}
	}
}

// WithCacheEnabled toggles the response cache.
func WithCacheEnabled(enabled bool) Option {
	return func(s *Service) {
		s.cacheEnabled = enabled
	}
}

// WithCacheTTL sets the response cache entry TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithCacheDir stores cache entries on disk instead of in memory.
func WithCacheDir(dir string) Option {
	return func(s *Service) {
		s.cacheDir = dir
	}
}

// WithProjectionYears bounds the history window of the projector.
func WithProjectionYears(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.projectionYears = n
		}
	}
}

// WithStore injects a pre-built store. Used by tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCache injects a pre-built cache. Used by tests.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		databaseURL:     "postgres://localhost:5432/admitcast?sslmode=disable",
		dbMaxOpenConns:  16,
		dbMaxIdleConns:  8,
		defaultLimit:    500,
		maxLimit:        2000,
		cacheEnabled:    true,
		cacheTTL:        10 * time.Minute,
		projectionYears: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting prediction service...")

	if s.store == nil {
		store, err := repository.NewPostgresStore(ctx, s.databaseURL,
			repository.WithMaxOpenConns(s.dbMaxOpenConns),
			repository.WithMaxIdleConns(s.dbMaxIdleConns),
		)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = store
	}

	if s.cache == nil {
		if s.cacheEnabled {
			c, err := cache.New(cache.WithDir(s.cacheDir))
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			s.cache = c
		} else {
			s.cache = cache.Noop()
		}
	}

	s.engine = predict.New(predict.WithProjectionYears(s.projectionYears))

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "prediction service started",
		logger.Int("default_limit", s.defaultLimit),
		logger.Int("max_limit", s.maxLimit),
		logger.Bool("cache_enabled", s.cacheEnabled),
		logger.Duration("cache_ttl", s.cacheTTL),
	)
	return nil
}

// Stop releases the service components.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "store close failed", logger.Error(err))
	}
	if err := s.cache.Close(); err != nil {
		s.logger.Warn(context.Background(), "cache close failed", logger.Error(err))
	}
	s.started = false
}

// Predict answers one prediction request: resolve cycle defaults, consult
// the cache, fetch the candidate set and its history, run the engine, and
// write the result back to the cache best-effort.
func (s *Service) Predict(ctx context.Context, req types.PredictRequest) (types.PredictResponse, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return types.PredictResponse{}, ErrNotStarted
	}

	start := time.Now()

	if req.Limit <= 0 {
		req.Limit = s.defaultLimit
	}
	if req.Limit > s.maxLimit {
		req.Limit = s.maxLimit
	}

	resolved, empty, err := s.resolveCycle(ctx, req)
	if err != nil {
		return types.PredictResponse{}, err
	}
	if empty {
		// Empty store (or unknown cycle): a defined output, not an error.
		return types.PredictResponse{Rank: req.Rank, Results: []types.Candidate{}}, nil
	}
	req = resolved

	key := cacheKey(req)
	if payload, ok := s.cache.Get(ctx, key); ok {
		var resp types.PredictResponse
		if err := json.Unmarshal(payload, &resp); err == nil {
			s.cacheHits.Add(1)
			s.predictions.Add(1)
			metrics.RecordPredictionServed()
			return resp, nil
		}
		// A corrupt entry degrades to recompute.
		s.logger.Warn(ctx, "discarding undecodable cache entry", logger.String("key", key))
	}
	s.cacheMisses.Add(1)

	candidates, err := s.store.Candidates(ctx, repository.Query{
		Institute: req.Institute,
		Program:   req.Program,
		Quota:     req.Quota,
		SeatType:  req.SeatType,
		Gender:    req.Gender,
		Category:  req.Category,
		Year:      req.Year,
		Round:     req.Round,
		Rank:      req.Rank,
		Limit:     req.Limit,
	})
	if err != nil {
		return types.PredictResponse{}, fmt.Errorf("fetch candidates: %w", err)
	}
	s.lastCandidates.Store(int64(len(candidates)))
	metrics.UpdateLastCandidateSetSize(len(candidates))

	// The history lookup depends on the candidate set; the two storage
	// calls are sequential by construction.
	history, err := s.store.History(ctx, distinctKeys(candidates))
	if err != nil {
		return types.PredictResponse{}, fmt.Errorf("fetch history: %w", err)
	}

	results := s.engine.PredictAndRank(candidates, history, req.Rank)
	for _, r := range results {
		if r.Confidence == types.ConfidenceNone {
			metrics.RecordInsufficientData()
		}
	}

	resp := types.PredictResponse{
		Year:    req.Year,
		Round:   req.Round,
		Rank:    req.Rank,
		Count:   len(results),
		Results: results,
	}

	if payload, err := json.Marshal(resp); err == nil {
		s.cache.Set(ctx, key, payload, s.cacheTTL)
	}

	s.predictions.Add(1)
	metrics.RecordPredictionServed()
	metrics.RecordCandidatesRanked(len(results))
	metrics.RecordPredictionLatency(float64(time.Since(start).Milliseconds()))
	return resp, nil
}

// resolveCycle fills in the latest year/round when the request leaves them
// unspecified. The second return is true when the store has no data at all.
func (s *Service) resolveCycle(ctx context.Context, req types.PredictRequest) (types.PredictRequest, bool, error) {
	if req.Year == 0 {
		year, err := s.store.MaxYear(ctx)
		if errors.Is(err, repository.ErrNoData) {
			return req, true, nil
		}
		if err != nil {
			return req, false, fmt.Errorf("resolve year: %w", err)
		}
		req.Year = year
	}
	if req.Round == 0 {
		round, err := s.store.MaxRound(ctx, req.Year)
		if errors.Is(err, repository.ErrNoData) {
			return req, true, nil
		}
		if err != nil {
			return req, false, fmt.Errorf("resolve round: %w", err)
		}
		req.Round = round
	}
	return req, false, nil
}

// Categories returns the known institute categories in display order.
func (s *Service) Categories(_ context.Context) []types.Category {
	return []types.Category{
		types.CategoryIIT,
		types.CategoryNIT,
		types.CategoryIIIT,
		types.CategoryGFTI,
		types.CategoryUnknown,
	}
}

// GetStats returns a point-in-time statistics snapshot for /stats.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uptime := 0.0
	if s.started {
		uptime = time.Since(s.startedAt).Seconds()
	}
	return map[string]interface{}{
		"uptime_seconds":     uptime,
		"predictions_served": s.predictions.Load(),
		"cache_hits":         s.cacheHits.Load(),
		"cache_misses":       s.cacheMisses.Load(),
		"last_candidate_set": s.lastCandidates.Load(),
		"cache_enabled":      s.cacheEnabled,
		"default_limit":      s.defaultLimit,
		"max_limit":          s.maxLimit,
		"projection_years":   s.projectionYears,
	}
}

// MaxCandidateLimit exposes the limit cap to the HTTP layer.
func (s *Service) MaxCandidateLimit() int {
	return s.maxLimit
}

// distinctKeys collects the unique program identities of a candidate set,
// preserving first-seen order.
func distinctKeys(records []types.CutoffRecord) []types.ProgramKey {
	seen := make(map[types.ProgramKey]bool, len(records))
	keys := make([]types.ProgramKey, 0, len(records))
	for _, rec := range records {
		if seen[rec.Key] {
			continue
		}
		seen[rec.Key] = true
		keys = append(keys, rec.Key)
	}
	return keys
}

// cacheKey derives a deterministic key from the full normalized filter set
// and a version tag. Defaults are resolved before this point, so identical
// requests map to identical keys.
func cacheKey(req types.PredictRequest) string {
	rank := ""
	if req.Rank != nil {
		rank = strconv.Itoa(*req.Rank)
	}
	parts := []string{
		cacheKeyVersion,
		strconv.Itoa(req.Year),
		strconv.Itoa(req.Round),
		rank,
		strconv.Itoa(req.Limit),
		norm(req.Institute),
		norm(req.Program),
		norm(req.Quota),
		norm(req.SeatType),
		norm(req.Gender),
		norm(string(req.Category)),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
