package repository

import (
	"context"
	"errors"
	"time"

	"RugScan/internal/domain/models"
	"RugScan/pkg/cache"
)

// AnalysisCacheRepo stores completed analysis responses in the cache service
// (memory, Redis or layered, depending on deployment).
type AnalysisCacheRepo struct {
	cache cache.Service
}

func NewAnalysisCacheRepo(c cache.Service) *AnalysisCacheRepo {
	return &AnalysisCacheRepo{cache: c}
}

func analysisKey(chain, address string) string {
	return cache.GenerateKeyWithParams("analysis", chain, address)
}

// Get returns the cached response, or (nil, nil) on a miss.
func (r *AnalysisCacheRepo) Get(ctx context.Context, chain, address string) (*models.AnalysisResponse, error) {
	var resp models.AnalysisResponse
	err := r.cache.Get(ctx, analysisKey(chain, address), &resp)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &resp, nil
}

func (r *AnalysisCacheRepo) Set(ctx context.Context, chain, address string, resp *models.AnalysisResponse, ttl time.Duration) error {
	return r.cache.Set(ctx, analysisKey(chain, address), resp, ttl)
}

func (r *AnalysisCacheRepo) Invalidate(ctx context.Context, chain, address string) error {
	return r.cache.Delete(ctx, analysisKey(chain, address))
}
