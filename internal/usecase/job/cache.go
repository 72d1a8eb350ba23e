package job

import (
	"context"
	"time"

	"mammy-coker-hub/internal/domain/job"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
}

const (
	activeJobsKey     = "jobs:active"
	activeJobsLockKey = activeJobsKey + ":lock"
	activeJobsGenKey  = activeJobsKey + ":gen"

	defaultActiveJobsTTL = 2 * time.Minute
	lockTTL              = 10 * time.Second
)

// activeJobs serves the board's job list from cache when possible. A single
// caller rebuilds on a miss; the rest wait briefly and re-read.
func (s *Service) activeJobs(ctx context.Context) ([]job.Job, error) {
	if s.cache != nil {
		var cached []job.Job
		hit, err := s.cache.GetJSON(ctx, activeJobsKey, &cached)
		if err == nil && hit {
			s.logger.Debug("cache hit", "key", activeJobsKey)
			return cached, nil
		}
		s.logger.Debug("cache miss", "key", activeJobsKey)

		ok, err := s.cache.SetIfNotExists(ctx, activeJobsLockKey, "1", lockTTL)
		if err == nil && !ok {
			jitter := time.Duration(time.Now().UnixNano()%201) * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(300*time.Millisecond + jitter):
			}
			if hit, err := s.cache.GetJSON(ctx, activeJobsKey, &cached); err == nil && hit {
				return cached, nil
			}
			s.logger.Debug("lock wait fallback", "key", activeJobsLockKey)
		} else if err == nil {
			defer func() { _ = s.cache.Delete(context.Background(), activeJobsLockKey) }()
		}
	}

	gen, genOK := s.generation(ctx)

	jobs, err := s.jobs.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []job.Job{}
	}

	if s.cache != nil && genOK {
		s.store(ctx, gen, jobs)
	}
	return jobs, nil
}

// store caches jobs read under generation gen. A write that lands while the
// list was being read bumps the generation, and the stale list is dropped.
func (s *Service) store(ctx context.Context, gen int64, jobs []job.Job) {
	if now, ok := s.generation(ctx); !ok || now != gen {
		s.logger.Debug("skip stale rebuild", "key", activeJobsKey)
		return
	}
	if err := s.cache.SetJSON(ctx, activeJobsKey, jobs, s.cacheTTL); err != nil {
		s.logger.Warn("cache set failed", "key", activeJobsKey, "error", err)
		return
	}
	if now, ok := s.generation(ctx); !ok || now != gen {
		_ = s.cache.Delete(ctx, activeJobsKey)
	}
}

// generation reads the write counter. A missing counter is generation 0.
func (s *Service) generation(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	var gen int64
	if _, err := s.cache.GetJSON(ctx, activeJobsGenKey, &gen); err != nil {
		return 0, false
	}
	return gen, true
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, activeJobsGenKey); err != nil {
		s.logger.Warn("cache generation bump failed", "key", activeJobsGenKey, "error", err)
	}
	if err := s.cache.Delete(ctx, activeJobsKey); err != nil {
		s.logger.Warn("cache invalidate failed", "key", activeJobsKey, "error", err)
	}
}
