package redis

import (
	"context"
	"time"

	"github.com/robertarktes/webinar-seats/internal/domain"
	"github.com/robertarktes/webinar-seats/internal/observability"
)

// CachedWebinarRepository is a read-through cache in front of another
// WebinarRepository. Cache failures degrade to the underlying store;
// errors from the underlying store are returned untouched.
type CachedWebinarRepository struct {
	next   domain.WebinarRepository
	cache  *Cache
	ttl    time.Duration
	logger observability.Logger
}

func NewCachedWebinarRepository(next domain.WebinarRepository, cache *Cache, ttl time.Duration, logger observability.Logger) *CachedWebinarRepository {
	return &CachedWebinarRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

func webinarKey(id string) string {
	return "webinar:" + id
}

func (r *CachedWebinarRepository) FindByID(ctx context.Context, id string) (*domain.Webinar, error) {
	var cached domain.Webinar
	hit, err := r.cache.GetJSON(ctx, webinarKey(id), &cached)
	switch {
	case err != nil:
		observability.CacheLookups.WithLabelValues("error").Inc()
		r.logger.WithField("webinar_id", id).WithError(err).Warn("webinar cache read failed")
	case hit:
		observability.CacheLookups.WithLabelValues("hit").Inc()
		return &cached, nil
	default:
		observability.CacheLookups.WithLabelValues("miss").Inc()
	}

	w, err := r.next.FindByID(ctx, id)
	if err != nil || w == nil {
		return w, err
	}
	if err := r.cache.SetJSON(ctx, webinarKey(id), w, r.ttl); err != nil {
		r.logger.WithField("webinar_id", id).WithError(err).Warn("webinar cache write failed")
	}
	return w, nil
}

func (r *CachedWebinarRepository) Update(ctx context.Context, webinar *domain.Webinar) error {
	if err := r.next.Update(ctx, webinar); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, webinarKey(webinar.ID)); err != nil {
		r.logger.WithField("webinar_id", webinar.ID).WithError(err).Warn("webinar cache invalidation failed")
	}
	return nil
}

// Uncached returns a view that reads straight from the underlying store and
// still invalidates the cache on Update. Use it where a decision depends on
// the current seat count.
func (r *CachedWebinarRepository) Uncached() domain.WebinarRepository {
	return uncachedWebinars{r}
}

type uncachedWebinars struct {
	cached *CachedWebinarRepository
}

func (u uncachedWebinars) FindByID(ctx context.Context, id string) (*domain.Webinar, error) {
	return u.cached.next.FindByID(ctx, id)
}

func (u uncachedWebinars) Update(ctx context.Context, webinar *domain.Webinar) error {
	return u.cached.Update(ctx, webinar)
}
