// Package cache keeps a short-lived in-memory copy of the workout catalog.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"spartan/fitness-tracker/internal/domain"
	"spartan/fitness-tracker/internal/metrics"
	"spartan/fitness-tracker/internal/repository"
)

const megabyte = 1024 * 1024

// CatalogRepository is a read-through cache in front of a WorkoutRepository.
// Catalog data is read-only for the app, so entries only expire by TTL or
// when Upsert rewrites the catalog.
type CatalogRepository struct {
	next    repository.WorkoutRepository
	cache   *freecache.Cache
	ttlSecs int
	metrics *metrics.Manager
}

var _ repository.WorkoutRepository = (*CatalogRepository)(nil)

// NewCatalogRepository wraps next. A ttl of zero or less returns next unchanged.
func NewCatalogRepository(next repository.WorkoutRepository, ttl time.Duration, sizeMB int, m *metrics.Manager) repository.WorkoutRepository {
	if ttl <= 0 {
		return next
	}
	if sizeMB <= 0 {
		sizeMB = 8
	}
	ttlSecs := int(ttl / time.Second)
	if ttlSecs < 1 {
		ttlSecs = 1
	}
	return &CatalogRepository{
		next:    next,
		cache:   freecache.NewCache(sizeMB * megabyte),
		ttlSecs: ttlSecs,
		metrics: m,
	}
}

func (c *CatalogRepository) List(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	key := fmt.Sprintf("list::%s", filter.Category)
	var workouts []domain.Workout
	if c.load(key, &workouts) {
		return workouts, nil
	}

	workouts, err := c.next.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.store(key, workouts)
	return workouts, nil
}

func (c *CatalogRepository) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	key := "workout::" + id
	var workout domain.Workout
	if c.load(key, &workout) {
		return &workout, nil
	}

	found, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(key, found)
	return found, nil
}

func (c *CatalogRepository) CountByCategory(ctx context.Context) (map[domain.Category]int, error) {
	const key = "counts"
	var counts map[domain.Category]int
	if c.load(key, &counts) {
		return counts, nil
	}

	counts, err := c.next.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	c.store(key, counts)
	return counts, nil
}

// Upsert writes through and drops every cached entry.
func (c *CatalogRepository) Upsert(ctx context.Context, workout *domain.Workout) error {
	if err := c.next.Upsert(ctx, workout); err != nil {
		return err
	}
	c.cache.Clear()
	return nil
}

func (c *CatalogRepository) load(key string, dst any) bool {
	raw, err := c.cache.Get([]byte(key))
	if err != nil {
		c.observe("miss")
		return false
	}
	if err := unmarshalCached(raw, dst); err != nil {
		log.Errorf("failed to unmarshal cached catalog entry %s: %s", key, err)
		c.observe("miss")
		return false
	}
	c.observe("hit")
	return true
}

func (c *CatalogRepository) store(key string, value any) {
	raw, err := marshalCached(value)
	if err != nil {
		log.Errorf("failed to marshal catalog entry %s: %s", key, err)
		return
	}
	if err := c.cache.Set([]byte(key), raw, c.ttlSecs); err != nil {
		log.Errorf("failed to write catalog cache %s: %s", key, err)
	}
}

func (c *CatalogRepository) observe(result string) {
	if c.metrics != nil {
		c.metrics.CounterCatalogCache.WithLabelValues(result).Inc()
	}
}

// Entries are BSON so fields hidden from JSON (media keys) survive the round trip.
type cachedEntry struct {
	Value bson.RawValue `bson:"v"`
}

func marshalCached(value any) ([]byte, error) {
	return bson.Marshal(bson.M{"v": value})
}

func unmarshalCached(raw []byte, dst any) error {
	var entry cachedEntry
	if err := bson.Unmarshal(raw, &entry); err != nil {
		return err
	}
	return entry.Value.Unmarshal(dst)
}
