package exercises

import (
	"context"
	"encoding/json"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	oneMinute                 = 60
	catalogCacheExpireSeconds = 10 * oneMinute
)

type catalogSource interface {
	Add(ctx context.Context, exercise Exercise) (*Exercise, error)
	Get(ctx context.Context, id uuid.UUID) (*Exercise, error)
	ListAll(ctx context.Context, params ListParams) ([]Exercise, error)
	Update(ctx context.Context, exercise *Exercise) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CachedRepo keeps the exercise catalog in an in-memory cache in front of the
// store. The generator and the day plan read the whole catalog on every call,
// while the catalog itself changes rarely. Any catalog mutation drops the
// whole cache.
type CachedRepo struct {
	repo  catalogSource
	cache *freecache.Cache
}

func NewCachedRepo(repo catalogSource) *CachedRepo {
	megabyte := 1024 * 1024
	return &CachedRepo{
		repo:  repo,
		cache: freecache.NewCache(2 * megabyte),
	}
}

func (c *CachedRepo) ListAll(ctx context.Context, params ListParams) ([]Exercise, error) {
	cacheKey := []byte("catalog::" + params.Category)
	if catalogBytes, err := c.cache.Get(cacheKey); err == nil {
		log.Tracef("found exercise catalog [%s] in cache", params.Category)
		var cached []Exercise
		if err = json.Unmarshal(catalogBytes, &cached); err == nil {
			return cached, nil
		} else {
			log.Errorf("failed to unmarshal cached exercise catalog [%s]: %s", params.Category, err)
		}
	}

	exercises, err := c.repo.ListAll(ctx, params)
	if err != nil {
		return nil, err
	}

	exercisesBytes, err := json.Marshal(exercises)
	if err != nil {
		log.Errorf("failed to marshal exercise catalog [%s] for cache: %s", params.Category, err)
		return exercises, nil
	}
	if err := c.cache.Set(cacheKey, exercisesBytes, catalogCacheExpireSeconds); err != nil {
		log.Errorf("failed to write exercise catalog [%s] cache: %s", params.Category, err)
	}

	return exercises, nil
}

func (c *CachedRepo) Get(ctx context.Context, id uuid.UUID) (*Exercise, error) {
	return c.repo.Get(ctx, id)
}

func (c *CachedRepo) Add(ctx context.Context, exercise Exercise) (*Exercise, error) {
	added, err := c.repo.Add(ctx, exercise)
	if err != nil {
		return nil, err
	}
	c.cache.Clear()
	return added, nil
}

func (c *CachedRepo) Update(ctx context.Context, exercise *Exercise) error {
	if err := c.repo.Update(ctx, exercise); err != nil {
		return err
	}
	c.cache.Clear()
	return nil
}

func (c *CachedRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}
	c.cache.Clear()
	return nil
}
