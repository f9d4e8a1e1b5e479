package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamtrack/backend/internal/models"
)

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

const projectCacheTTL = 5 * time.Minute

// ProjectSource is the backing lookup a ProjectCache falls through to.
type ProjectSource interface {
	GetProjectByName(ctx context.Context, name string) (*models.Project, error)
}

// ProjectCache is a read-through Redis cache in front of project-by-name
// lookups. Not-found results are not cached, and cache trouble degrades to
// a plain source lookup.
type ProjectCache struct {
	rdb    *redis.Client
	source ProjectSource
}

func NewProjectCache(rdb *redis.Client, source ProjectSource) *ProjectCache {
	return &ProjectCache{rdb: rdb, source: source}
}

func (c *ProjectCache) GetProjectByName(ctx context.Context, name string) (*models.Project, error) {
	key := "project:name:" + name
	if val, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var p models.Project
		if json.Unmarshal([]byte(val), &p) == nil {
			return &p, nil
		}
	}

	p, err := c.source.GetProjectByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(p); err == nil {
		c.rdb.Set(ctx, key, data, projectCacheTTL)
	}
	return p, nil
}
