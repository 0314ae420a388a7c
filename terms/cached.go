package terms

import (
	"context"
	"strconv"
	"time"

	"recipepress/models"

	"github.com/patrickmn/go-cache"
)

// Cached memoizes Resolve for a short TTL. Dangling IDs are not cached so a
// term created later shows up at once. Save drops the cached entry.
type Cached struct {
	Store
	c *cache.Cache
}

func NewCached(s Store, ttl time.Duration) *Cached {
	return &Cached{Store: s, c: cache.New(ttl, 2*ttl)}
}

func (c *Cached) Resolve(ctx context.Context, termID int64) (*models.Term, error) {
	key := strconv.FormatInt(termID, 10)
	if v, ok := c.c.Get(key); ok {
		t := v.(models.Term)
		return &t, nil
	}
	t, err := c.Store.Resolve(ctx, termID)
	if err != nil {
		return nil, err
	}
	c.c.SetDefault(key, *t)
	return t, nil
}

func (c *Cached) Save(ctx context.Context, term models.Term) error {
	if err := c.Store.Save(ctx, term); err != nil {
		return err
	}
	c.Forget(term.ID)
	return nil
}

func (c *Cached) Forget(termID int64) {
	c.c.Delete(strconv.FormatInt(termID, 10))
}
