package schema

import (
	"context"
	"errors"
	"time"

	"recipepress/logging"
	"recipepress/rdx"

	"go.uber.org/zap"
)

// Cached serves encoded documents from the cache, assembling on a miss.
// Entries are dropped by the invalidation worker when a recipe changes.
type Cached struct {
	Assembler *Assembler
	Cache     rdx.Cache
	TTL       time.Duration
}

// JSON returns the encoded document, or nil when the recipe has no metadata.
func (c *Cached) JSON(ctx context.Context, recipeID int64) ([]byte, error) {
	key := rdx.SchemaKey(recipeID)
	if c.Cache != nil {
		b, err := c.Cache.Get(ctx, key)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, rdx.ErrMiss) {
			logging.L().Warn("schema cache read failed", zap.Int64("recipe", recipeID), zap.Error(err))
		}
	}

	s, err := c.Assembler.GetSchema(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	b, err := Marshal(s)
	if err != nil || b == nil {
		return b, err
	}
	if c.Cache != nil {
		if err := c.Cache.Set(ctx, key, b, c.TTL); err != nil {
			logging.L().Warn("schema cache write failed", zap.Int64("recipe", recipeID), zap.Error(err))
		}
	}
	return b, nil
}
