package mq_test

import (
	"context"
	"testing"
	"time"

	"recipepress/memstore"
	"recipepress/models"
	"recipepress/mq"
	"recipepress/rdx"
	"recipepress/render"
	"recipepress/settings"
	"recipepress/terms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeID(t *testing.T) {
	id, ok := mq.RecipeID(mq.Event{Content: models.Index{EntityType: "recipe", EntityId: "12"}})
	assert.True(t, ok)
	assert.EqualValues(t, 12, id)

	id, ok = mq.RecipeID(mq.Event{Content: models.Index{EntityType: "comment", EntityId: "c-1", ItemId: "7"}})
	assert.True(t, ok)
	assert.EqualValues(t, 7, id)

	_, ok = mq.RecipeID(mq.Event{Content: models.Index{EntityType: "comment", EntityId: "c-1"}})
	assert.False(t, ok)
	_, ok = mq.RecipeID(mq.Event{Content: models.Index{EntityType: "recipe", EntityId: "abc"}})
	assert.False(t, ok)
}

func seed(t *testing.T, c rdx.Cache, ids ...int64) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		require.NoError(t, c.Set(ctx, rdx.SchemaKey(id), []byte("{}"), 0))
		require.NoError(t, c.Set(ctx, rdx.HTMLKey(id), []byte("<div></div>"), 0))
	}
	require.NoError(t, c.Set(ctx, "session:abc", []byte("x"), 0))
}

func TestHandleRecipeEvent(t *testing.T) {
	ctx := context.Background()
	cache := memstore.NewCache()
	seed(t, cache, 1, 2)

	require.NoError(t, mq.Handle(ctx, cache, nil, mq.Event{Name: "comment-created", Content: models.Index{EntityType: "comment", ItemId: "1"}}))
	_, err := cache.Get(ctx, rdx.SchemaKey(1))
	assert.ErrorIs(t, err, rdx.ErrMiss)
	_, err = cache.Get(ctx, rdx.HTMLKey(2))
	assert.NoError(t, err)
	assert.Equal(t, 3, cache.Len())
}

func TestHandleSiteWideEvent(t *testing.T) {
	ctx := context.Background()
	cache := memstore.NewCache()
	seed(t, cache, 1, 2)

	require.NoError(t, mq.Handle(ctx, cache, nil, mq.Event{Name: "settings-updated", Content: models.Index{EntityType: "settings"}}))
	assert.Equal(t, 1, cache.Len())
}

func TestHandleTermEventForgetsCachedTerm(t *testing.T) {
	ctx := context.Background()
	shared := memstore.NewTerms()
	require.NoError(t, shared.Save(ctx, models.Term{ID: 1, Taxonomy: "rpr_ingredient", Name: "flour"}))

	// two processes, each with its own term cache
	a := terms.NewCached(shared, time.Minute)
	b := terms.NewCached(shared, time.Minute)

	got, err := b.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "flour", got.Name)

	require.NoError(t, a.Save(ctx, models.Term{ID: 1, Taxonomy: "rpr_ingredient", Name: "spelt flour"}))
	got, err = b.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "flour", got.Name)

	cache := memstore.NewCache()
	seed(t, cache, 4)
	ev := mq.Event{Name: "term-updated", Content: models.Index{EntityType: "term", Method: "PUT", EntityId: "1", ItemType: "rpr_ingredient"}}
	require.NoError(t, mq.Handle(ctx, cache, b, ev))

	got, err = b.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "spelt flour", got.Name)
	assert.Equal(t, 1, cache.Len())

	rec := render.Recipe{
		Post: &models.RecipePost{ID: 4, Title: "Bread"},
		Meta: models.RecipeMeta{Ingredients: []models.IngredientLine{{Amount: "1", Unit: "kg", IngredientID: 1}}},
	}
	out, err := render.New(settings.Defaults(), b, memstore.NewMedia()).Ingredients(ctx, rec)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<span class="rpr-ingredient-name">spelt flour</span>`)
}

func TestRecorder(t *testing.T) {
	r := &mq.Recorder{}
	var e mq.Emitter = r
	e.Emit(context.Background(), "recipe-updated", models.Index{EntityType: "recipe", EntityId: "3"})
	mq.Nop{}.Emit(context.Background(), "ignored", models.Index{})
	require.Len(t, r.Events, 1)
	assert.Equal(t, "recipe-updated", r.Events[0].Name)
}
