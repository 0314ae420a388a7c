package recipes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipepress/globals"
	"recipepress/memstore"
	"recipepress/metadata"
	"recipepress/models"
	"recipepress/mq"
	"recipepress/ratings"
	"recipepress/rdx"

	"github.com/PuerkitoBio/goquery"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	h        *Handler
	meta     *memstore.Meta
	cache    *memstore.Cache
	settings *memstore.Settings
	events   *mq.Recorder
	router   *httprouter.Router
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	ps := memstore.NewPosts()
	require.NoError(t, ps.Save(ctx, models.RecipePost{ID: 1, Title: "Pancakes", AuthorName: "Ana",
		Permalink: "http://example.com/pancakes/"}))
	require.NoError(t, ps.Save(ctx, models.RecipePost{ID: 2, Title: "Draft"}))

	e := &env{
		meta:     memstore.NewMeta(),
		cache:    memstore.NewCache(),
		settings: memstore.NewSettings(nil),
		events:   &mq.Recorder{},
	}
	comments := memstore.NewComments()
	e.h = &Handler{
		Posts:    ps,
		Meta:     e.meta,
		Terms:    memstore.NewTerms(),
		Media:    memstore.NewMedia(),
		Settings: e.settings,
		Ratings:  ratings.NewService(comments, e.meta, e.events),
		Comments: comments,
		Cache:    e.cache,
		Events:   e.events,
		SiteURL:  "http://example.com",
		CacheTTL: time.Hour,
	}
	require.NoError(t, metadata.SaveRecipe(ctx, e.meta, 1, models.RecipeMeta{
		PrepTime: 10, CookTime: 20, Servings: 4,
		Ingredients:  []models.IngredientLine{{Amount: "2", Unit: "cups", Ingredient: "flour"}},
		Instructions: []models.InstructionLine{{GroupTitle: "Batter"}, {Description: "Whisk."}, {Description: "Fry."}},
	}))

	r := httprouter.New()
	r.GET("/api/recipes/:id", e.h.GetRecipe)
	r.PUT("/api/recipes/:id/meta", e.h.UpdateMeta)
	r.GET("/api/recipes/:id/html", e.h.GetHTML)
	r.GET("/api/recipes/:id/html/:section", e.h.GetSection)
	r.GET("/api/recipes/:id/schema", e.h.GetSchema)
	r.GET("/api/recipes/:id/rating", e.h.GetRating)
	r.GET("/api/recipes/:id/print", e.h.PrintCard)
	r.GET("/recipes/:id", e.h.Page)
	e.router = r
	return e
}

func (e *env) get(path string, hdr ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestGetRecipe(t *testing.T) {
	e := newEnv(t)
	rec := e.get("/api/recipes/1")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Post models.RecipePost `json:"post"`
		Meta models.RecipeMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Pancakes", out.Post.Title)
	assert.Equal(t, 10, out.Meta.PrepTime)
	assert.Len(t, out.Meta.Instructions, 3)

	assert.Equal(t, http.StatusNotFound, e.get("/api/recipes/99").Code)
	assert.Equal(t, http.StatusBadRequest, e.get("/api/recipes/x").Code)
}

func TestSchemaETag(t *testing.T) {
	e := newEnv(t)
	rec := e.get("/api/recipes/1/schema")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/ld+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"totalTime":"PT30M"`)
	assert.Contains(t, rec.Body.String(), `"HowToSection"`)

	tag := rec.Header().Get("ETag")
	require.NotEmpty(t, tag)
	again := e.get("/api/recipes/1/schema")
	assert.Equal(t, tag, again.Header().Get("ETag"))
	assert.Equal(t, rec.Body.String(), again.Body.String())

	assert.Equal(t, http.StatusNotModified, e.get("/api/recipes/1/schema", "If-None-Match", tag).Code)
	assert.Equal(t, http.StatusNotFound, e.get("/api/recipes/2/schema").Code)
}

func TestSchemaDisabled(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.settings.Set(context.Background(), "schema_enabled", false))
	assert.Equal(t, http.StatusNotFound, e.get("/api/recipes/1/schema").Code)
}

func TestHTMLCachedUntilMetaUpdate(t *testing.T) {
	e := newEnv(t)
	rec := e.get("/api/recipes/1/html")
	require.Equal(t, http.StatusOK, rec.Code)
	d, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "flours", d.Find(".rpr-ingredient-name").Text())

	_, err = e.cache.Get(context.Background(), rdx.HTMLKey(1))
	require.NoError(t, err)

	body := `{"prep_time":5,"ingredients":[{"amount":"1","ingredient":"egg"}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/recipes/1/meta", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), globals.RoleKey, []string{"admin"}))
	put := httptest.NewRecorder()
	e.router.ServeHTTP(put, req)
	require.Equal(t, http.StatusOK, put.Code)

	_, err = e.cache.Get(context.Background(), rdx.HTMLKey(1))
	assert.ErrorIs(t, err, rdx.ErrMiss)
	require.NotEmpty(t, e.events.Events)
	assert.Equal(t, "recipe-updated", e.events.Events[len(e.events.Events)-1].Name)

	assert.Contains(t, e.get("/api/recipes/1/html").Body.String(), "egg")
}

func TestSection(t *testing.T) {
	e := newEnv(t)
	rec := e.get("/api/recipes/1/html/times")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ready in:")

	assert.Equal(t, http.StatusNoContent, e.get("/api/recipes/1/html/nutrition").Code)
	assert.Equal(t, http.StatusNotFound, e.get("/api/recipes/1/html/sidebar").Code)
	assert.Equal(t, http.StatusOK, e.get("/api/recipes/2/html/ingredients").Code)
}

func TestRating(t *testing.T) {
	e := newEnv(t)
	rec := e.get("/api/recipes/1/rating?query=count")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"value":0`)
	assert.Equal(t, http.StatusBadRequest, e.get("/api/recipes/1/rating?query=median").Code)
}

func TestPage(t *testing.T) {
	e := newEnv(t)
	rec := e.get("/recipes/1")
	require.Equal(t, http.StatusOK, rec.Code)
	d, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", d.Find("h1").Text())
	assert.Contains(t, d.Find(`script[type="application/ld+json"]`).Text(), `"@type":"Recipe"`)
}

func TestPrintCard(t *testing.T) {
	e := newEnv(t)
	rec := e.get("/api/recipes/1/print")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	assert.Equal(t, http.StatusNotFound, e.get("/api/recipes/2/print").Code)
}

func TestETagStable(t *testing.T) {
	a := etag([]byte(`{"a":1}`))
	assert.Equal(t, a, etag([]byte(`{"a":1}`)))
	assert.NotEqual(t, a, etag([]byte(`{"a":2}`)))
	assert.Len(t, a, 34)
}
