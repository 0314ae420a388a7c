package terms_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipepress/memstore"
	"recipepress/models"
	"recipepress/mq"
	"recipepress/terms"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveURL(t *testing.T) {
	lemon := &models.Term{Taxonomy: terms.Ingredient, Slug: "lemon"}
	assert.Equal(t, "http://example.com/ingredient/lemon/", terms.ArchiveURL("http://example.com/", lemon))

	custom := &models.Term{Taxonomy: "rpr_occasion", Slug: "easter"}
	assert.Equal(t, "http://example.com/occasion/easter/", terms.ArchiveURL("http://example.com", custom))

	assert.Empty(t, terms.ArchiveURL("http://example.com", nil))
	assert.Empty(t, terms.ArchiveURL("http://example.com", &models.Term{Taxonomy: terms.Course}))
}

func TestSlugify(t *testing.T) {
	for in, want := range map[string]string{
		"Brown Sugar":      "brown-sugar",
		"  Crème fraîche ": "crème-fraîche",
		"Salt & Pepper!":   "salt-pepper",
		"7-Up":             "7-up",
	} {
		assert.Equal(t, want, terms.Slugify(in), in)
	}
}

type countingStore struct {
	*memstore.Terms
	resolves int
}

func (s *countingStore) Resolve(ctx context.Context, id int64) (*models.Term, error) {
	s.resolves++
	return s.Terms.Resolve(ctx, id)
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{Terms: memstore.NewTerms()}
	require.NoError(t, inner.Save(ctx, models.Term{ID: 1, Taxonomy: terms.Ingredient, Name: "egg"}))
	c := terms.NewCached(inner, time.Minute)

	for range 3 {
		got, err := c.Resolve(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "egg", got.Name)
	}
	assert.Equal(t, 1, inner.resolves)

	require.NoError(t, c.Save(ctx, models.Term{ID: 1, Taxonomy: terms.Ingredient, Name: "duck egg"}))
	got, err := c.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "duck egg", got.Name)
	assert.Equal(t, 2, inner.resolves)

	_, err = c.Resolve(ctx, 42)
	assert.True(t, terms.IsNotFound(err))
	require.NoError(t, inner.Save(ctx, models.Term{ID: 42, Taxonomy: terms.Ingredient, Name: "flour"}))
	got, err = c.Resolve(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "flour", got.Name)
}

func TestHandlers(t *testing.T) {
	store := memstore.NewTerms()
	events := &mq.Recorder{}
	h := &terms.Handler{Store: store, Events: events}

	router := httprouter.New()
	router.GET("/api/terms/:taxonomy", h.ListTerms)
	router.GET("/api/terms/:taxonomy/:id", h.GetTerm)
	router.PUT("/api/terms/:taxonomy/:id", h.SaveTerm)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	rec := do(http.MethodPut, "/api/terms/rpr_ingredient/5", `{"name":" Brown Sugar ","meta":{"plural_name":"brown sugar"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"brown-sugar"`)
	require.Len(t, events.Events, 1)
	assert.Equal(t, "term", events.Events[0].Content.EntityType)
	assert.Equal(t, "5", events.Events[0].Content.EntityId)

	assert.Equal(t, http.StatusBadRequest, do(http.MethodPut, "/api/terms/rpr_ingredient/6", `{"name":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPut, "/api/terms/rpr_ingredient/x", `{"name":"salt"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodPut, "/api/terms/colour/6", `{"name":"red"}`).Code)

	rec = do(http.MethodGet, "/api/terms/rpr_ingredient", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Brown Sugar")

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/api/terms/rpr_ingredient/5", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/terms/rpr_course/5", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/terms/rpr_ingredient/9", "").Code)
}
