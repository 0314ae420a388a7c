package settings_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipepress/memstore"
	"recipepress/mq"
	"recipepress/settings"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFromMapDefaults(t *testing.T) {
	o := settings.FromMap(nil)
	assert.Equal(t, settings.Defaults().Layout, o.Layout)
	assert.Equal(t, settings.LinksCustomOrArchive, o.IngredientLinks)
	assert.True(t, o.SchemaEnabled)
}

func TestFromMapConversions(t *testing.T) {
	o := settings.FromMap(map[string]any{
		"ingredient_links":       "3",
		"ingredients_note_sep":   2.0,
		"ingredients_plural":     "0",
		"use_icons":              1,
		"layout":                 primitive.A{"ingredients", "instructions"},
		"taxonomies":             "rpr_course, rpr_diet",
		"instruction_image_size": "",
	})
	assert.Equal(t, settings.LinksCustomOnly, o.IngredientLinks)
	assert.Equal(t, settings.SepComma, o.IngredientsNoteSep)
	assert.False(t, o.IngredientsPlural)
	assert.True(t, o.UseIcons)
	assert.Equal(t, []string{"ingredients", "instructions"}, o.Layout)
	assert.Equal(t, []string{"rpr_course", "rpr_diet"}, o.Taxonomies)
	assert.Equal(t, "thumbnail", o.InstructionImageSize)
}

func TestLoadFallsBackOnError(t *testing.T) {
	store := memstore.NewSettings(map[string]any{"use_icons": true})
	store.Err = errors.New("timeout")
	o := settings.Load(context.Background(), store, "http://example.com")
	assert.False(t, o.UseIcons)
	assert.Equal(t, "http://example.com", o.SiteURL)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		key   string
		value any
		ok    bool
	}{
		{"use_icons", true, true},
		{"use_icons", "yes", false},
		{"ingredient_links", 2.0, true},
		{"ingredient_links", 9.0, false},
		{"instruction_image_position", "below", true},
		{"instruction_image_position", "left", false},
		{"layout", []any{"notes", "ingredients"}, true},
		{"layout", []any{"sidebar"}, false},
		{"taxonomies", []any{"rpr_course"}, true},
		{"colour", "red", false},
	} {
		err := settings.Validate(tc.key, tc.value)
		if tc.ok {
			assert.NoError(t, err, tc.key)
		} else {
			assert.Error(t, err, tc.key)
		}
	}
}

func TestHandler(t *testing.T) {
	store := memstore.NewSettings(nil)
	events := &mq.Recorder{}
	h := &settings.Handler{Store: store, Events: events, SiteURL: "http://example.com"}

	router := httprouter.New()
	router.GET("/settings", h.GetSettings)
	router.PUT("/settings/:type", h.UpdateSetting)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/settings/use_icons", strings.NewReader(`{"value":true}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, events.Events, 1)
	assert.Equal(t, "settings-updated", events.Events[0].Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/settings/use_icons", strings.NewReader(`{"value":"sure"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotEmpty(t, got)
	for _, s := range got {
		if s.Type == "use_icons" {
			assert.Equal(t, true, s.Value)
		}
	}
}
