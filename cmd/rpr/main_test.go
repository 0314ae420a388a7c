package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recipepress/metadata"
	"recipepress/models"
	"recipepress/ratings"
	"recipepress/terms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	f := fixture{
		Post: models.RecipePost{ID: 4, Title: "Lemonade", Permalink: "http://example.com/lemonade/"},
		Meta: models.RecipeMeta{
			PrepTime:     10,
			Ingredients:  []models.IngredientLine{{Amount: "3", IngredientID: 1, Notes: "juiced"}},
			Instructions: []models.InstructionLine{{Description: "Stir."}},
		},
		Terms:    []models.Term{{ID: 1, Taxonomy: terms.Ingredient, Name: "lemon", Slug: "lemon"}},
		Comments: []models.Comment{{Rating: 5, Approved: true}, {Rating: 4, Approved: true}},
		Settings: map[string]any{"ingredients_note_sep": 2},
		SiteURL:  "http://example.com",
	}
	b, err := json.Marshal(f)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "recipe.json")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderSection(t *testing.T) {
	path := writeFixture(t)
	out, err := run(t, "render", "--file", path, "--section", "ingredients")
	require.NoError(t, err)
	assert.Contains(t, out, "lemons")
	assert.Contains(t, out, ", juiced")
}

func TestRenderWholeRecipeIncludesRating(t *testing.T) {
	out, err := run(t, "render", "--file", writeFixture(t))
	require.NoError(t, err)
	assert.Contains(t, out, `id="rpr-recipe-4"`)
	assert.Contains(t, out, "rpr-rating-stars")
	assert.Contains(t, out, "Ready in:")
}

func TestRenderSchema(t *testing.T) {
	out, err := run(t, "render", "--file", writeFixture(t), "--format", "schema")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &doc))
	assert.Equal(t, "Lemonade", doc["name"])
	assert.Equal(t, "PT10M", doc["prepTime"])
	assert.Equal(t, []any{"3 lemons"}, doc["recipeIngredient"])
	rating, ok := doc["aggregateRating"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 4.5, rating["ratingValue"])
}

func TestRenderErrors(t *testing.T) {
	path := writeFixture(t)
	_, err := run(t, "render", "--file", path, "--section", "sidebar")
	assert.Error(t, err)
	_, err = run(t, "render", "--file", path, "--format", "yaml")
	assert.Error(t, err)
	_, err = run(t, "render", "--file", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMetaTable(t *testing.T) {
	out := metaTable(map[string]string{
		metadata.KeyPrepTime: "10",
		"_edit_lock":         "123",
		metadata.KeyNotes:    strings.Repeat("x", 200),
	})
	assert.Contains(t, out, metadata.KeyPrepTime)
	assert.NotContains(t, out, "_edit_lock")
	assert.Contains(t, out, "...")
	assert.Equal(t, "No recipe meta", metaTable(nil))
}

func TestStatsTable(t *testing.T) {
	out := statsTable(ratings.Aggregate([]int{5, 4}))
	assert.Contains(t, out, "4.5")
	assert.Contains(t, out, "count")
}
