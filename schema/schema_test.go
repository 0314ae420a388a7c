package schema

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"recipepress/memstore"
	"recipepress/metadata"
	"recipepress/models"
	"recipepress/rdx"
	"recipepress/settings"
	"recipepress/terms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	asm      *Assembler
	meta     *memstore.Meta
	terms    *memstore.Terms
	media    *memstore.Media
	comments *memstore.Comments
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		meta:     memstore.NewMeta(),
		terms:    memstore.NewTerms(),
		media:    memstore.NewMedia(),
		comments: memstore.NewComments(),
	}
	ps := memstore.NewPosts()
	ctx := context.Background()
	require.NoError(t, ps.Save(ctx, models.RecipePost{
		ID: 1, Title: "Tomato soup", AuthorName: "Ana", Permalink: "http://example.com/tomato-soup/",
		Tags:        []string{"soup", "quick"},
		PublishedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}))
	f.asm = &Assembler{
		Opts:     settings.Defaults(),
		Posts:    ps,
		Meta:     f.meta,
		Terms:    f.terms,
		Media:    f.media,
		Comments: f.comments,
	}
	return f
}

func (f *fixture) save(t *testing.T, m models.RecipeMeta) {
	t.Helper()
	require.NoError(t, metadata.SaveRecipe(context.Background(), f.meta, 1, m))
}

func TestDuration(t *testing.T) {
	cases := map[int]string{0: "PT0M", 60: "PT1H", 90: "PT1H30M", 45: "PT45M", 125: "PT2H5M", -5: "PT0M"}
	for in, want := range cases {
		assert.Equal(t, want, Duration(in), in)
	}
}

func TestNoMetadataGivesNil(t *testing.T) {
	f := newFixture(t)
	s, err := f.asm.GetSchema(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, s)

	b, err := Marshal(s)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestEmptyRecipeStillHasObject(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.meta.UpdateMeta(context.Background(), 1, metadata.KeyNotes, ""))

	s, err := f.asm.GetSchema(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "Recipe", s.Type)
	assert.Empty(t, s.RecipeIngredient)
	assert.Nil(t, s.Nutrition)
	assert.Nil(t, s.AggregateRating)
	assert.Empty(t, s.PrepTime)
}

func TestTimes(t *testing.T) {
	f := newFixture(t)
	f.save(t, models.RecipeMeta{PrepTime: 10, CookTime: 20, PassiveTime: 0})

	s, err := f.asm.GetSchema(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "PT10M", s.PrepTime)
	assert.Equal(t, "PT20M", s.CookTime)
	assert.Equal(t, "PT30M", s.TotalTime)
}

func TestInstructionSectionsWhenFirstIsGroup(t *testing.T) {
	f := newFixture(t)
	f.save(t, models.RecipeMeta{Instructions: []models.InstructionLine{
		{GroupTitle: "Sauce"},
		{Description: "Mix"},
		{GroupTitle: "Main"},
		{Description: "Cook"},
	}})

	s, err := f.asm.GetSchema(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, s.RecipeInstructions, 2)

	sauce, ok := s.RecipeInstructions[0].(HowToSection)
	require.True(t, ok)
	assert.Equal(t, "Sauce", sauce.Name)
	assert.Equal(t, []HowToStep{{Type: "HowToStep", Text: "Mix"}}, sauce.ItemListElement)

	main, ok := s.RecipeInstructions[1].(HowToSection)
	require.True(t, ok)
	assert.Equal(t, "Main", main.Name)
	assert.Len(t, main.ItemListElement, 1)
}

func TestInstructionsFlatWithoutLeadingGroup(t *testing.T) {
	f := newFixture(t)
	f.save(t, models.RecipeMeta{Instructions: []models.InstructionLine{
		{Description: "Mix"},
		{GroupTitle: "Main"},
		{Description: "Cook"},
		{Description: "  "},
	}})

	s, err := f.asm.GetSchema(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, s.RecipeInstructions, 2)
	for _, item := range s.RecipeInstructions {
		_, ok := item.(HowToStep)
		assert.True(t, ok)
	}
}

func TestIdempotentJSON(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.terms.Save(ctx, models.Term{ID: 1, Taxonomy: terms.Ingredient, Name: "tomato", Slug: "tomato"}))
	require.NoError(t, f.terms.Save(ctx, models.Term{ID: 2, Taxonomy: terms.Course, Name: "Starter", Slug: "starter"}))
	require.NoError(t, f.terms.Save(ctx, models.Term{ID: 3, Taxonomy: terms.Diet, Name: "Vegan", Slug: "vegan"}))
	f.terms.Assign(1, 2)
	f.terms.Assign(1, 3)
	f.save(t, models.RecipeMeta{
		Description:  "<p>A <em>warm</em> soup.</p>",
		Servings:     4,
		PrepTime:     10,
		Nutrition:    models.Nutrition{Calories: 120, Fat: 3.5},
		Ingredients:  []models.IngredientLine{{Amount: "6", IngredientID: 1}, {Line: "1 [onion] (chopped)"}},
		Instructions: []models.InstructionLine{{Description: "Simmer."}},
	})

	a, err := f.asm.GetSchema(ctx, 1)
	require.NoError(t, err)
	b, err := f.asm.GetSchema(ctx, 1)
	require.NoError(t, err)
	ja, err := Marshal(a)
	require.NoError(t, err)
	jb, err := Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, ja, jb)

	assert.Equal(t, []string{"6 tomatoes", "1 onion"}, a.RecipeIngredient)
	assert.Equal(t, []string{"Starter"}, a.RecipeCategory)
	assert.Equal(t, []string{"https://schema.org/VeganDiet"}, a.SuitableForDiet)
	assert.Equal(t, "4", a.RecipeYield)
	assert.Equal(t, "soup, quick", a.Keywords)
	assert.Equal(t, "2024-03-01", a.DatePublished)
	assert.Contains(t, a.Description, "warm")
	assert.NotContains(t, a.Description, "<")
}

func TestNutritionPruned(t *testing.T) {
	f := newFixture(t)
	f.save(t, models.RecipeMeta{Nutrition: models.Nutrition{Per: "per_100g", Calories: 250, Protein: 6.5}})

	s, err := f.asm.GetSchema(context.Background(), 1)
	require.NoError(t, err)
	b, err := json.Marshal(s.Nutrition)
	require.NoError(t, err)
	assert.JSONEq(t, `{"@type":"NutritionInformation","servingSize":"100 g","calories":"250 kcal","proteinContent":"6.5 g"}`, string(b))
}

func TestRatingAndReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.save(t, models.RecipeMeta{Description: "soup"})
	require.NoError(t, f.meta.UpdateMeta(ctx, 1, metadata.KeyRatingCount, "2"))
	require.NoError(t, f.meta.UpdateMeta(ctx, 1, metadata.KeyRatingAverage, "4.5"))

	base := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range []models.Comment{
		{ID: "a", Rating: 5, AuthorName: "Bo", Content: "Great"},
		{ID: "b", Rating: 4, AuthorName: "Cy", Content: "Good"},
		{ID: "c", Rating: 0, AuthorName: "Di", Content: "No stars"},
		{ID: "d", Rating: 3, AuthorName: "Ed", Content: "Pending"},
	} {
		c.PostID = 1
		c.Approved = c.ID != "d"
		c.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, f.comments.Create(ctx, c))
	}

	s, err := f.asm.GetSchema(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, s.AggregateRating)
	assert.Equal(t, 4.5, s.AggregateRating.RatingValue)
	assert.Equal(t, 2, s.AggregateRating.RatingCount)
	require.Len(t, s.Review, 2)
	assert.Equal(t, "Bo", s.Review[0].Author.Name)
	assert.Equal(t, 5, s.Review[0].ReviewRating.RatingValue)
	assert.Equal(t, "2024-03-02", s.Review[0].DatePublished)
}

func TestReviewsGatedOnSingleComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.save(t, models.RecipeMeta{Description: "soup"})
	require.NoError(t, f.comments.Create(ctx, models.Comment{ID: "a", PostID: 1, Rating: 5, Approved: true}))

	s, err := f.asm.GetSchema(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, s.Review)
}

func TestImagesAndVideo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.media.Save(ctx, models.MediaAsset{ID: 9, URL: "/u/soup.jpg", Sizes: map[string]string{
		"1x1": "/u/soup-1x1.jpg", "4x3": "/u/soup-4x3.jpg", "16x9": "/u/soup-16x9.jpg", "thumbnail": "/u/soup-t.jpg",
	}}))
	p, err := f.asm.Posts.Get(ctx, 1)
	require.NoError(t, err)
	p.ImageID = 9
	require.NoError(t, f.asm.Posts.Save(ctx, *p))
	f.save(t, models.RecipeMeta{Video: models.Video{URL: "https://video.example/1", Title: "How to",
		Thumbnails: []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}}})

	s, err := f.asm.GetSchema(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"/u/soup-1x1.jpg", "/u/soup-4x3.jpg", "/u/soup-16x9.jpg"}, s.Image)
	require.NotNil(t, s.Video)
	assert.Equal(t, "How to", s.Video.Name)
	assert.Len(t, s.Video.ThumbnailURL, 3)
}

func TestCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.save(t, models.RecipeMeta{PrepTime: 10})
	cache := memstore.NewCache()
	c := &Cached{Assembler: f.asm, Cache: cache, TTL: time.Hour}

	first, err := c.JSON(ctx, 1)
	require.NoError(t, err)
	cached, err := cache.Get(ctx, rdx.SchemaKey(1))
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	require.NoError(t, f.meta.UpdateMeta(ctx, 1, metadata.KeyPrepTime, "15"))
	stale, err := c.JSON(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, stale)

	require.NoError(t, rdx.Invalidate(ctx, cache, 1))
	fresh, err := c.JSON(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, string(fresh), `"prepTime":"PT15M"`)

	none, err := c.JSON(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestScriptTag(t *testing.T) {
	tag, err := ScriptTag(&Recipe{Context: vocab, Type: "Recipe", Name: "<b>"})
	require.NoError(t, err)
	assert.Contains(t, string(tag), `<script type="application/ld+json">`)
	assert.NotContains(t, string(tag), "<b>")

	tag, err = ScriptTag(nil)
	require.NoError(t, err)
	assert.Empty(t, tag)
}
