// Package schema assembles the schema.org Recipe JSON-LD document of a recipe.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"recipepress/lines"
	"recipepress/media"
	"recipepress/metadata"
	"recipepress/models"
	"recipepress/posts"
	"recipepress/ratings"
	"recipepress/settings"
	"recipepress/terms"

	"github.com/k3a/html2text"
)

const dateLayout = "2006-01-02"

// Assembler builds Recipe documents from the stores.
type Assembler struct {
	Opts     settings.Options
	Posts    posts.Store
	Meta     metadata.Store
	Terms    terms.Store
	Media    media.Resolver
	Comments ratings.CommentSource
}

// Duration formats minutes as PT{h}H{m}M. Hours are left out when zero, and
// minutes when the hour part is present and the minutes are zero.
func Duration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("PT%dM", m)
	case m == 0:
		return fmt.Sprintf("PT%dH", h)
	default:
		return fmt.Sprintf("PT%dH%dM", h, m)
	}
}

func duration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return Duration(minutes)
}

// GetSchema returns nil, nil when the recipe has no metadata at all.
func (a *Assembler) GetSchema(ctx context.Context, recipeID int64) (*Recipe, error) {
	m, err := metadata.GetRecipeMeta(ctx, a.Meta, recipeID)
	if err != nil {
		return nil, fmt.Errorf("schema %d: %w", recipeID, err)
	}
	if len(m) == 0 {
		return nil, nil
	}
	meta := metadata.LoadRecipe(m)

	post, err := a.Posts.Get(ctx, recipeID)
	if terms.IsNotFound(err) {
		post = &models.RecipePost{ID: recipeID}
	} else if err != nil {
		return nil, fmt.Errorf("schema %d: %w", recipeID, err)
	}

	s := &Recipe{
		Context:            vocab,
		Type:               "Recipe",
		Name:               post.Title,
		URL:                post.Permalink,
		Description:        plainText(meta.Description),
		RecipeYield:        yield(meta),
		PrepTime:           duration(meta.PrepTime),
		CookTime:           duration(meta.CookTime),
		TotalTime:          duration(meta.TotalTime()),
		Keywords:           strings.Join(post.Tags, ", "),
		RecipeIngredient:   []string{},
		RecipeInstructions: []any{},
		Nutrition:          nutrition(meta.Nutrition),
		Video:              video(meta.Video),
	}
	if s.Description == "" {
		s.Description = plainText(post.Excerpt)
	}
	if post.AuthorName != "" {
		s.Author = &Person{Type: "Person", Name: post.AuthorName}
	}
	if !post.PublishedAt.IsZero() {
		s.DatePublished = post.PublishedAt.Format(dateLayout)
	}
	if !post.ModifiedAt.IsZero() {
		s.DateModified = post.ModifiedAt.Format(dateLayout)
	}
	if meta.RatingCount > 0 {
		s.AggregateRating = &AggregateRating{
			Type:        "AggregateRating",
			RatingValue: meta.RatingAverage,
			RatingCount: meta.RatingCount,
			BestRating:  ratings.MaxScore,
			WorstRating: 1,
		}
	}

	steps := []func(context.Context, *models.RecipePost, models.RecipeMeta, *Recipe) error{
		a.images, a.taxonomies, a.ingredients, a.equipment, a.instructions, a.reviews,
	}
	for _, step := range steps {
		if err := step(ctx, post, meta, s); err != nil {
			return nil, fmt.Errorf("schema %d: %w", recipeID, err)
		}
	}
	return s, nil
}

func plainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return strings.TrimSpace(html2text.HTML2Text(s))
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yield(m models.RecipeMeta) string {
	if m.Servings <= 0 {
		return ""
	}
	return strings.TrimSpace(number(m.Servings) + " " + m.ServingsType)
}

func (a *Assembler) images(ctx context.Context, post *models.RecipePost, _ models.RecipeMeta, s *Recipe) error {
	if post.ImageID <= 0 || a.Media == nil {
		return nil
	}
	asset, err := a.Media.Resolve(ctx, post.ImageID)
	if terms.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, size := range media.SchemaSizes {
		if u := asset.Sizes[size]; u != "" && !seen[u] {
			seen[u] = true
			s.Image = append(s.Image, u)
		}
	}
	if len(s.Image) == 0 && asset.URL != "" {
		s.Image = []string{asset.URL}
	}
	return nil
}

func (a *Assembler) taxonomies(ctx context.Context, post *models.RecipePost, _ models.RecipeMeta, s *Recipe) error {
	names := func(taxonomy string) ([]models.Term, error) {
		return a.Terms.TermsFor(ctx, post.ID, taxonomy)
	}

	course, err := names(terms.Course)
	if err != nil {
		return err
	}
	for _, t := range course {
		s.RecipeCategory = append(s.RecipeCategory, t.Name)
	}
	cuisine, err := names(terms.Cuisine)
	if err != nil {
		return err
	}
	for _, t := range cuisine {
		s.RecipeCuisine = append(s.RecipeCuisine, t.Name)
	}
	diet, err := names(terms.Diet)
	if err != nil {
		return err
	}
	for _, t := range diet {
		if d, ok := diets[t.Slug]; ok {
			s.SuitableForDiet = append(s.SuitableForDiet, vocab+"/"+d)
		}
	}
	return nil
}

func (a *Assembler) ingredients(ctx context.Context, _ *models.RecipePost, meta models.RecipeMeta, s *Recipe) error {
	for _, l := range meta.Ingredients {
		if l.IsGroup() {
			continue
		}
		if l.Line != "" {
			if p := lines.ParseFreeform(l.Line).Plain(); p != "" {
				s.RecipeIngredient = append(s.RecipeIngredient, p)
			}
			continue
		}

		name, plural := l.Ingredient, ""
		if l.IngredientID > 0 {
			t, err := a.Terms.Resolve(ctx, l.IngredientID)
			if terms.IsNotFound(err) {
				continue
			}
			if err != nil {
				return err
			}
			name, plural = t.Name, t.Meta.PluralName
		}
		if strings.TrimSpace(name) == "" {
			continue
		}
		if a.Opts.IngredientsPlural && lines.ParseAmount(l.Amount) > 1 {
			name = lines.Pluralize(name, plural)
		}
		parts := make([]string, 0, 3)
		for _, p := range []string{l.Amount, l.Unit, name} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		s.RecipeIngredient = append(s.RecipeIngredient, strings.Join(parts, " "))
	}
	return nil
}

func (a *Assembler) equipment(ctx context.Context, _ *models.RecipePost, meta models.RecipeMeta, s *Recipe) error {
	for _, l := range meta.Equipment {
		if l.IsGroup() {
			continue
		}
		name := l.Name
		if l.EquipmentID > 0 {
			t, err := a.Terms.Resolve(ctx, l.EquipmentID)
			if terms.IsNotFound(err) {
				continue
			}
			if err != nil {
				return err
			}
			name = t.Name
		}
		if name = strings.TrimSpace(name); name != "" {
			s.Tool = append(s.Tool, name)
		}
	}
	return nil
}

// instructions nests steps in sections only when the list starts with a
// group marker. Otherwise markers are dropped and the steps stay flat.
func (a *Assembler) instructions(ctx context.Context, _ *models.RecipePost, meta models.RecipeMeta, s *Recipe) error {
	items := meta.Instructions
	if !lines.StartsWithGroup(items) {
		for _, l := range items {
			if l.IsGroup() {
				continue
			}
			step, err := a.step(ctx, l)
			if err != nil {
				return err
			}
			if step != nil {
				s.RecipeInstructions = append(s.RecipeInstructions, *step)
			}
		}
		return nil
	}

	for _, sec := range lines.Group(items) {
		hs := HowToSection{Type: "HowToSection", Name: sec.Title}
		for _, l := range sec.Items {
			step, err := a.step(ctx, l)
			if err != nil {
				return err
			}
			if step != nil {
				hs.ItemListElement = append(hs.ItemListElement, *step)
			}
		}
		if len(hs.ItemListElement) > 0 {
			s.RecipeInstructions = append(s.RecipeInstructions, hs)
		}
	}
	return nil
}

func (a *Assembler) step(ctx context.Context, l models.InstructionLine) (*HowToStep, error) {
	text := plainText(l.Description)
	if text == "" {
		return nil, nil
	}
	st := &HowToStep{Type: "HowToStep", Text: text}
	if l.Image > 0 && a.Media != nil {
		asset, err := a.Media.Resolve(ctx, l.Image)
		switch {
		case terms.IsNotFound(err):
		case err != nil:
			return nil, err
		default:
			st.Image = asset.URL
		}
	}
	return st, nil
}

// reviews are only listed when the recipe has more than one approved
// comment. Comments without a rating never become a review.
func (a *Assembler) reviews(ctx context.Context, post *models.RecipePost, _ models.RecipeMeta, s *Recipe) error {
	if a.Comments == nil {
		return nil
	}
	comments, err := a.Comments.ApprovedComments(ctx, post.ID)
	if err != nil {
		return err
	}
	if len(comments) <= 1 {
		return nil
	}
	for _, c := range comments {
		if c.Rating <= 0 || c.Rating > ratings.MaxScore {
			continue
		}
		r := Review{
			Type:       "Review",
			Author:     Person{Type: "Person", Name: c.AuthorName},
			ReviewBody: plainText(c.Content),
			ReviewRating: Rating{
				Type:        "Rating",
				RatingValue: c.Rating,
				BestRating:  ratings.MaxScore,
				WorstRating: 1,
			},
		}
		if !c.CreatedAt.IsZero() {
			r.DatePublished = c.CreatedAt.Format(dateLayout)
		}
		s.Review = append(s.Review, r)
	}
	return nil
}

var servingSizes = map[string]string{
	"per_100g":    "100 g",
	"per_portion": "1 serving",
}

func nutrition(n models.Nutrition) *Nutrition {
	if n.Empty() {
		return nil
	}
	with := func(v float64, unit string) string {
		if v <= 0 {
			return ""
		}
		return number(v) + " " + unit
	}
	return &Nutrition{
		Type:                  "NutritionInformation",
		ServingSize:           servingSizes[n.Per],
		Calories:              with(n.Calories, "kcal"),
		ProteinContent:        with(n.Protein, "g"),
		FatContent:            with(n.Fat, "g"),
		SaturatedFatContent:   with(n.SaturatedFat, "g"),
		TransFatContent:       with(n.TransFat, "g"),
		UnsaturatedFatContent: with(n.UnsaturatedFat, "g"),
		CarbohydrateContent:   with(n.Carbohydrate, "g"),
		SugarContent:          with(n.Sugar, "g"),
		FiberContent:          with(n.Fiber, "g"),
		SodiumContent:         with(n.Sodium, "mg"),
		CholesterolContent:    with(n.Cholesterol, "mg"),
	}
}

func video(v models.Video) *VideoObject {
	if strings.TrimSpace(v.URL) == "" {
		return nil
	}
	o := &VideoObject{
		Type:        "VideoObject",
		Name:        v.Title,
		Description: plainText(v.Description),
		ContentURL:  v.URL,
		UploadDate:  v.UploadDate,
	}
	if o.Name == "" {
		o.Name = v.URL
	}
	if o.Description == "" {
		o.Description = o.Name
	}
	for _, t := range v.Thumbnails {
		if t != "" && len(o.ThumbnailURL) < 3 {
			o.ThumbnailURL = append(o.ThumbnailURL, t)
		}
	}
	return o
}

// Marshal encodes the document. A nil document encodes to nil.
func Marshal(s *Recipe) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// ScriptTag wraps the encoded document for embedding in a page.
func ScriptTag(s *Recipe) (template.HTML, error) {
	b, err := Marshal(s)
	if err != nil || b == nil {
		return "", err
	}
	return template.HTML(`<script type="application/ld+json">` + string(b) + `</script>`), nil
}
