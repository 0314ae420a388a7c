package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"recipepress/memstore"
	"recipepress/metadata"
	"recipepress/models"
	"recipepress/mq"
	"recipepress/ratings"
	"recipepress/render"
	"recipepress/schema"
	"recipepress/settings"
)

// fixture is a self-contained recipe document for offline rendering.
type fixture struct {
	Post     models.RecipePost   `json:"post"`
	Meta     models.RecipeMeta   `json:"meta"`
	Terms    []models.Term       `json:"terms"`
	Assigned []int64             `json:"assigned_terms"`
	Media    []models.MediaAsset `json:"media"`
	Comments []models.Comment    `json:"comments"`
	Settings map[string]any      `json:"settings"`
	SiteURL  string              `json:"site_url"`
}

// offline holds the in-memory stores a fixture is loaded into.
type offline struct {
	post      models.RecipePost
	opts      settings.Options
	meta      *memstore.Meta
	terms     *memstore.Terms
	media     *memstore.Media
	posts     *memstore.Posts
	comments  *memstore.Comments
	assembler *schema.Assembler
}

func readFixture(path string) (*fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fixture
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Post.ID == 0 {
		f.Post.ID = 1
	}
	return &f, nil
}

func (f *fixture) load(ctx context.Context) (*offline, error) {
	o := &offline{
		post:     f.Post,
		meta:     memstore.NewMeta(),
		terms:    memstore.NewTerms(),
		media:    memstore.NewMedia(),
		posts:    memstore.NewPosts(),
		comments: memstore.NewComments(),
	}
	id := f.Post.ID

	o.opts = settings.Load(ctx, memstore.NewSettings(f.Settings), f.SiteURL)
	if err := o.posts.Save(ctx, f.Post); err != nil {
		return nil, err
	}
	if err := metadata.SaveRecipe(ctx, o.meta, id, f.Meta); err != nil {
		return nil, err
	}
	for _, t := range f.Terms {
		if err := o.terms.Save(ctx, t); err != nil {
			return nil, err
		}
	}
	for _, tid := range f.Assigned {
		o.terms.Assign(id, tid)
	}
	for _, m := range f.Media {
		if err := o.media.Save(ctx, m); err != nil {
			return nil, err
		}
	}
	for i, c := range f.Comments {
		c.PostID = id
		if c.ID == "" {
			c.ID = fmt.Sprintf("fixture-%d", i+1)
		}
		if err := o.comments.Create(ctx, c); err != nil {
			return nil, err
		}
	}
	if _, err := ratings.NewService(o.comments, o.meta, mq.Nop{}).Refresh(ctx, id); err != nil {
		return nil, err
	}

	o.assembler = &schema.Assembler{
		Opts:     o.opts,
		Posts:    o.posts,
		Meta:     o.meta,
		Terms:    o.terms,
		Media:    o.media,
		Comments: o.comments,
	}
	return o, nil
}

// recipe reads back the stored meta so the render sees what a server would.
func (o *offline) recipe(ctx context.Context) (render.Recipe, error) {
	m, err := metadata.GetRecipeMeta(ctx, o.meta, o.post.ID)
	if err != nil {
		return render.Recipe{}, err
	}
	post := o.post
	return render.Recipe{Post: &post, Meta: metadata.LoadRecipe(m)}, nil
}

func (o *offline) renderer() *render.Renderer {
	return render.New(o.opts, o.terms, o.media)
}
