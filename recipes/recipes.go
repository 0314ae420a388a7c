// Package recipes serves recipe data, its HTML renderings, the JSON-LD
// document and a printable card.
package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"recipepress/logging"
	"recipepress/media"
	"recipepress/metadata"
	"recipepress/models"
	"recipepress/mq"
	"recipepress/posts"
	"recipepress/ratings"
	"recipepress/rdx"
	"recipepress/render"
	"recipepress/schema"
	"recipepress/settings"
	"recipepress/terms"
	"recipepress/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Handler wires the stores into the recipe endpoints. Options are read per
// request so a settings change applies without a restart.
type Handler struct {
	Posts    posts.Store
	Meta     metadata.Store
	Terms    terms.Store
	Media    media.Resolver
	Settings settings.Store
	Ratings  *ratings.Service
	Comments ratings.CommentSource
	Cache    rdx.Cache
	Events   mq.Emitter
	SiteURL  string
	CacheTTL time.Duration
}

func (h *Handler) options(ctx context.Context) settings.Options {
	return settings.Load(ctx, h.Settings, h.SiteURL)
}

func (h *Handler) renderer(opts settings.Options) *render.Renderer {
	return render.New(opts, h.Terms, h.Media)
}

func (h *Handler) assembler(opts settings.Options) *schema.Assembler {
	return &schema.Assembler{
		Opts:     opts,
		Posts:    h.Posts,
		Meta:     h.Meta,
		Terms:    h.Terms,
		Media:    h.Media,
		Comments: h.Comments,
	}
}

// load reads the post and its typed metadata. It writes the error response
// itself and reports whether the caller may continue.
func (h *Handler) load(ctx context.Context, w http.ResponseWriter, ps httprouter.Params) (render.Recipe, bool) {
	id, err := utils.ParseID(ps, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid recipe ID")
		return render.Recipe{}, false
	}

	post, err := h.Posts.Get(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return render.Recipe{}, false
	}
	if err != nil {
		logging.L().Error("load recipe", zap.Int64("recipe", id), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load recipe")
		return render.Recipe{}, false
	}

	m, err := metadata.GetRecipeMeta(ctx, h.Meta, id)
	if err != nil {
		logging.L().Error("load recipe meta", zap.Int64("recipe", id), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load recipe")
		return render.Recipe{}, false
	}
	return render.Recipe{Post: post, Meta: metadata.LoadRecipe(m)}, true
}

// GetRecipe returns the post with its typed metadata.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, ok := h.load(ctx, w, ps)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"post": rec.Post, "meta": rec.Meta})
}

// UpdateMeta replaces the recipe metadata. Rating fields in the body are
// ignored.
func (h *Handler) UpdateMeta(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rec, ok := h.load(ctx, w, ps)
	if !ok {
		return
	}

	var body models.RecipeMeta
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if body.PrepTime < 0 || body.CookTime < 0 || body.PassiveTime < 0 || body.Servings < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Times and servings must not be negative")
		return
	}
	if len(body.Video.Thumbnails) > 3 {
		body.Video.Thumbnails = body.Video.Thumbnails[:3]
	}

	id := rec.Post.ID
	if err := metadata.SaveRecipe(ctx, h.Meta, id, body); err != nil {
		logging.L().Error("save recipe meta", zap.Int64("recipe", id), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save recipe")
		return
	}
	if err := rdx.Invalidate(ctx, h.Cache, id); err != nil {
		logging.L().Warn("invalidate recipe cache", zap.Int64("recipe", id), zap.Error(err))
	}
	if h.Events != nil {
		sid := strconv.FormatInt(id, 10)
		h.Events.Emit(ctx, "recipe-updated", models.Index{EntityType: "recipe", Method: "PUT", EntityId: sid, ItemId: sid, ItemType: "recipe"})
	}

	body.RatingCount, body.RatingAverage = rec.Meta.RatingCount, rec.Meta.RatingAverage
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"post": rec.Post, "meta": body})
}

// GetRating answers ?query=avg|count|min|max from the approved comments.
func (h *Handler) GetRating(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := utils.ParseID(ps, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}
	q, err := ratings.ParseQuery(r.URL.Query().Get("query"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.Ratings.RatingInfo(ctx, q, id)
	if err != nil {
		logging.L().Error("rating info", zap.Int64("recipe", id), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute rating")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"recipe": id, "query": q, "value": v})
}
