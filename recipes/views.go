package recipes

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"recipepress/logging"
	"recipepress/rdx"
	"recipepress/render"
	"recipepress/schema"
	"recipepress/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// etag is a strong validator over the response body.
func etag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// GetHTML returns the composed recipe fragment, cached per recipe.
func (h *Handler) GetHTML(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, ok := h.load(ctx, w, ps)
	if !ok {
		return
	}
	key := rdx.HTMLKey(rec.Post.ID)
	if h.Cache != nil {
		if b, err := h.Cache.Get(ctx, key); err == nil {
			utils.RespondWithHTML(w, http.StatusOK, b)
			return
		} else if !errors.Is(err, rdx.ErrMiss) {
			logging.L().Warn("html cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	out, err := h.renderer(h.options(ctx)).Recipe(ctx, rec)
	if err != nil {
		logging.L().Error("render recipe", zap.Int64("recipe", rec.Post.ID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render recipe")
		return
	}
	b := []byte(out)
	if h.Cache != nil {
		if err := h.Cache.Set(ctx, key, b, h.CacheTTL); err != nil {
			logging.L().Warn("html cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	utils.RespondWithHTML(w, http.StatusOK, b)
}

// GetSection renders one section. An empty section answers 204.
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	name := ps.ByName("section")
	if !render.HasSection(name) {
		utils.RespondWithError(w, http.StatusNotFound, "Unknown section")
		return
	}
	rec, ok := h.load(ctx, w, ps)
	if !ok {
		return
	}

	out, err := h.renderer(h.options(ctx)).Section(ctx, rec, name)
	if err != nil {
		logging.L().Error("render section", zap.String("section", name), zap.Int64("recipe", rec.Post.ID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render section")
		return
	}
	if out == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	utils.RespondWithHTML(w, http.StatusOK, []byte(out))
}

func (h *Handler) schemaJSON(ctx context.Context, recipeID int64) ([]byte, error) {
	c := &schema.Cached{Assembler: h.assembler(h.options(ctx)), Cache: h.Cache, TTL: h.CacheTTL}
	return c.JSON(ctx, recipeID)
}

// GetSchema returns the JSON-LD document with an ETag.
func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := utils.ParseID(ps, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}
	if !h.options(ctx).SchemaEnabled {
		utils.RespondWithError(w, http.StatusNotFound, "Structured data is disabled")
		return
	}

	b, err := h.schemaJSON(ctx, id)
	if err != nil {
		logging.L().Error("assemble schema", zap.Int64("recipe", id), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build schema")
		return
	}
	if b == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe has no metadata")
		return
	}

	tag := etag(b)
	w.Header().Set("ETag", tag)
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	utils.RespondWithBytes(w, http.StatusOK, "application/ld+json", b)
}

// Page serves the standalone recipe page.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, ok := h.load(ctx, w, ps)
	if !ok {
		return
	}
	opts := h.options(ctx)

	var js []byte
	if opts.SchemaEnabled {
		b, err := h.schemaJSON(ctx, rec.Post.ID)
		if err != nil {
			logging.L().Warn("schema for page", zap.Int64("recipe", rec.Post.ID), zap.Error(err))
		}
		js = b
	}

	var buf bytes.Buffer
	if err := h.renderer(opts).Page(ctx, &buf, rec, js); err != nil {
		logging.L().Error("render page", zap.Int64("recipe", rec.Post.ID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render page")
		return
	}
	utils.RespondWithHTML(w, http.StatusOK, buf.Bytes())
}
