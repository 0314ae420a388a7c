// Package comments is the write path for recipe comments and the star
// ratings they carry. Every write refreshes the recipe's rating fields.
package comments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"recipepress/logging"
	"recipepress/models"
	"recipepress/mq"
	"recipepress/ratings"
	"recipepress/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const maxContent = 5000

type Handler struct {
	Store   Store
	Ratings *ratings.Service
	Events  mq.Emitter
}

type commentBody struct {
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Content     string `json:"content"`
	Rating      *int   `json:"rating"`
}

func validRating(r *int) bool {
	return r == nil || (*r >= 0 && *r <= ratings.MaxScore)
}

// CreateComment adds a comment to a recipe. Comments by signed-in users are
// published right away; anonymous ones wait for approval.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	postID, err := utils.ParseID(ps, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	var body commentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	body.Content = strings.TrimSpace(body.Content)
	if body.Content == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Comment cannot be empty")
		return
	}
	if len(body.Content) > maxContent {
		utils.RespondWithError(w, http.StatusBadRequest, "Comment is too long")
		return
	}
	if !validRating(body.Rating) {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 0 and 5")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" && strings.TrimSpace(body.AuthorName) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	now := time.Now()
	comment := models.Comment{
		ID:          utils.GetUUID(),
		PostID:      postID,
		UserID:      userID,
		AuthorName:  strings.TrimSpace(body.AuthorName),
		AuthorEmail: strings.TrimSpace(body.AuthorEmail),
		Content:     body.Content,
		Approved:    userID != "",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if body.Rating != nil {
		comment.Rating = *body.Rating
	}

	if err := h.Store.Create(ctx, comment); err != nil {
		logging.L().Error("insert comment", zap.Int64("recipe", postID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "DB insert failed")
		return
	}
	h.changed(ctx, "comment-created", comment)

	utils.RespondWithJSON(w, http.StatusCreated, comment)
}

// GetComments lists a recipe's comments. Admins see pending ones too.
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	postID, err := utils.ParseID(ps, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	list, err := h.Store.ListByPost(ctx, postID, utils.IsAdmin(r))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	page, limit := 1, 20
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	if r.URL.Query().Get("sort") != "old" {
		for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
			list[i], list[j] = list[j], list[i]
		}
	}

	total := len(list)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	items := list[start:end]
	if items == nil {
		items = []models.Comment{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"comments": items,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// UpdateComment edits content and rating. Only the author or an admin may.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	existing, ok := h.owned(ctx, w, r, ps)
	if !ok {
		return
	}

	var body commentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !validRating(body.Rating) {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 0 and 5")
		return
	}
	if c := strings.TrimSpace(body.Content); c != "" {
		if len(c) > maxContent {
			utils.RespondWithError(w, http.StatusBadRequest, "Comment is too long")
			return
		}
		existing.Content = c
	}
	if body.Rating != nil {
		existing.Rating = *body.Rating
	}
	existing.UpdatedAt = time.Now()

	if err := h.Store.Update(ctx, *existing); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "DB update failed")
		return
	}
	h.changed(ctx, "comment-updated", *existing)

	utils.RespondWithJSON(w, http.StatusOK, existing)
}

// ApproveComment publishes a pending comment.
func (h *Handler) ApproveComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Store.Get(ctx, ps.ByName("commentid"))
	if errors.Is(err, models.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Comment not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Fetch failed")
		return
	}

	existing.Approved = true
	existing.UpdatedAt = time.Now()
	if err := h.Store.Update(ctx, *existing); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "DB update failed")
		return
	}
	h.changed(ctx, "comment-approved", *existing)

	utils.RespondWithJSON(w, http.StatusOK, existing)
}

// DeleteComment removes a comment. Only the author or an admin may.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	existing, ok := h.owned(ctx, w, r, ps)
	if !ok {
		return
	}
	if err := h.Store.Delete(ctx, existing.ID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Delete failed")
		return
	}
	h.changed(ctx, "comment-deleted", *existing)

	w.WriteHeader(http.StatusNoContent)
}

// owned loads the comment and checks the caller may change it. It writes the
// error response itself.
func (h *Handler) owned(ctx context.Context, w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*models.Comment, bool) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	existing, err := h.Store.Get(ctx, ps.ByName("commentid"))
	if errors.Is(err, models.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Comment not found")
		return nil, false
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Fetch failed")
		return nil, false
	}
	if existing.UserID != userID && !utils.IsAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return nil, false
	}
	return existing, true
}

// changed refreshes the rating fields and announces the write. A failed
// refresh is logged; the next rating write corrects it.
func (h *Handler) changed(ctx context.Context, event string, c models.Comment) {
	if h.Ratings != nil {
		if _, err := h.Ratings.Refresh(ctx, c.PostID); err != nil {
			logging.L().Warn("refresh ratings", zap.Int64("recipe", c.PostID), zap.Error(err))
		}
	}
	if h.Events != nil {
		h.Events.Emit(ctx, event, models.Index{
			EntityType: "comment",
			Method:     strings.TrimPrefix(event, "comment-"),
			EntityId:   c.ID,
			ItemId:     strconv.FormatInt(c.PostID, 10),
			ItemType:   "recipe",
		})
	}
}
