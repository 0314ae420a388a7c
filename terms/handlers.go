package terms

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"recipepress/logging"
	"recipepress/models"
	"recipepress/mq"
	"recipepress/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Handler serves the taxonomy endpoints.
type Handler struct {
	Store  Store
	Events mq.Emitter
}

// GET /api/terms/:taxonomy
func (h *Handler) ListTerms(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	taxonomy := ps.ByName("taxonomy")
	if !Known(taxonomy) {
		utils.RespondWithError(w, http.StatusNotFound, "Unknown taxonomy")
		return
	}
	list, err := h.Store.List(r.Context(), taxonomy)
	if err != nil {
		logging.L().Error("list terms", zap.String("taxonomy", taxonomy), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch terms")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// PUT /api/terms/:taxonomy/:id
func (h *Handler) SaveTerm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	taxonomy := ps.ByName("taxonomy")
	if !Known(taxonomy) {
		utils.RespondWithError(w, http.StatusNotFound, "Unknown taxonomy")
		return
	}
	id, err := utils.ParseID(ps, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	var term models.Term
	if err := json.NewDecoder(r.Body).Decode(&term); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	term.ID = id
	term.Taxonomy = taxonomy
	term.Name = strings.TrimSpace(term.Name)
	if term.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if term.Slug == "" {
		term.Slug = Slugify(term.Name)
	}

	if err := h.Store.Save(r.Context(), term); err != nil {
		logging.L().Error("save term", zap.Int64("term_id", id), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save term")
		return
	}

	h.Events.Emit(r.Context(), "term-updated", models.Index{EntityType: "term", Method: "PUT", EntityId: strconv.FormatInt(id, 10), ItemType: taxonomy})
	utils.RespondWithJSON(w, http.StatusOK, term)
}

// GET /api/terms/:taxonomy/:id
func (h *Handler) GetTerm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := utils.ParseID(ps, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	t, err := h.Store.Resolve(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) || (err == nil && t.Taxonomy != ps.ByName("taxonomy")) {
		utils.RespondWithError(w, http.StatusNotFound, "Term not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch term")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, t)
}

// Slugify lowercases name and joins words with dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r > 127:
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
