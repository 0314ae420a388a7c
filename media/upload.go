package media

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"recipepress/logging"
	"recipepress/models"
	"recipepress/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const maxUpload = 10 << 20

// Handler serves media uploads.
type Handler struct {
	Store     Store
	UploadDir string
	BaseURL   string // public URL of UploadDir
}

// POST /api/media
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	log := logging.L()
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing image")
		return
	}
	defer file.Close()
	if !utils.ValidateImageFileType(w, header) {
		return
	}

	savedName, err := utils.SaveFile(file, header.Filename, h.UploadDir)
	if err != nil {
		log.Error("save upload", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving file")
		return
	}

	f, err := os.Open(filepath.Join(h.UploadDir, savedName))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading file")
		return
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unsupported image")
		return
	}

	generated, err := GenerateSizes(img, h.UploadDir, savedName)
	if err != nil {
		log.Error("generate sizes", zap.String("file", savedName), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating sizes")
		return
	}

	id, err := h.Store.NextID(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to allocate ID")
		return
	}
	asset := models.MediaAsset{
		ID:     id,
		URL:    h.url(savedName),
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Alt:    strings.TrimSpace(r.FormValue("alt")),
		Sizes:  make(map[string]string, len(generated)),
	}
	for size, name := range generated {
		asset.Sizes[size] = h.url(name)
	}

	if err := h.Store.Save(r.Context(), asset); err != nil {
		log.Error("store media", zap.Int64("media_id", id), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "DB insert failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, asset)
}

func (h *Handler) url(name string) string {
	return strings.TrimRight(h.BaseURL, "/") + "/" + path.Base(name)
}
