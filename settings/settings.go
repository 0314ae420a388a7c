package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"recipepress/logging"
	"recipepress/models"
	"recipepress/mq"
	"recipepress/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const optionName = "rpr_options"

// Store persists the flat options map.
type Store interface {
	Load(ctx context.Context) (map[string]any, error)
	Set(ctx context.Context, key string, value any) error
}

// MongoStore keeps the options in a single document of the options collection.
type MongoStore struct {
	Coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{Coll: coll}
}

func (s *MongoStore) Load(ctx context.Context) (map[string]any, error) {
	var doc struct {
		Values map[string]any `bson:"values"`
	}
	err := s.Coll.FindOne(ctx, bson.M{"name": optionName}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Values == nil {
		doc.Values = map[string]any{}
	}
	return doc.Values, nil
}

func (s *MongoStore) Set(ctx context.Context, key string, value any) error {
	filter := bson.M{"name": optionName}
	update := bson.M{"$set": bson.M{"values." + key: value}}
	_, err := s.Coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Load reads the stored options. Read failures fall back to the defaults.
func Load(ctx context.Context, store Store, siteURL string) Options {
	m, err := store.Load(ctx)
	if err != nil {
		logging.L().Warn("failed to load options, using defaults", zap.Error(err))
		m = nil
	}
	o := FromMap(m)
	o.SiteURL = siteURL
	return o
}

// Handler serves the settings endpoints.
type Handler struct {
	Store   Store
	Events  mq.Emitter
	SiteURL string
}

// GetSettings returns the settings as an array (frontend expects this format)
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	o := Load(r.Context(), h.Store, h.SiteURL)

	values := o.Map()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	settingsArray := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		settingsArray = append(settingsArray, map[string]any{"type": k, "value": values[k]})
	}
	utils.RespondWithJSON(w, http.StatusOK, settingsArray)
}

// UpdateSetting updates a single setting
func (h *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	settingType := ps.ByName("type")

	var update struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := Validate(settingType, update.Value); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Store.Set(r.Context(), settingType, update.Value); err != nil {
		logging.L().Error("failed to update setting", zap.String("type", settingType), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update setting")
		return
	}

	h.Events.Emit(r.Context(), "settings-updated", models.Index{EntityType: "settings", Method: "PUT", EntityId: settingType})

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Setting updated successfully",
		"type":    settingType,
		"value":   update.Value,
	})
}
