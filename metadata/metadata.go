// Package metadata reads and writes the flat key-value meta attached to a post
// and maps the rpr_ keys onto models.RecipeMeta.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Prefix shared by every recipe meta key.
const Prefix = "rpr_"

const (
	KeyDescription    = "rpr_recipe_description"
	KeyNotes          = "rpr_recipe_notes"
	KeyServings       = "rpr_recipe_servings"
	KeyServingsType   = "rpr_recipe_servings_type"
	KeyPrepTime       = "rpr_recipe_prep_time"
	KeyCookTime       = "rpr_recipe_cook_time"
	KeyPassiveTime    = "rpr_recipe_passive_time"
	KeyCalories       = "rpr_recipe_calorific_value"
	KeyProtein        = "rpr_recipe_protein"
	KeyFat            = "rpr_recipe_fat"
	KeyCarbohydrate   = "rpr_recipe_carbohydrate"
	KeySugar          = "rpr_recipe_sugar"
	KeyFiber          = "rpr_recipe_fiber"
	KeySodium         = "rpr_recipe_sodium"
	KeyCholesterol    = "rpr_recipe_cholesterol"
	KeySaturatedFat   = "rpr_recipe_saturated_fat"
	KeyTransFat       = "rpr_recipe_trans_fat"
	KeyUnsaturatedFat = "rpr_recipe_unsaturated_fat"
	KeyNutritionPer   = "rpr_recipe_nutrition_per"
	KeySource         = "rpr_recipe_source"
	KeySourceLink     = "rpr_recipe_source_link"
	KeySourceTarget   = "rpr_recipe_source_link_target"
	KeyVideo          = "rpr_recipe_video_data"
	KeyIngredients    = "rpr_recipe_ingredients"
	KeyInstructions   = "rpr_recipe_instructions"
	KeyEquipment      = "rpr_recipe_equipment"
	KeyRatingCount    = "rpr_rating_count"
	KeyRatingAverage  = "rpr_rating_average"
)

// Store is the post meta table. Values are strings; compound values are
// JSON-serialized by the writer.
type Store interface {
	AllMeta(ctx context.Context, postID int64) (map[string]string, error)
	UpdateMeta(ctx context.Context, postID int64, key, value string) error
	DeleteMeta(ctx context.Context, postID int64, key string) error
}

// Meta is the unserialized rpr_ subset of a post's meta.
type Meta map[string]any

// GetRecipeMeta reads every stored key for the post, keeps the rpr_ ones and
// unserializes compound values. A post without meta yields an empty map.
func GetRecipeMeta(ctx context.Context, store Store, postID int64) (Meta, error) {
	raw, err := store.AllMeta(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("read meta for post %d: %w", postID, err)
	}
	meta := make(Meta, len(raw))
	for k, v := range raw {
		if !strings.HasPrefix(k, Prefix) {
			continue
		}
		meta[k] = Unserialize(v)
	}
	return meta, nil
}

// Unserialize decodes JSON arrays and objects; every other value stays the
// stored string.
func Unserialize(v string) any {
	t := strings.TrimSpace(v)
	if len(t) < 2 || (t[0] != '[' && t[0] != '{') {
		return v
	}
	var out any
	if err := json.Unmarshal([]byte(t), &out); err != nil {
		return v
	}
	return out
}

// Serialize is the inverse of Unserialize.
func Serialize(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (m Meta) Has(key string) bool {
	_, ok := m[key]
	return ok
}

func (m Meta) String(key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		s, _ := Serialize(v)
		return s
	}
}

func (m Meta) Float(key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", "."), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	}
	return 0
}

// Int truncates numeric values; negative values read as 0.
func (m Meta) Int(key string) int {
	f := m.Float(key)
	if f < 0 {
		return 0
	}
	return int(f)
}

func (m Meta) Bool(key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true
		}
	case float64:
		return v != 0
	}
	return false
}

// Decode re-marshals an unserialized value into dst.
func (m Meta) Decode(key string, dst any) error {
	v, ok := m[key]
	if !ok {
		return nil
	}
	if s, isStr := v.(string); isStr {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return json.Unmarshal([]byte(s), dst)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
