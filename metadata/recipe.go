package metadata

import (
	"context"
	"fmt"

	"recipepress/logging"
	"recipepress/models"

	"go.uber.org/zap"
)

// LoadRecipe maps the meta onto the typed recipe view. Line lists that fail
// to decode are dropped; the renderers then show their "nothing found" text.
func LoadRecipe(m Meta) models.RecipeMeta {
	r := models.RecipeMeta{
		Description:  m.String(KeyDescription),
		Notes:        m.String(KeyNotes),
		Servings:     m.Float(KeyServings),
		ServingsType: m.String(KeyServingsType),
		PrepTime:     m.Int(KeyPrepTime),
		CookTime:     m.Int(KeyCookTime),
		PassiveTime:  m.Int(KeyPassiveTime),
		Nutrition: models.Nutrition{
			Per:            m.String(KeyNutritionPer),
			Calories:       m.Float(KeyCalories),
			Protein:        m.Float(KeyProtein),
			Fat:            m.Float(KeyFat),
			Carbohydrate:   m.Float(KeyCarbohydrate),
			Sugar:          m.Float(KeySugar),
			Fiber:          m.Float(KeyFiber),
			Sodium:         m.Float(KeySodium),
			Cholesterol:    m.Float(KeyCholesterol),
			SaturatedFat:   m.Float(KeySaturatedFat),
			TransFat:       m.Float(KeyTransFat),
			UnsaturatedFat: m.Float(KeyUnsaturatedFat),
		},
		Source: models.Source{
			Name:       m.String(KeySource),
			Link:       m.String(KeySourceLink),
			LinkTarget: m.Bool(KeySourceTarget),
		},
		RatingCount:   m.Int(KeyRatingCount),
		RatingAverage: m.Float(KeyRatingAverage),
	}

	decode := func(key string, dst any) {
		if err := m.Decode(key, dst); err != nil {
			logging.L().Warn("malformed recipe meta", zap.String("key", key), zap.Error(err))
		}
	}
	decode(KeyVideo, &r.Video)
	decode(KeyIngredients, &r.Ingredients)
	decode(KeyInstructions, &r.Instructions)
	decode(KeyEquipment, &r.Equipment)
	return r
}

// Values flattens a typed recipe into meta key/value pairs. Zero values are
// included so that clearing a field in an edit is persisted.
func Values(r models.RecipeMeta) map[string]any {
	return map[string]any{
		KeyDescription:    r.Description,
		KeyNotes:          r.Notes,
		KeyServings:       r.Servings,
		KeyServingsType:   r.ServingsType,
		KeyPrepTime:       r.PrepTime,
		KeyCookTime:       r.CookTime,
		KeyPassiveTime:    r.PassiveTime,
		KeyNutritionPer:   r.Nutrition.Per,
		KeyCalories:       r.Nutrition.Calories,
		KeyProtein:        r.Nutrition.Protein,
		KeyFat:            r.Nutrition.Fat,
		KeyCarbohydrate:   r.Nutrition.Carbohydrate,
		KeySugar:          r.Nutrition.Sugar,
		KeyFiber:          r.Nutrition.Fiber,
		KeySodium:         r.Nutrition.Sodium,
		KeyCholesterol:    r.Nutrition.Cholesterol,
		KeySaturatedFat:   r.Nutrition.SaturatedFat,
		KeyTransFat:       r.Nutrition.TransFat,
		KeyUnsaturatedFat: r.Nutrition.UnsaturatedFat,
		KeySource:         r.Source.Name,
		KeySourceLink:     r.Source.Link,
		KeySourceTarget:   r.Source.LinkTarget,
		KeyVideo:          r.Video,
		KeyIngredients:    nonNil(r.Ingredients),
		KeyInstructions:   nonNil(r.Instructions),
		KeyEquipment:      nonNil(r.Equipment),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// SaveRecipe writes every recipe key. Compound values that are empty (no
// lines, no video) are deleted instead. Rating fields are left alone; they
// are owned by the ratings service.
func SaveRecipe(ctx context.Context, store Store, postID int64, r models.RecipeMeta) error {
	for key, v := range Values(r) {
		s, err := Serialize(v)
		if err != nil {
			return fmt.Errorf("serialize %s: %w", key, err)
		}
		if s == "[]" || s == "{}" {
			if err := store.DeleteMeta(ctx, postID, key); err != nil {
				return fmt.Errorf("delete %s for post %d: %w", key, postID, err)
			}
			continue
		}
		if err := store.UpdateMeta(ctx, postID, key, s); err != nil {
			return fmt.Errorf("write %s for post %d: %w", key, postID, err)
		}
	}
	return nil
}
