package settings

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ingredient link policies.
const (
	LinksNone            = 0 // never link
	LinksArchive         = 1 // link to the term archive
	LinksCustomOrArchive = 2 // custom link, else archive
	LinksCustomOnly      = 3 // custom link, else no link
)

// Note separators.
const (
	SepNone  = 0
	SepParen = 1
	SepComma = 2
)

// Section names usable in the layout.
var KnownSections = []string{
	"description", "rating", "times", "servings", "ingredients", "equipment",
	"instructions", "notes", "nutrition", "source", "video", "taxonomies",
}

// Options is the read-only plugin configuration handed to every component.
type Options struct {
	IngredientLinks          int
	IngredientsPlural        bool
	IngredientsNoteSep       int
	UseIcons                 bool
	InstructionImagePosition string
	InstructionImageSize     string
	ShowNutrition            bool
	ShowEquipment            bool
	Layout                   []string
	Taxonomies               []string
	SiteURL                  string
	SchemaEnabled            bool
}

// Defaults returns the options used for every key missing from storage.
func Defaults() Options {
	return Options{
		IngredientLinks:          LinksCustomOrArchive,
		IngredientsPlural:        true,
		IngredientsNoteSep:       SepParen,
		UseIcons:                 false,
		InstructionImagePosition: "right",
		InstructionImageSize:     "thumbnail",
		ShowNutrition:            true,
		ShowEquipment:            true,
		Layout:                   append([]string(nil), KnownSections...),
		Taxonomies:               []string{"rpr_course", "rpr_cuisine", "rpr_season", "rpr_difficulty", "rpr_diet"},
		SchemaEnabled:            true,
	}
}

// keys that may be stored, with a validator each.
var validSettings = map[string]func(any) error{
	"ingredient_links":           intRange(LinksNone, LinksCustomOnly),
	"ingredients_plural":         isBool,
	"ingredients_note_sep":       intRange(SepNone, SepComma),
	"use_icons":                  isBool,
	"instruction_image_position": oneOf("right", "below"),
	"instruction_image_size":     oneOf("thumbnail", "1x1", "4x3", "16x9", "full"),
	"show_nutrition":             isBool,
	"show_equipment":             isBool,
	"layout":                     stringList(KnownSections),
	"taxonomies":                 stringList(nil),
	"schema_enabled":             isBool,
}

// Validate checks a single key/value pair against the known settings.
func Validate(key string, value any) error {
	check, ok := validSettings[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	return check(value)
}

// FromMap builds Options from a stored map; missing or malformed keys keep
// their defaults.
func FromMap(m map[string]any) Options {
	o := Defaults()
	o.IngredientLinks = clamp(toInt(m["ingredient_links"], o.IngredientLinks), LinksNone, LinksCustomOnly)
	o.IngredientsPlural = toBool(m["ingredients_plural"], o.IngredientsPlural)
	o.IngredientsNoteSep = clamp(toInt(m["ingredients_note_sep"], o.IngredientsNoteSep), SepNone, SepComma)
	o.UseIcons = toBool(m["use_icons"], o.UseIcons)
	o.InstructionImagePosition = toString(m["instruction_image_position"], o.InstructionImagePosition)
	o.InstructionImageSize = toString(m["instruction_image_size"], o.InstructionImageSize)
	o.ShowNutrition = toBool(m["show_nutrition"], o.ShowNutrition)
	o.ShowEquipment = toBool(m["show_equipment"], o.ShowEquipment)
	o.Layout = toStrings(m["layout"], o.Layout)
	o.Taxonomies = toStrings(m["taxonomies"], o.Taxonomies)
	o.SchemaEnabled = toBool(m["schema_enabled"], o.SchemaEnabled)
	return o
}

// Map is the storable form of the typed options.
func (o Options) Map() map[string]any {
	return map[string]any{
		"ingredient_links":           o.IngredientLinks,
		"ingredients_plural":         o.IngredientsPlural,
		"ingredients_note_sep":       o.IngredientsNoteSep,
		"use_icons":                  o.UseIcons,
		"instruction_image_position": o.InstructionImagePosition,
		"instruction_image_size":     o.InstructionImageSize,
		"show_nutrition":             o.ShowNutrition,
		"show_equipment":             o.ShowEquipment,
		"layout":                     o.Layout,
		"taxonomies":                 o.Taxonomies,
		"schema_enabled":             o.SchemaEnabled,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo || v > hi {
		return lo
	}
	return v
}

func toInt(v any, def int) int {
	switch x := v.(type) {
	case int:
		return x
	case int32:
		return int(x)
	case int64:
		return int(x)
	case float64:
		return int(x)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return n
		}
	}
	return def
}

func toBool(v any, def bool) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int, int32, int64, float64:
		return toInt(x, 0) != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off", "":
			return false
		}
	}
	return def
}

func toString(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

func toStrings(v any, def []string) []string {
	switch x := v.(type) {
	case []string:
		return x
	case primitive.A:
		return toStrings([]any(x), def)
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if x == "" {
			return def
		}
		var out []string
		for _, p := range strings.Split(x, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return def
}

func isBool(v any) error {
	switch v.(type) {
	case bool:
		return nil
	}
	return fmt.Errorf("expected boolean, got %T", v)
}

func intRange(lo, hi int) func(any) error {
	return func(v any) error {
		n := toInt(v, lo-1)
		if n < lo || n > hi {
			return fmt.Errorf("expected integer in [%d,%d]", lo, hi)
		}
		return nil
	}
}

func oneOf(allowed ...string) func(any) error {
	return func(v any) error {
		s, _ := v.(string)
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return fmt.Errorf("expected one of %s", strings.Join(allowed, ", "))
	}
}

func stringList(allowed []string) func(any) error {
	return func(v any) error {
		items := toStrings(v, nil)
		if items == nil {
			return fmt.Errorf("expected a list of strings")
		}
		if allowed == nil {
			return nil
		}
		for _, it := range items {
			found := false
			for _, a := range allowed {
				if it == a {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("unknown entry %q", it)
			}
		}
		return nil
	}
}
