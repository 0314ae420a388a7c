package schema

const vocab = "https://schema.org"

// Recipe is the JSON-LD document. Field order is the output order.
type Recipe struct {
	Context            string           `json:"@context"`
	Type               string           `json:"@type"`
	Name               string           `json:"name"`
	URL                string           `json:"url,omitempty"`
	Author             *Person          `json:"author,omitempty"`
	DatePublished      string           `json:"datePublished,omitempty"`
	DateModified       string           `json:"dateModified,omitempty"`
	Description        string           `json:"description,omitempty"`
	Image              []string         `json:"image,omitempty"`
	RecipeYield        string           `json:"recipeYield,omitempty"`
	PrepTime           string           `json:"prepTime,omitempty"`
	CookTime           string           `json:"cookTime,omitempty"`
	TotalTime          string           `json:"totalTime,omitempty"`
	RecipeCategory     []string         `json:"recipeCategory,omitempty"`
	RecipeCuisine      []string         `json:"recipeCuisine,omitempty"`
	Keywords           string           `json:"keywords,omitempty"`
	SuitableForDiet    []string         `json:"suitableForDiet,omitempty"`
	Tool               []string         `json:"tool,omitempty"`
	RecipeIngredient   []string         `json:"recipeIngredient"`
	RecipeInstructions []any            `json:"recipeInstructions"`
	Nutrition          *Nutrition       `json:"nutrition,omitempty"`
	AggregateRating    *AggregateRating `json:"aggregateRating,omitempty"`
	Review             []Review         `json:"review,omitempty"`
	Video              *VideoObject     `json:"video,omitempty"`
}

type Person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type HowToStep struct {
	Type  string `json:"@type"`
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

type HowToSection struct {
	Type            string      `json:"@type"`
	Name            string      `json:"name"`
	ItemListElement []HowToStep `json:"itemListElement"`
}

// Nutrition values are strings with their unit, e.g. "250 kcal".
type Nutrition struct {
	Type                  string `json:"@type"`
	ServingSize           string `json:"servingSize,omitempty"`
	Calories              string `json:"calories,omitempty"`
	ProteinContent        string `json:"proteinContent,omitempty"`
	FatContent            string `json:"fatContent,omitempty"`
	SaturatedFatContent   string `json:"saturatedFatContent,omitempty"`
	TransFatContent       string `json:"transFatContent,omitempty"`
	UnsaturatedFatContent string `json:"unsaturatedFatContent,omitempty"`
	CarbohydrateContent   string `json:"carbohydrateContent,omitempty"`
	SugarContent          string `json:"sugarContent,omitempty"`
	FiberContent          string `json:"fiberContent,omitempty"`
	SodiumContent         string `json:"sodiumContent,omitempty"`
	CholesterolContent    string `json:"cholesterolContent,omitempty"`
}

type AggregateRating struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	RatingCount int     `json:"ratingCount"`
	BestRating  int     `json:"bestRating"`
	WorstRating int     `json:"worstRating"`
}

type Rating struct {
	Type        string `json:"@type"`
	RatingValue int    `json:"ratingValue"`
	BestRating  int    `json:"bestRating"`
	WorstRating int    `json:"worstRating"`
}

type Review struct {
	Type          string `json:"@type"`
	Author        Person `json:"author"`
	DatePublished string `json:"datePublished,omitempty"`
	ReviewBody    string `json:"reviewBody,omitempty"`
	ReviewRating  Rating `json:"reviewRating"`
}

type VideoObject struct {
	Type         string   `json:"@type"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	ContentURL   string   `json:"contentUrl"`
	UploadDate   string   `json:"uploadDate,omitempty"`
	ThumbnailURL []string `json:"thumbnailUrl,omitempty"`
}

// diets maps rpr_diet term slugs to schema.org RestrictedDiet values.
var diets = map[string]string{
	"diabetic":    "DiabeticDiet",
	"gluten-free": "GlutenFreeDiet",
	"halal":       "HalalDiet",
	"hindu":       "HinduDiet",
	"kosher":      "KosherDiet",
	"low-calorie": "LowCalorieDiet",
	"low-fat":     "LowFatDiet",
	"low-lactose": "LowLactoseDiet",
	"low-salt":    "LowSaltDiet",
	"vegan":       "VeganDiet",
	"vegetarian":  "VegetarianDiet",
}
