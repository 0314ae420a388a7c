package models

import "time"

// RecipePost is the content record a recipe's metadata hangs off.
type RecipePost struct {
	ID          int64     `json:"id" bson:"post_id"`
	Title       string    `json:"title" bson:"title"`
	AuthorName  string    `json:"author_name" bson:"author_name"`
	Excerpt     string    `json:"excerpt" bson:"excerpt"`
	Content     string    `json:"content" bson:"content"`
	ImageID     int64     `json:"image_id,omitempty" bson:"image_id,omitempty"`
	Status      string    `json:"status" bson:"status"`
	Permalink   string    `json:"permalink" bson:"permalink"`
	Tags        []string  `json:"tags" bson:"tags"`
	ParentType  string    `json:"parent_type,omitempty" bson:"parent_type,omitempty"` // set when embedded in another content type
	PublishedAt time.Time `json:"published_at" bson:"published_at"`
	ModifiedAt  time.Time `json:"modified_at" bson:"modified_at"`
}

// Embedded reports whether the recipe is rendered inside another post type.
func (p *RecipePost) Embedded() bool {
	return p != nil && p.ParentType != ""
}

// IngredientLine is either a group marker (GroupTitle set or Untitled) or a
// data line.
type IngredientLine struct {
	GroupTitle   string `json:"grouptitle,omitempty"`
	Untitled     bool   `json:"-"`
	Amount       string `json:"amount,omitempty"`
	Unit         string `json:"unit,omitempty"`
	Ingredient   string `json:"ingredient,omitempty"`
	IngredientID int64  `json:"ingredient_id,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Link         string `json:"link,omitempty"`
	Target       int    `json:"target,omitempty"`
	Line         string `json:"line,omitempty"` // legacy freeform format
	Sort         int    `json:"sort,omitempty"`
	Key          string `json:"key,omitempty"`
}

func (l IngredientLine) IsGroup() bool { return l.GroupTitle != "" || l.Untitled }
func (l IngredientLine) Title() string { return l.GroupTitle }

// InstructionLine is either a group marker or a step.
type InstructionLine struct {
	GroupTitle  string `json:"grouptitle,omitempty"`
	Untitled    bool   `json:"-"`
	Description string `json:"description,omitempty"`
	Image       int64  `json:"image,omitempty"`
	Sort        int    `json:"sort,omitempty"`
	Key         string `json:"key,omitempty"`
}

func (l InstructionLine) IsGroup() bool { return l.GroupTitle != "" || l.Untitled }
func (l InstructionLine) Title() string { return l.GroupTitle }

// EquipmentLine is either a group marker or a piece of equipment.
type EquipmentLine struct {
	GroupTitle  string `json:"grouptitle,omitempty"`
	Untitled    bool   `json:"-"`
	EquipmentID int64  `json:"equipment_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Link        string `json:"link,omitempty"`
	Target      int    `json:"target,omitempty"`
	Sort        int    `json:"sort,omitempty"`
	Key         string `json:"key,omitempty"`
}

func (l EquipmentLine) IsGroup() bool { return l.GroupTitle != "" || l.Untitled }
func (l EquipmentLine) Title() string { return l.GroupTitle }

// Nutrition values; zero means "not given".
type Nutrition struct {
	Per            string  `json:"per,omitempty"`
	Calories       float64 `json:"calories,omitempty"`
	Protein        float64 `json:"protein,omitempty"`
	Fat            float64 `json:"fat,omitempty"`
	Carbohydrate   float64 `json:"carbohydrate,omitempty"`
	Sugar          float64 `json:"sugar,omitempty"`
	Fiber          float64 `json:"fiber,omitempty"`
	Sodium         float64 `json:"sodium,omitempty"`
	Cholesterol    float64 `json:"cholesterol,omitempty"`
	SaturatedFat   float64 `json:"saturated_fat,omitempty"`
	TransFat       float64 `json:"trans_fat,omitempty"`
	UnsaturatedFat float64 `json:"unsaturated_fat,omitempty"`
}

func (n Nutrition) Empty() bool {
	return n.Calories == 0 && n.Protein == 0 && n.Fat == 0 && n.Carbohydrate == 0 &&
		n.Sugar == 0 && n.Fiber == 0 && n.Sodium == 0 && n.Cholesterol == 0 &&
		n.SaturatedFat == 0 && n.TransFat == 0 && n.UnsaturatedFat == 0
}

type Source struct {
	Name       string `json:"name,omitempty"`
	Link       string `json:"link,omitempty"`
	LinkTarget bool   `json:"link_target,omitempty"`
}

type Video struct {
	URL         string   `json:"video_url,omitempty"`
	Title       string   `json:"video_title,omitempty"`
	Description string   `json:"video_description,omitempty"`
	UploadDate  string   `json:"video_date,omitempty"`
	Thumbnails  []string `json:"video_thumbnails,omitempty"`
}

// RecipeMeta is the typed view over a recipe's rpr_ metadata.
type RecipeMeta struct {
	Description   string            `json:"description,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Servings      float64           `json:"servings,omitempty"`
	ServingsType  string            `json:"servings_type,omitempty"`
	PrepTime      int               `json:"prep_time,omitempty"`
	CookTime      int               `json:"cook_time,omitempty"`
	PassiveTime   int               `json:"passive_time,omitempty"`
	Nutrition     Nutrition         `json:"nutrition"`
	Source        Source            `json:"source"`
	Video         Video             `json:"video"`
	Ingredients   []IngredientLine  `json:"ingredients,omitempty"`
	Instructions  []InstructionLine `json:"instructions,omitempty"`
	Equipment     []EquipmentLine   `json:"equipment,omitempty"`
	RatingCount   int               `json:"rating_count,omitempty"`
	RatingAverage float64           `json:"rating_average,omitempty"`
}

// TotalTime is prep + cook + passive, in minutes.
func (m RecipeMeta) TotalTime() int {
	return m.PrepTime + m.CookTime + m.PassiveTime
}

// TermMeta holds the custom fields a taxonomy entry can carry.
type TermMeta struct {
	Link           string `json:"link,omitempty" bson:"link,omitempty"`
	PluralName     string `json:"plural_name,omitempty" bson:"plural_name,omitempty"`
	ThumbnailImage int64  `json:"thumbnail_image,omitempty" bson:"thumbnail_image,omitempty"`
	UseInListings  bool   `json:"use_in_listings" bson:"use_in_listings"`
}

type Term struct {
	ID       int64    `json:"term_id" bson:"term_id"`
	Taxonomy string   `json:"taxonomy" bson:"taxonomy"`
	Name     string   `json:"name" bson:"name"`
	Slug     string   `json:"slug" bson:"slug"`
	Meta     TermMeta `json:"meta" bson:"meta"`
}

// TermRelationship assigns a term to a post.
type TermRelationship struct {
	PostID   int64  `json:"post_id" bson:"post_id"`
	Taxonomy string `json:"taxonomy" bson:"taxonomy"`
	TermID   int64  `json:"term_id" bson:"term_id"`
}

type MediaAsset struct {
	ID     int64             `json:"media_id" bson:"media_id"`
	URL    string            `json:"url" bson:"url"`
	Width  int               `json:"width" bson:"width"`
	Height int               `json:"height" bson:"height"`
	Alt    string            `json:"alt,omitempty" bson:"alt,omitempty"`
	Sizes  map[string]string `json:"sizes,omitempty" bson:"sizes,omitempty"`
}

// SizeURL returns the URL of a generated size, falling back to the original.
func (m *MediaAsset) SizeURL(size string) string {
	if m == nil {
		return ""
	}
	if u, ok := m.Sizes[size]; ok && u != "" {
		return u
	}
	return m.URL
}

// Comment on a recipe. Rating 0 means no rating was given.
type Comment struct {
	ID          string    `json:"commentid" bson:"commentid"`
	PostID      int64     `json:"post_id" bson:"post_id"`
	UserID      string    `json:"userid,omitempty" bson:"userid,omitempty"`
	AuthorName  string    `json:"author_name" bson:"author_name"`
	AuthorEmail string    `json:"-" bson:"author_email,omitempty"`
	Content     string    `json:"content" bson:"content"`
	Rating      int       `json:"rating" bson:"rating"`
	Approved    bool      `json:"approved" bson:"approved"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
