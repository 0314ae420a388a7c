package models

// Index represents a change event published on the invalidation channel.
type Index struct {
	EntityType string `json:"entity_type"` // "recipe", "comment", "term", "settings"
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`   // affected recipe, when known
	ItemType   string `json:"item_type"` // usually "recipe"
}
