package models

import "encoding/json"

// A stored line with a "grouptitle" key and no data fields is a group
// marker even when the title is empty. These methods keep that distinction
// through Untitled.

func (l *IngredientLine) UnmarshalJSON(b []byte) error {
	type plain IngredientLine
	if err := json.Unmarshal(b, (*plain)(l)); err != nil {
		return err
	}
	l.Untitled = l.GroupTitle == "" && hasGroupKey(b) &&
		l.Amount == "" && l.Unit == "" && l.Ingredient == "" && l.IngredientID == 0 &&
		l.Notes == "" && l.Link == "" && l.Line == ""
	return nil
}

func (l IngredientLine) MarshalJSON() ([]byte, error) {
	type plain IngredientLine
	if !l.Untitled || l.GroupTitle != "" {
		return json.Marshal(plain(l))
	}
	return json.Marshal(struct {
		GroupTitle string `json:"grouptitle"`
		plain
	}{plain: plain(l)})
}

func (l *InstructionLine) UnmarshalJSON(b []byte) error {
	type plain InstructionLine
	if err := json.Unmarshal(b, (*plain)(l)); err != nil {
		return err
	}
	l.Untitled = l.GroupTitle == "" && hasGroupKey(b) && l.Description == "" && l.Image == 0
	return nil
}

func (l InstructionLine) MarshalJSON() ([]byte, error) {
	type plain InstructionLine
	if !l.Untitled || l.GroupTitle != "" {
		return json.Marshal(plain(l))
	}
	return json.Marshal(struct {
		GroupTitle string `json:"grouptitle"`
		plain
	}{plain: plain(l)})
}

func (l *EquipmentLine) UnmarshalJSON(b []byte) error {
	type plain EquipmentLine
	if err := json.Unmarshal(b, (*plain)(l)); err != nil {
		return err
	}
	l.Untitled = l.GroupTitle == "" && hasGroupKey(b) &&
		l.EquipmentID == 0 && l.Name == "" && l.Notes == "" && l.Link == ""
	return nil
}

func (l EquipmentLine) MarshalJSON() ([]byte, error) {
	type plain EquipmentLine
	if !l.Untitled || l.GroupTitle != "" {
		return json.Marshal(plain(l))
	}
	return json.Marshal(struct {
		GroupTitle string `json:"grouptitle"`
		plain
	}{plain: plain(l)})
}

func hasGroupKey(b []byte) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return false
	}
	_, ok := fields["grouptitle"]
	return ok
}
