package models

import "time"

// Skill is a single rated skill owned by the profile.
type Skill struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Level     int       `json:"level"` // 0-100
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SkillPatch carries a partial skill update; nil keeps the stored value.
type SkillPatch struct {
	Name  *string `json:"name"`
	Level *int    `json:"level"`
}

// ClampLevel forces a skill level into the valid 0-100 range.
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}
