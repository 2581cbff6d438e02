package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Project is a portfolio entry. Projects are global to the site; reads are
// public and listing is newest-first.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`

	// JSON string field for DB storage
	TagsJSON string `json:"-"`

	Tags []string `json:"tags"`

	LiveLink  string    `json:"liveLink,omitempty"`
	CodeLink  string    `json:"codeLink,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PrepareForSave marshals the tags into their JSON string for DB storage.
func (p *Project) PrepareForSave() {
	tagsBytes, _ := json.Marshal(p.Tags)
	p.TagsJSON = string(tagsBytes)
}

// PrepareForAPI unmarshals the JSON string tags for API responses.
func (p *Project) PrepareForAPI() {
	if p.TagsJSON != "" {
		json.Unmarshal([]byte(p.TagsJSON), &p.Tags)
	}
}

// TagList accepts either a JSON array of strings or a single
// comma-separated string, normalizing both to a trimmed array.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var asList []string
	if err := json.Unmarshal(data, &asList); err == nil {
		*t = NormalizeTags(asList)
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	*t = NormalizeTags(strings.Split(asString, ","))
	return nil
}

// NormalizeTags trims each tag and drops empty entries. Applying it twice
// yields the same result.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			normalized = append(normalized, tag)
		}
	}
	return normalized
}

// ProjectPatch carries a partial project update; nil keeps the stored value.
type ProjectPatch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Tags        *TagList `json:"tags"`
	LiveLink    *string  `json:"liveLink"`
	CodeLink    *string  `json:"codeLink"`
}
