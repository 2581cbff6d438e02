package models

import (
	"encoding/json"
	"time"
)

// SocialLinks holds the profile's social media URLs.
type SocialLinks struct {
	GitHub   string `json:"github,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// EducationEntry is a single education record on the profile.
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

// Profile is the site owner's record: admin identity plus the public bio
// data rendered by the frontend. Exactly one row exists; it is created at
// startup if absent and never deleted.
type Profile struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Never expose this to the client
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Location     string `json:"location"`

	// JSON string fields for DB storage
	SocialJSON    string `json:"-"`
	SkillsJSON    string `json:"-"`
	EducationJSON string `json:"-"`

	// Structured fields for API interaction
	Social    SocialLinks      `json:"social"`
	Skills    []string         `json:"skills"` // legacy inline list, distinct from the skills table
	Education []EducationEntry `json:"education,omitempty"`

	ResumeURL      string    `json:"resumeUrl,omitempty"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PrepareForSave marshals the structured fields into their JSON strings for DB storage.
func (p *Profile) PrepareForSave() {
	socialBytes, _ := json.Marshal(p.Social)
	p.SocialJSON = string(socialBytes)

	skillsBytes, _ := json.Marshal(p.Skills)
	p.SkillsJSON = string(skillsBytes)

	educationBytes, _ := json.Marshal(p.Education)
	p.EducationJSON = string(educationBytes)
}

// PrepareForAPI unmarshals the JSON string fields for API responses.
func (p *Profile) PrepareForAPI() {
	if p.SocialJSON != "" {
		json.Unmarshal([]byte(p.SocialJSON), &p.Social)
	}
	if p.SkillsJSON != "" {
		json.Unmarshal([]byte(p.SkillsJSON), &p.Skills)
	}
	if p.EducationJSON != "" {
		json.Unmarshal([]byte(p.EducationJSON), &p.Education)
	}
}

// Sanitized returns a copy safe to send to clients.
func (p Profile) Sanitized() Profile {
	p.PasswordHash = ""
	return p
}

// ProfilePatch carries a partial profile update. A nil field keeps the
// stored value; a non-nil field overwrites it, including zero values.
type ProfilePatch struct {
	Name      *string           `json:"name"`
	Email     *string           `json:"email"`
	Role      *string           `json:"role"`
	Location  *string           `json:"location"`
	Social    *SocialLinks      `json:"social"`
	Skills    *[]string         `json:"skills"`
	Education *[]EducationEntry `json:"education"`
	ResumeURL *string           `json:"resumeUrl"`
}

// Apply merges the patch into the profile.
func (patch ProfilePatch) Apply(p *Profile) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Role != nil {
		p.Role = *patch.Role
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Social != nil {
		p.Social = *patch.Social
	}
	if patch.Skills != nil {
		p.Skills = *patch.Skills
	}
	if patch.Education != nil {
		p.Education = *patch.Education
	}
	if patch.ResumeURL != nil {
		p.ResumeURL = *patch.ResumeURL
	}
}
