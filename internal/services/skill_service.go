package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rmarin/portfolio-be/internal/models"
)

// DefaultSkillLevel is used when a new skill carries no level.
const DefaultSkillLevel = 75

// SkillServiceProvider defines the interface for skill services.
type SkillServiceProvider interface {
	List(callerID string) ([]models.Skill, error)
	ListPublic() ([]models.Skill, error)
	Add(callerID, name string, level *int) (models.Skill, error)
	Update(id, callerID string, patch models.SkillPatch) (models.Skill, error)
	Delete(id, callerID string) error
}

// SkillService provides business logic for skill management.
type SkillService struct {
	db *sql.DB
}

// NewSkillService creates a new SkillService.
func NewSkillService(db *sql.DB) *SkillService {
	return &SkillService{db: db}
}

const skillColumns = "id, owner_id, name, level, created_at, updated_at"

func scanSkill(scanner interface{ Scan(...interface{}) error }) (models.Skill, error) {
	var skill models.Skill
	err := scanner.Scan(&skill.ID, &skill.OwnerID, &skill.Name, &skill.Level,
		&skill.CreatedAt, &skill.UpdatedAt)
	return skill, err
}

func (s *SkillService) querySkills(query string, args ...interface{}) ([]models.Skill, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		skill, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

// List retrieves the caller's skills ordered by name.
func (s *SkillService) List(callerID string) ([]models.Skill, error) {
	return s.querySkills("SELECT "+skillColumns+" FROM skills WHERE owner_id = ? ORDER BY name ASC", callerID)
}

// ListPublic retrieves every stored skill for anonymous display.
func (s *SkillService) ListPublic() ([]models.Skill, error) {
	return s.querySkills("SELECT " + skillColumns + " FROM skills ORDER BY name ASC")
}

// getByID retrieves a single skill regardless of owner.
func (s *SkillService) getByID(id string) (models.Skill, error) {
	row := s.db.QueryRow("SELECT "+skillColumns+" FROM skills WHERE id = ?", id)
	skill, err := scanSkill(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Skill{}, fmt.Errorf("skill %s: %w", id, ErrNotFound)
		}
		return models.Skill{}, err
	}
	return skill, nil
}

// Add creates a new skill owned by the caller. A missing level defaults to
// 75; any level is clamped into 0-100.
func (s *SkillService) Add(callerID, name string, level *int) (models.Skill, error) {
	if name == "" {
		return models.Skill{}, fmt.Errorf("skill name is required: %w", ErrBadRequest)
	}

	skillLevel := DefaultSkillLevel
	if level != nil {
		skillLevel = models.ClampLevel(*level)
	}

	skill := models.Skill{
		ID:      uuid.New().String(),
		OwnerID: callerID,
		Name:    name,
		Level:   skillLevel,
	}

	stmt, err := s.db.Prepare("INSERT INTO skills (id, owner_id, name, level) VALUES (?, ?, ?, ?)")
	if err != nil {
		return models.Skill{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(skill.ID, skill.OwnerID, skill.Name, skill.Level); err != nil {
		return models.Skill{}, err
	}
	return s.getByID(skill.ID)
}

// Update merges the provided fields into a skill after checking ownership.
func (s *SkillService) Update(id, callerID string, patch models.SkillPatch) (models.Skill, error) {
	skill, err := s.getByID(id)
	if err != nil {
		return models.Skill{}, err
	}
	if skill.OwnerID != callerID {
		return models.Skill{}, fmt.Errorf("skill %s is not owned by caller: %w", id, ErrForbidden)
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return models.Skill{}, fmt.Errorf("skill name must not be empty: %w", ErrBadRequest)
		}
		skill.Name = *patch.Name
	}
	if patch.Level != nil {
		skill.Level = models.ClampLevel(*patch.Level)
	}

	_, err = s.db.Exec("UPDATE skills SET name = ?, level = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		skill.Name, skill.Level, id)
	if err != nil {
		return models.Skill{}, err
	}
	return s.getByID(id)
}

// Delete removes a skill after checking ownership.
func (s *SkillService) Delete(id, callerID string) error {
	skill, err := s.getByID(id)
	if err != nil {
		return err
	}
	if skill.OwnerID != callerID {
		return fmt.Errorf("skill %s is not owned by caller: %w", id, ErrForbidden)
	}

	_, err = s.db.Exec("DELETE FROM skills WHERE id = ?", id)
	return err
}
