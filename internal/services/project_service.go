package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rmarin/portfolio-be/internal/models"
)

// NewProjectInput carries the fields for creating a project. Tags accept
// either an array or a comma-separated string.
type NewProjectInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Tags        models.TagList `json:"tags"`
	LiveLink    string         `json:"liveLink"`
	CodeLink    string         `json:"codeLink"`
}

// ProjectServiceProvider defines the interface for project services.
type ProjectServiceProvider interface {
	List() ([]models.Project, error)
	Add(callerID string, input NewProjectInput) (models.Project, error)
	Update(id, callerID string, patch models.ProjectPatch) (models.Project, error)
	Delete(id, callerID string) error
}

// ProjectService provides business logic for project management.
type ProjectService struct {
	db *sql.DB
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *sql.DB) *ProjectService {
	return &ProjectService{db: db}
}

const projectColumns = "id, title, description, image, tags_json, live_link, code_link, created_at, updated_at"

func scanProject(scanner interface{ Scan(...interface{}) error }) (models.Project, error) {
	var p models.Project
	var description, image, tags, liveLink, codeLink sql.NullString

	err := scanner.Scan(&p.ID, &p.Title, &description, &image, &tags,
		&liveLink, &codeLink, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}

	p.Description = description.String
	p.Image = image.String
	p.TagsJSON = tags.String
	p.LiveLink = liveLink.String
	p.CodeLink = codeLink.String

	p.PrepareForAPI()
	return p, nil
}

// List retrieves all projects, newest first.
func (s *ProjectService) List() ([]models.Project, error) {
	rows, err := s.db.Query("SELECT " + projectColumns + " FROM projects ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// getByID retrieves a single project.
func (s *ProjectService) getByID(id string) (models.Project, error) {
	row := s.db.QueryRow("SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	project, err := scanProject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return models.Project{}, err
	}
	return project, nil
}

// Add creates a new project with normalized tags.
func (s *ProjectService) Add(callerID string, input NewProjectInput) (models.Project, error) {
	if input.Title == "" {
		return models.Project{}, fmt.Errorf("project title is required: %w", ErrBadRequest)
	}

	project := models.Project{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Image:       input.Image,
		Tags:        models.NormalizeTags(input.Tags),
		LiveLink:    input.LiveLink,
		CodeLink:    input.CodeLink,
	}
	project.PrepareForSave()

	stmt, err := s.db.Prepare(`INSERT INTO projects
		(id, title, description, image, tags_json, live_link, code_link)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Project{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(project.ID, project.Title, project.Description, project.Image,
		project.TagsJSON, project.LiveLink, project.CodeLink)
	if err != nil {
		return models.Project{}, err
	}
	return s.getByID(project.ID)
}

// Update merges the provided fields into a project. Omitted fields keep
// their stored values.
func (s *ProjectService) Update(id, callerID string, patch models.ProjectPatch) (models.Project, error) {
	project, err := s.getByID(id)
	if err != nil {
		return models.Project{}, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return models.Project{}, fmt.Errorf("project title must not be empty: %w", ErrBadRequest)
		}
		project.Title = *patch.Title
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Image != nil {
		project.Image = *patch.Image
	}
	if patch.Tags != nil {
		project.Tags = models.NormalizeTags(*patch.Tags)
	}
	if patch.LiveLink != nil {
		project.LiveLink = *patch.LiveLink
	}
	if patch.CodeLink != nil {
		project.CodeLink = *patch.CodeLink
	}
	project.PrepareForSave()

	_, err = s.db.Exec(`UPDATE projects SET
		title = ?, description = ?, image = ?, tags_json = ?, live_link = ?, code_link = ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		project.Title, project.Description, project.Image, project.TagsJSON,
		project.LiveLink, project.CodeLink, id)
	if err != nil {
		return models.Project{}, err
	}
	return s.getByID(id)
}

// Delete removes a project.
func (s *ProjectService) Delete(id, callerID string) error {
	if _, err := s.getByID(id); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM projects WHERE id = ?", id)
	return err
}
