package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rmarin/portfolio-be/internal/models"
)

// CredentialsUpdate carries a credentials change request. Username is
// optional; a new password requires the current one.
type CredentialsUpdate struct {
	Username        *string `json:"username"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
}

// ProfileServiceProvider defines the interface for profile services.
type ProfileServiceProvider interface {
	Bootstrap(username, password string) error
	ProfileExists(id string) (bool, error)
	GetPublicProfile() (models.Profile, error)
	GetOwnProfile(callerID string) (models.Profile, error)
	Authenticate(username, password string) (models.Profile, error)
	UpdateProfile(callerID string, patch models.ProfilePatch) (models.Profile, error)
	UpdateCredentials(callerID string, update CredentialsUpdate) (models.Profile, error)
	SetProfilePicture(callerID, url string) (models.Profile, error)
	SetResumeURL(callerID, url string) (models.Profile, error)
}

// ProfileService provides business logic for the singleton site profile.
type ProfileService struct {
	db *sql.DB
}

// NewProfileService creates a new ProfileService.
func NewProfileService(db *sql.DB) *ProfileService {
	return &ProfileService{db: db}
}

const profileColumns = `id, username, password_hash, name, email, role, location,
	social_json, skills_json, education_json, resume_url, profile_picture, created_at, updated_at`

// scanProfile is a helper to scan a profile from a row or rows object.
func scanProfile(scanner interface{ Scan(...interface{}) error }) (models.Profile, error) {
	var p models.Profile
	var name, email, role, location sql.NullString
	var social, skills, education, resumeURL, picture sql.NullString

	err := scanner.Scan(
		&p.ID, &p.Username, &p.PasswordHash, &name, &email, &role, &location,
		&social, &skills, &education, &resumeURL, &picture, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}

	p.Name = name.String
	p.Email = email.String
	p.Role = role.String
	p.Location = location.String
	p.SocialJSON = social.String
	p.SkillsJSON = skills.String
	p.EducationJSON = education.String
	p.ResumeURL = resumeURL.String
	p.ProfilePicture = picture.String

	p.PrepareForAPI()
	return p, nil
}

// Bootstrap creates the admin profile if none exists yet. It runs once at
// process start and is idempotent.
func (s *ProfileService) Bootstrap(username, password string) error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	profile := models.Profile{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hashedPassword),
		Name:         "Admin User",
		Email:        "admin@example.com",
		Role:         "Software Developer",
		Location:     "San Francisco, California",
		Social: models.SocialLinks{
			GitHub:  "https://github.com",
			Twitter: "https://twitter.com",
		},
		Skills: []string{"React", "Node.js", "MongoDB"},
	}
	profile.PrepareForSave()

	stmt, err := s.db.Prepare(`INSERT INTO profiles
		(id, username, password_hash, name, email, role, location, social_json, skills_json, education_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(profile.ID, profile.Username, profile.PasswordHash,
		profile.Name, profile.Email, profile.Role, profile.Location,
		profile.SocialJSON, profile.SkillsJSON, profile.EducationJSON)
	return err
}

// ProfileExists reports whether a profile with the given id is stored.
func (s *ProfileService) ProfileExists(id string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM profiles WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// getSingleton retrieves the one profile row, password hash included.
func (s *ProfileService) getSingleton() (models.Profile, error) {
	row := s.db.QueryRow("SELECT " + profileColumns + " FROM profiles LIMIT 1")
	profile, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Profile{}, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return models.Profile{}, err
	}
	return profile, nil
}

// getByID retrieves a profile by id, password hash included.
func (s *ProfileService) getByID(id string) (models.Profile, error) {
	row := s.db.QueryRow("SELECT "+profileColumns+" FROM profiles WHERE id = ?", id)
	profile, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Profile{}, fmt.Errorf("profile %s: %w", id, ErrNotFound)
		}
		return models.Profile{}, err
	}
	return profile, nil
}

// GetPublicProfile returns the singleton profile with the password hash
// stripped, for anonymous callers.
func (s *ProfileService) GetPublicProfile() (models.Profile, error) {
	profile, err := s.getSingleton()
	if err != nil {
		return models.Profile{}, err
	}
	return profile.Sanitized(), nil
}

// GetOwnProfile returns the authenticated caller's profile, sanitized.
func (s *ProfileService) GetOwnProfile(callerID string) (models.Profile, error) {
	profile, err := s.getByID(callerID)
	if err != nil {
		return models.Profile{}, err
	}
	return profile.Sanitized(), nil
}

// Authenticate verifies the admin credentials and returns the sanitized
// profile. Both unknown usernames and wrong passwords yield the same error.
func (s *ProfileService) Authenticate(username, password string) (models.Profile, error) {
	row := s.db.QueryRow("SELECT "+profileColumns+" FROM profiles WHERE username = ?", username)
	profile, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Profile{}, fmt.Errorf("authentication failed: %w", ErrUnauthenticated)
		}
		return models.Profile{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return models.Profile{}, fmt.Errorf("authentication failed: %w", ErrUnauthenticated)
	}
	return profile.Sanitized(), nil
}

// UpdateProfile merges the provided fields into the stored profile.
// Omitted fields are left untouched.
func (s *ProfileService) UpdateProfile(callerID string, patch models.ProfilePatch) (models.Profile, error) {
	profile, err := s.getByID(callerID)
	if err != nil {
		return models.Profile{}, err
	}

	patch.Apply(&profile)
	profile.PrepareForSave()

	stmt, err := s.db.Prepare(`UPDATE profiles SET
		name = ?, email = ?, role = ?, location = ?,
		social_json = ?, skills_json = ?, education_json = ?, resume_url = ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`)
	if err != nil {
		return models.Profile{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(profile.Name, profile.Email, profile.Role, profile.Location,
		profile.SocialJSON, profile.SkillsJSON, profile.EducationJSON, profile.ResumeURL,
		callerID)
	if err != nil {
		return models.Profile{}, err
	}
	return s.GetOwnProfile(callerID)
}

// UpdateCredentials changes the admin username and/or password. A wrong
// current password or a username collision rejects the whole update with
// nothing mutated.
func (s *ProfileService) UpdateCredentials(callerID string, update CredentialsUpdate) (models.Profile, error) {
	profile, err := s.getByID(callerID)
	if err != nil {
		return models.Profile{}, err
	}

	newHash := profile.PasswordHash
	if update.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(update.CurrentPassword)); err != nil {
			return models.Profile{}, fmt.Errorf("current password does not match: %w", ErrInvalidCredential)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return models.Profile{}, fmt.Errorf("failed to hash new password: %w", err)
		}
		newHash = string(hashed)
	}

	newUsername := profile.Username
	if update.Username != nil && *update.Username != profile.Username {
		if *update.Username == "" {
			return models.Profile{}, fmt.Errorf("username must not be empty: %w", ErrBadRequest)
		}
		var count int
		err := s.db.QueryRow("SELECT COUNT(*) FROM profiles WHERE username = ? AND id != ?",
			*update.Username, callerID).Scan(&count)
		if err != nil {
			return models.Profile{}, err
		}
		if count > 0 {
			return models.Profile{}, fmt.Errorf("username %q is taken: %w", *update.Username, ErrConflict)
		}
		newUsername = *update.Username
	}

	_, err = s.db.Exec("UPDATE profiles SET username = ?, password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		newUsername, newHash, callerID)
	if err != nil {
		return models.Profile{}, err
	}
	return s.GetOwnProfile(callerID)
}

// SetProfilePicture patches the profile picture URL after an upload.
func (s *ProfileService) SetProfilePicture(callerID, url string) (models.Profile, error) {
	return s.setURLField(callerID, "profile_picture", url)
}

// SetResumeURL patches the resume URL after an upload.
func (s *ProfileService) SetResumeURL(callerID, url string) (models.Profile, error) {
	return s.setURLField(callerID, "resume_url", url)
}

func (s *ProfileService) setURLField(callerID, column, url string) (models.Profile, error) {
	if _, err := s.getByID(callerID); err != nil {
		return models.Profile{}, err
	}
	_, err := s.db.Exec("UPDATE profiles SET "+column+" = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", url, callerID)
	if err != nil {
		return models.Profile{}, err
	}
	return s.GetOwnProfile(callerID)
}
