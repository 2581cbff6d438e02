package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rmarin/portfolio-be/internal/models"
)

func TestBootstrapIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)

	require.NoError(t, svc.Bootstrap("admin", "admin123"))
	require.NoError(t, svc.Bootstrap("admin", "admin123"))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&count))
	require.Equal(t, 1, count)
}

func TestBootstrapSeedsPlaceholderFields(t *testing.T) {
	db := newTestDB(t)
	profile := newTestProfile(t, db)

	require.Equal(t, "admin", profile.Username)
	require.Equal(t, "Admin User", profile.Name)
	require.Equal(t, "Software Developer", profile.Role)
	require.Contains(t, profile.Skills, "React")
}

func TestGetPublicProfileStripsPassword(t *testing.T) {
	db := newTestDB(t)
	newTestProfile(t, db)

	profile, err := NewProfileService(db).GetPublicProfile()
	require.NoError(t, err)
	require.Empty(t, profile.PasswordHash)
}

func TestGetPublicProfileNotFoundBeforeBootstrap(t *testing.T) {
	db := newTestDB(t)

	_, err := NewProfileService(db).GetPublicProfile()
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	newTestProfile(t, db)
	svc := NewProfileService(db)

	profile, err := svc.Authenticate("admin", "admin123")
	require.NoError(t, err)
	require.Equal(t, "admin", profile.Username)
	require.Empty(t, profile.PasswordHash)

	_, err = svc.Authenticate("admin", "wrong")
	require.True(t, errors.Is(err, ErrUnauthenticated))

	_, err = svc.Authenticate("nobody", "admin123")
	require.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestUpdateProfilePartialMerge(t *testing.T) {
	db := newTestDB(t)
	profile := newTestProfile(t, db)
	svc := NewProfileService(db)

	updated, err := svc.UpdateProfile(profile.ID, models.ProfilePatch{
		Name:     strPtr("Jane Doe"),
		Location: strPtr(""),
	})
	require.NoError(t, err)

	require.Equal(t, "Jane Doe", updated.Name)
	require.Equal(t, "", updated.Location, "a present empty field clears the value")
	require.Equal(t, "Software Developer", updated.Role, "omitted fields stay untouched")
	require.Empty(t, updated.PasswordHash)
}

func TestUpdateProfileStructuredFields(t *testing.T) {
	db := newTestDB(t)
	profile := newTestProfile(t, db)
	svc := NewProfileService(db)

	social := models.SocialLinks{GitHub: "https://github.com/janedoe", LinkedIn: "https://linkedin.com/in/janedoe"}
	education := []models.EducationEntry{{Institution: "State University", Degree: "BSc", Year: "2019"}}
	updated, err := svc.UpdateProfile(profile.ID, models.ProfilePatch{
		Social:    &social,
		Education: &education,
		Skills:    &[]string{"Go", "SQLite"},
	})
	require.NoError(t, err)

	require.Equal(t, social, updated.Social)
	require.Equal(t, education, updated.Education)
	require.Equal(t, []string{"Go", "SQLite"}, updated.Skills)
}

func TestUpdateCredentialsWrongCurrentPassword(t *testing.T) {
	db := newTestDB(t)
	profile := newTestProfile(t, db)
	svc := NewProfileService(db)

	_, err := svc.UpdateCredentials(profile.ID, CredentialsUpdate{
		CurrentPassword: "wrong",
		NewPassword:     "newpass",
	})
	require.True(t, errors.Is(err, ErrInvalidCredential))

	// Nothing mutated: the old password still works
	_, err = svc.Authenticate("admin", "admin123")
	require.NoError(t, err)
}

func TestUpdateCredentialsChangesPassword(t *testing.T) {
	db := newTestDB(t)
	profile := newTestProfile(t, db)
	svc := NewProfileService(db)

	_, err := svc.UpdateCredentials(profile.ID, CredentialsUpdate{
		CurrentPassword: "admin123",
		NewPassword:     "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Authenticate("admin", "admin123")
	require.Error(t, err)
	_, err = svc.Authenticate("admin", "s3cret-pass")
	require.NoError(t, err)

	// Plaintext never stored
	var hash string
	require.NoError(t, db.QueryRow("SELECT password_hash FROM profiles WHERE id = ?", profile.ID).Scan(&hash))
	require.NotEqual(t, "s3cret-pass", hash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")))
}

func TestUpdateCredentialsUsernameConflict(t *testing.T) {
	db := newTestDB(t)
	profile := newTestProfile(t, db)
	svc := NewProfileService(db)

	// A second row should not exist in practice, but the uniqueness check
	// still has to hold if it ever does.
	_, err := db.Exec("INSERT INTO profiles (id, username, password_hash) VALUES (?, ?, ?)",
		uuid.New().String(), "taken", "x")
	require.NoError(t, err)

	_, err = svc.UpdateCredentials(profile.ID, CredentialsUpdate{Username: strPtr("taken")})
	require.True(t, errors.Is(err, ErrConflict))

	var username string
	require.NoError(t, db.QueryRow("SELECT username FROM profiles WHERE id = ?", profile.ID).Scan(&username))
	require.Equal(t, "admin", username)
}

func TestUpdateCredentialsUsernameChange(t *testing.T) {
	db := newTestDB(t)
	profile := newTestProfile(t, db)
	svc := NewProfileService(db)

	updated, err := svc.UpdateCredentials(profile.ID, CredentialsUpdate{Username: strPtr("owner")})
	require.NoError(t, err)
	require.Equal(t, "owner", updated.Username)

	_, err = svc.Authenticate("owner", "admin123")
	require.NoError(t, err)
}

func TestSetURLFields(t *testing.T) {
	db := newTestDB(t)
	profile := newTestProfile(t, db)
	svc := NewProfileService(db)

	updated, err := svc.SetProfilePicture(profile.ID, "/uploads/profile/profile-1-2.png")
	require.NoError(t, err)
	require.Equal(t, "/uploads/profile/profile-1-2.png", updated.ProfilePicture)

	updated, err = svc.SetResumeURL(profile.ID, "/uploads/resume/resume-1-2.pdf")
	require.NoError(t, err)
	require.Equal(t, "/uploads/resume/resume-1-2.pdf", updated.ResumeURL)
}

func TestProfileExists(t *testing.T) {
	db := newTestDB(t)
	profile := newTestProfile(t, db)
	svc := NewProfileService(db)

	exists, err := svc.ProfileExists(profile.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = svc.ProfileExists("missing-id")
	require.NoError(t, err)
	require.False(t, exists)
}
