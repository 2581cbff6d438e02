package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/require"

	"github.com/rmarin/portfolio-be/internal/auth"
	"github.com/rmarin/portfolio-be/internal/database"
	"github.com/rmarin/portfolio-be/internal/models"
	"github.com/rmarin/portfolio-be/internal/services"
	"github.com/rmarin/portfolio-be/internal/uploads"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	profileService := services.NewProfileService(db)
	require.NoError(t, profileService.Bootstrap("admin", "admin123"))

	dir := t.TempDir()
	return NewRouter(Deps{
		Tokens:         auth.NewManager("test-secret", time.Hour),
		Profiles:       profileService,
		Skills:         services.NewSkillService(db),
		Projects:       services.NewProjectService(db),
		Contacts:       services.NewContactService(db, nil, "owner@example.com"),
		Uploads:        uploads.NewStore(dir, 5, 10),
		Cache:          cache.New(time.Minute, time.Minute),
		UploadDir:      dir,
		AllowedOrigins: []string{"http://localhost:3000"},
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "admin123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string         `json:"token"`
		User  models.Profile `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginFlow(t *testing.T) {
	router := newTestRouter(t)

	// Wrong password: 401, no token issued
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Correct bootstrap credentials: token accepted by /profile/me
	token := login(t, router)
	rec = doJSON(t, router, http.MethodGet, "/api/v1/profile/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&profile))
	require.Equal(t, "admin", profile["username"])
	require.NotContains(t, profile, "passwordHash")
	require.NotContains(t, profile, "PasswordHash")
}

func TestPublicEndpointsNeedNoAuth(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/v1/profile/public", "/api/v1/projects/", "/api/v1/skills/public"} {
		rec := doJSON(t, router, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, "GET %s", path)
	}
}

func TestProtectedEndpointsRejectAnonymous(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/profile/me"},
		{http.MethodPatch, "/api/v1/profile/"},
		{http.MethodGet, "/api/v1/skills/"},
		{http.MethodPost, "/api/v1/projects/"},
		{http.MethodGet, "/api/v1/contacts/"},
	}
	for _, tc := range cases {
		rec := doJSON(t, router, tc.method, tc.path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestContactLifecycle(t *testing.T) {
	router := newTestRouter(t)

	// Anonymous submission
	rec := doJSON(t, router, http.MethodPost, "/api/v1/contacts/", "", map[string]string{
		"name":    "Ada",
		"email":   "ada@example.com",
		"subject": "Hello",
		"message": "Nice site",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Listed at initial status for the admin
	token := login(t, router)
	rec = doJSON(t, router, http.MethodGet, "/api/v1/contacts/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []models.ContactMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&messages))
	require.Len(t, messages, 1)
	require.Equal(t, models.ContactStatusNew, messages[0].Status)

	// Status change to completed, visible on re-fetch
	rec = doJSON(t, router, http.MethodPatch, "/api/v1/contacts/"+messages[0].ID, token,
		map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/contacts/", token, nil)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&messages))
	require.Equal(t, models.ContactStatusCompleted, messages[0].Status)

	// Garbage status rejected
	rec = doJSON(t, router, http.MethodPatch, "/api/v1/contacts/"+messages[0].ID, token,
		map[string]string{"status": "spam"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectLifecycleWithStringTags(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/projects/", token, map[string]interface{}{
		"title":       "Portfolio",
		"description": "This site",
		"tags":        "go, chi ,sqlite",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var project models.Project
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&project))
	require.Equal(t, []string{"go", "chi", "sqlite"}, project.Tags)

	// The public listing reflects the new project (cache invalidated)
	rec = doJSON(t, router, http.MethodGet, "/api/v1/projects/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var projects []models.Project
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&projects))
	require.Len(t, projects, 1)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/projects/"+project.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/projects/", "", nil)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&projects))
	require.Empty(t, projects)
}

func TestSkillOwnershipOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/skills/", token, map[string]interface{}{
		"name": "Go", "level": 120,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var skill models.Skill
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&skill))
	require.Equal(t, 100, skill.Level, "levels are clamped into range")

	// A token for a non-existent profile is refused by the gate
	strangerToken, err := auth.NewManager("test-secret", time.Hour).
		Generate(models.Profile{ID: "stranger", Username: "stranger"})
	require.NoError(t, err)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/skills/"+skill.ID, strangerToken,
		map[string]interface{}{"level": 1})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The skill is untouched
	rec = doJSON(t, router, http.MethodGet, "/api/v1/skills/", token, nil)
	var skills []models.Skill
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&skills))
	require.Equal(t, 100, skills[0].Level)
}

func multipartBody(t *testing.T, field, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func doUpload(t *testing.T, router http.Handler, path, token, field, filename, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	body, formType := multipartBody(t, field, filename, contentType, "data")
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", formType)
	req.Header.Set(auth.TokenHeader, token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadsRejectExecutables(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	cases := []struct{ path, field string }{
		{"/api/v1/profile/upload-image", "image"},
		{"/api/v1/profile/upload-resume", "resume"},
		{"/api/v1/projects/upload-image", "image"},
	}
	for _, tc := range cases {
		rec := doUpload(t, router, tc.path, token, tc.field, "payload.exe", "image/png")
		require.Equal(t, http.StatusUnsupportedMediaType, rec.Code, "POST %s", tc.path)
	}
}

func TestProfileImageUploadPatchesProfile(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	rec := doUpload(t, router, "/api/v1/profile/upload-image", token, "image", "me.png", "image/png")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ImageURL string         `json:"imageUrl"`
		User     models.Profile `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.ImageURL)
	require.Equal(t, resp.ImageURL, resp.User.ProfilePicture)

	// The uploaded file is served back as static content
	req := httptest.NewRequest(http.MethodGet, resp.ImageURL, nil)
	staticRec := httptest.NewRecorder()
	router.ServeHTTP(staticRec, req)
	require.Equal(t, http.StatusOK, staticRec.Code)
	require.Equal(t, "data", staticRec.Body.String())
}

func TestUsernameChangeVisibleOnPublicProfile(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	// Prime the public-profile cache
	rec := doJSON(t, router, http.MethodGet, "/api/v1/profile/public", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/api/v1/profile/credentials", token, map[string]string{
		"username": "renamed-owner",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The rename invalidates the cached record
	rec = doJSON(t, router, http.MethodGet, "/api/v1/profile/public", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile models.Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&profile))
	require.Equal(t, "renamed-owner", profile.Username)
}

func TestCredentialsUpdateOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	// Wrong current password
	rec := doJSON(t, router, http.MethodPatch, "/api/v1/profile/credentials", token, map[string]string{
		"currentPassword": "nope",
		"newPassword":     "next-pass",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Correct current password
	rec = doJSON(t, router, http.MethodPatch, "/api/v1/profile/credentials", token, map[string]string{
		"currentPassword": "admin123",
		"newPassword":     "next-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "next-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}
