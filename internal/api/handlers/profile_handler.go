package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/rmarin/portfolio-be/internal/auth"
	"github.com/rmarin/portfolio-be/internal/models"
	"github.com/rmarin/portfolio-be/internal/services"
	"github.com/rmarin/portfolio-be/internal/uploads"
)

const publicProfileCacheKey = "public:profile"

// ProfileHandler handles HTTP requests for the site profile.
type ProfileHandler struct {
	service services.ProfileServiceProvider
	store   *uploads.Store
	cache   *cache.Cache
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service services.ProfileServiceProvider, store *uploads.Store, c *cache.Cache) *ProfileHandler {
	return &ProfileHandler{service: service, store: store, cache: c}
}

// GetPublic returns the sanitized profile for anonymous callers.
func (h *ProfileHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	data, err := getCachedData(h.cache, publicProfileCacheKey, func() (interface{}, error) {
		return h.service.GetPublicProfile()
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve public profile")
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// GetMe returns the authenticated caller's profile.
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusUnauthorized)
		return
	}

	profile, err := h.service.GetOwnProfile(claims.ProfileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", claims.ProfileID).Msg("Profile from token not found")
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// Update applies a partial profile update.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusUnauthorized)
		return
	}

	var patch models.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.service.UpdateProfile(claims.ProfileID, patch)
	if err != nil {
		log.Error().Err(err).Str("profile_id", claims.ProfileID).Msg("Failed to update profile")
		writeServiceError(w, err)
		return
	}

	h.cache.Delete(publicProfileCacheKey)
	respondJSON(w, http.StatusOK, profile)
}

// UpdateCredentials changes username and/or password.
func (h *ProfileHandler) UpdateCredentials(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusUnauthorized)
		return
	}

	var update services.CredentialsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.service.UpdateCredentials(claims.ProfileID, update)
	if err != nil {
		log.Warn().Err(err).Str("profile_id", claims.ProfileID).Msg("Credentials update rejected")
		writeServiceError(w, err)
		return
	}

	// The public profile includes the username
	h.cache.Delete(publicProfileCacheKey)
	respondJSON(w, http.StatusOK, profile)
}

// UploadImage accepts a multipart profile picture and patches its URL onto
// the profile.
func (h *ProfileHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "image", uploads.KindProfileImage)
}

// UploadResume accepts a multipart resume and patches its URL onto the
// profile.
func (h *ProfileHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "resume", uploads.KindResume)
}

func (h *ProfileHandler) upload(w http.ResponseWriter, r *http.Request, field string, kind uploads.Kind) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusUnauthorized)
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.store.Save(kind, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		log.Warn().Err(err).Str("filename", header.Filename).Msg("Upload rejected")
		writeServiceError(w, err)
		return
	}

	var profile models.Profile
	if kind == uploads.KindResume {
		profile, err = h.service.SetResumeURL(claims.ProfileID, url)
	} else {
		profile, err = h.service.SetProfilePicture(claims.ProfileID, url)
	}
	if err != nil {
		log.Error().Err(err).Str("profile_id", claims.ProfileID).Msg("Failed to record upload on profile")
		writeServiceError(w, err)
		return
	}

	h.cache.Delete(publicProfileCacheKey)
	key := "imageUrl"
	if kind == uploads.KindResume {
		key = "resumeUrl"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		key:    url,
		"user": profile,
	})
}
