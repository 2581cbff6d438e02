package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/patrickmn/go-cache"

	"github.com/rmarin/portfolio-be/internal/services"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a service error to its HTTP status. Anything
// outside the taxonomy is treated as a persistence or downstream failure.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusServiceUnavailable
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrBadRequest), errors.Is(err, services.ErrInvalidCredential):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrUnsupportedMediaType):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, services.ErrPayloadTooLarge):
		status = http.StatusRequestEntityTooLarge
	}
	http.Error(w, err.Error(), status)
}

// getCachedData serves public reads through the shared cache, fetching on
// a miss.
func getCachedData(c *cache.Cache, key string, fetch func() (interface{}, error)) (interface{}, error) {
	if c != nil {
		if data, found := c.Get(key); found {
			return data, nil
		}
	}

	data, err := fetch()
	if err != nil {
		return nil, err
	}
	if c != nil {
		c.Set(key, data, cache.DefaultExpiration)
	}
	return data, nil
}
