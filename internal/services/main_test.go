package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmarin/portfolio-be/internal/database"
	"github.com/rmarin/portfolio-be/internal/models"
)

// newTestDB returns a migrated in-memory database. A single connection is
// enforced so every query sees the same memory store.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// newTestProfile bootstraps the admin profile and returns it.
func newTestProfile(t *testing.T, db *sql.DB) models.Profile {
	t.Helper()

	svc := NewProfileService(db)
	require.NoError(t, svc.Bootstrap("admin", "admin123"))

	profile, err := svc.GetPublicProfile()
	require.NoError(t, err)
	return profile
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
