// Package uploads stores multipart file payloads under a base directory
// and enforces the per-kind validation policy (extension, declared MIME,
// size) before anything touches disk.
package uploads

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rmarin/portfolio-be/internal/services"
)

// Kind identifies the semantic field a file is bound to.
type Kind string

const (
	KindProfileImage Kind = "profileImage"
	KindProjectImage Kind = "projectImage"
	KindResume       Kind = "resume"
)

// policy is the validation rule set for one upload kind.
type policy struct {
	subdir   string
	prefix   string
	exts     map[string]bool
	mimes    map[string]bool // nil disables the declared-MIME check
	maxBytes int64
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

var imageMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var resumeExts = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

// Store writes validated uploads to disk and hands back stable URLs.
type Store struct {
	baseDir  string
	policies map[Kind]policy
}

// NewStore creates a Store rooted at baseDir. Size limits are in MiB.
func NewStore(baseDir string, maxImageMB, maxResumeMB int64) *Store {
	return &Store{
		baseDir: baseDir,
		policies: map[Kind]policy{
			KindProfileImage: {subdir: "profile", prefix: "profile", exts: imageExts, mimes: imageMimes, maxBytes: maxImageMB << 20},
			KindProjectImage: {subdir: "projects", prefix: "project", exts: imageExts, mimes: imageMimes, maxBytes: maxImageMB << 20},
			KindResume:       {subdir: "resume", prefix: "resume", exts: resumeExts, maxBytes: maxResumeMB << 20},
		},
	}
}

// Save validates and persists a single file, returning the URL path it
// will be served from. Only the sanitized extension of the caller's
// filename survives into the stored name.
func (s *Store) Save(kind Kind, originalName, declaredMime string, size int64, r io.Reader) (string, error) {
	pol, ok := s.policies[kind]
	if !ok {
		return "", fmt.Errorf("unknown upload kind %q: %w", kind, services.ErrBadRequest)
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if !pol.exts[ext] {
		return "", fmt.Errorf("file extension %q not allowed for %s: %w", ext, kind, services.ErrUnsupportedMediaType)
	}
	if pol.mimes != nil && !pol.mimes[declaredMime] {
		return "", fmt.Errorf("content type %q not allowed for %s: %w", declaredMime, kind, services.ErrUnsupportedMediaType)
	}
	if size > pol.maxBytes {
		return "", fmt.Errorf("file of %d bytes exceeds the %d byte limit: %w", size, pol.maxBytes, services.ErrPayloadTooLarge)
	}

	dir := filepath.Join(s.baseDir, pol.subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	// Timestamp plus a random component keeps names collision-resistant
	// and independent of the caller-supplied filename.
	name := fmt.Sprintf("%s-%d-%d%s", pol.prefix, time.Now().UnixNano(), rand.Intn(1_000_000_000), ext)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	// The declared size is checked above; the copy is still capped in case
	// the stream disagrees with the header.
	written, err := io.Copy(f, io.LimitReader(r, pol.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	if written > pol.maxBytes {
		os.Remove(path)
		return "", fmt.Errorf("file stream exceeds the %d byte limit: %w", pol.maxBytes, services.ErrPayloadTooLarge)
	}

	return "/uploads/" + pol.subdir + "/" + name, nil
}
