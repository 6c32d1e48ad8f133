// Package storage is the object store behind document uploads: raw bytes on
// an afero filesystem plus HMAC-signed, time-limited download URLs.
package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/spf13/afero"
)

// ErrBadSignature is returned when a signed URL token fails verification.
var ErrBadSignature = errors.New("storage: invalid or expired signature")

// now is a small indirection to allow test stubbing.
var now = time.Now

// ObjectStore is the file-side contract the document service depends on.
type ObjectStore interface {
	Upload(objectPath string, data []byte) (string, error)
	Download(objectPath string) ([]byte, error)
	Remove(objectPath string) error
	CreateSignedURL(objectPath string, ttl time.Duration) (string, error)
	VerifySignedURL(objectPath, expires, signature string) error
}

// FileStore keeps objects on an afero filesystem under a base directory and
// signs download tokens with an HMAC secret.
type FileStore struct {
	fs      afero.Fs
	baseDir string
	secret  []byte
}

// NewFileStore constructs a FileStore over fs rooted at baseDir.
func NewFileStore(fs afero.Fs, baseDir string, secret string) *FileStore {
	return &FileStore{fs: fs, baseDir: baseDir, secret: []byte(secret)}
}

// Upload writes data under objectPath and returns the stored path.
func (s *FileStore) Upload(objectPath string, data []byte) (string, error) {
	full := path.Join(s.baseDir, objectPath)
	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := afero.WriteFile(s.fs, full, data, 0o644); err != nil {
		return "", err
	}
	return objectPath, nil
}

// Download reads the object bytes.
func (s *FileStore) Download(objectPath string) ([]byte, error) {
	return afero.ReadFile(s.fs, path.Join(s.baseDir, objectPath))
}

// Remove deletes the object.
func (s *FileStore) Remove(objectPath string) error {
	return s.fs.Remove(path.Join(s.baseDir, objectPath))
}

// CreateSignedURL returns a relative URL that grants access to objectPath
// until the TTL lapses.
func (s *FileStore) CreateSignedURL(objectPath string, ttl time.Duration) (string, error) {
	expires := strconv.FormatInt(now().Add(ttl).Unix(), 10)
	sig := s.sign(objectPath, expires)
	return fmt.Sprintf("/api/files/%s?expires=%s&signature=%s", objectPath, expires, sig), nil
}

// VerifySignedURL checks the expiry and signature of a download request.
func (s *FileStore) VerifySignedURL(objectPath, expires, signature string) error {
	ts, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || now().After(time.Unix(ts, 0)) {
		return ErrBadSignature
	}
	expected := s.sign(objectPath, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}

func (s *FileStore) sign(objectPath, expires string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(objectPath))
	mac.Write([]byte{'|'})
	mac.Write([]byte(expires))
	return hex.EncodeToString(mac.Sum(nil))
}
