package storage

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func newMemStore() *FileStore {
	return NewFileStore(afero.NewMemMapFs(), "uploads", "test-secret")
}

func TestUploadDownloadRemove(t *testing.T) {
	s := newMemStore()

	stored, err := s.Upload("u-1/doc-1/w2.pdf", []byte("payload"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if stored != "u-1/doc-1/w2.pdf" {
		t.Fatalf("unexpected stored path %q", stored)
	}

	data, err := s.Download(stored)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected bytes %q", data)
	}

	if err := s.Remove(stored); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Download(stored); err == nil {
		t.Fatal("expected download after remove to fail")
	}
}

func parseSigned(t *testing.T, signed string) (objectPath, expires, signature string) {
	t.Helper()
	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse signed url: %v", err)
	}
	return strings.TrimPrefix(u.Path, "/api/files/"), u.Query().Get("expires"), u.Query().Get("signature")
}

func TestSignedURLRoundTrip(t *testing.T) {
	s := newMemStore()

	signed, err := s.CreateSignedURL("u-1/doc-1/w2.pdf", 5*time.Minute)
	if err != nil {
		t.Fatalf("create signed url: %v", err)
	}
	objectPath, expires, signature := parseSigned(t, signed)

	if err := s.VerifySignedURL(objectPath, expires, signature); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestSignedURLTampered(t *testing.T) {
	s := newMemStore()

	signed, err := s.CreateSignedURL("u-1/doc-1/w2.pdf", 5*time.Minute)
	if err != nil {
		t.Fatalf("create signed url: %v", err)
	}
	objectPath, expires, signature := parseSigned(t, signed)

	// Pointing the token at a different object must fail.
	if err := s.VerifySignedURL("u-2/doc-9/secret.pdf", expires, signature); err != ErrBadSignature {
		t.Fatalf("expected ErrBadSignature for swapped path, got %v", err)
	}
	// Garbage signature must fail.
	if err := s.VerifySignedURL(objectPath, expires, "deadbeef"); err != ErrBadSignature {
		t.Fatalf("expected ErrBadSignature for bad signature, got %v", err)
	}
	// A token minted with another secret must fail.
	other := NewFileStore(afero.NewMemMapFs(), "uploads", "other-secret")
	if err := other.VerifySignedURL(objectPath, expires, signature); err != ErrBadSignature {
		t.Fatalf("expected ErrBadSignature across secrets, got %v", err)
	}
}

func TestSignedURLExpiry(t *testing.T) {
	s := newMemStore()

	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return base }
	defer func() { now = time.Now }()

	signed, err := s.CreateSignedURL("u-1/doc-1/w2.pdf", time.Minute)
	if err != nil {
		t.Fatalf("create signed url: %v", err)
	}
	objectPath, expires, signature := parseSigned(t, signed)

	if err := s.VerifySignedURL(objectPath, expires, signature); err != nil {
		t.Fatalf("verify before expiry: %v", err)
	}

	now = func() time.Time { return base.Add(2 * time.Minute) }
	if err := s.VerifySignedURL(objectPath, expires, signature); err != ErrBadSignature {
		t.Fatalf("expected ErrBadSignature after expiry, got %v", err)
	}

	if err := s.VerifySignedURL(objectPath, "not-a-number", signature); err != ErrBadSignature {
		t.Fatalf("expected ErrBadSignature for malformed expiry, got %v", err)
	}
}
