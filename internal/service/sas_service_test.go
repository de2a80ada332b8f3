package service

import (
	"encoding/base64"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/campushq/studentdesk-backend/internal/config"
)

func testSASService(t *testing.T) *BlobSASService {
	t.Helper()
	cfg := &config.Config{
		AzureStorageAccount:   "teststorage",
		AzureStorageKey:       base64.StdEncoding.EncodeToString([]byte("not-a-real-key")),
		AzureStorageContainer: "profile-pictures",
		SASExpiry:             10 * time.Minute,
	}
	svc, err := NewBlobSASService(cfg)
	if err != nil {
		t.Fatalf("NewBlobSASService: %v", err)
	}
	return svc
}

func TestIssueUploadTargetShape(t *testing.T) {
	svc := testSASService(t)

	target, err := svc.IssueUploadTarget("avatar.png", "image/png")
	if err != nil {
		t.Fatalf("IssueUploadTarget: %v", err)
	}

	if !strings.HasPrefix(target.PublicURL, "https://teststorage.blob.core.windows.net/profile-pictures/") {
		t.Errorf("public URL = %q", target.PublicURL)
	}
	if strings.Contains(target.PublicURL, "?") {
		t.Errorf("public URL carries query parameters: %q", target.PublicURL)
	}
	if !strings.HasSuffix(target.PublicURL, "-avatar.png") {
		t.Errorf("public URL should keep the original filename suffix: %q", target.PublicURL)
	}
	if !strings.HasPrefix(target.UploadURL, target.PublicURL+"?") {
		t.Errorf("upload URL %q should be public URL plus SAS query", target.UploadURL)
	}

	u, err := url.Parse(target.UploadURL)
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if got := q.Get("sp"); got != "cw" {
		t.Errorf("sp = %q, want create+write only", got)
	}
	if q.Get("sig") == "" {
		t.Error("missing signature parameter")
	}

	// Expiry must be roughly ten minutes out.
	se, err := time.Parse(time.RFC3339, q.Get("se"))
	if err != nil {
		t.Fatalf("parse se %q: %v", q.Get("se"), err)
	}
	until := time.Until(se)
	if until < 9*time.Minute || until > 11*time.Minute {
		t.Errorf("expiry %v from now, want ~10m", until)
	}
}

func TestIssueUploadTargetUniqueBlobNames(t *testing.T) {
	svc := testSASService(t)

	a, err := svc.IssueUploadTarget("avatar.png", "image/png")
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.IssueUploadTarget("avatar.png", "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if a.PublicURL == b.PublicURL {
		t.Errorf("two uploads of the same filename share a blob name: %q", a.PublicURL)
	}
}

func TestNewBlobSASServiceRejectsBadKey(t *testing.T) {
	cfg := &config.Config{
		AzureStorageAccount:   "teststorage",
		AzureStorageKey:       "%%% not base64 %%%",
		AzureStorageContainer: "profile-pictures",
		SASExpiry:             10 * time.Minute,
	}
	if _, err := NewBlobSASService(cfg); err == nil {
		t.Fatal("expected error for malformed account key")
	}
}
