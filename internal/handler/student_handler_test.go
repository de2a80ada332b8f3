package handler_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campushq/studentdesk-backend/internal/config"
	"github.com/campushq/studentdesk-backend/internal/handler"
	"github.com/campushq/studentdesk-backend/internal/model"
	"github.com/campushq/studentdesk-backend/internal/repository"
	"github.com/campushq/studentdesk-backend/internal/router"
	"github.com/campushq/studentdesk-backend/internal/service"
	"github.com/campushq/studentdesk-backend/internal/validator"
)

// memStore is an in-memory StudentStore for handler tests.
type memStore struct {
	students map[string]model.Student
}

func newMemStore() *memStore {
	return &memStore{students: make(map[string]model.Student)}
}

func (m *memStore) Create(_ context.Context, s *model.Student) error {
	if _, ok := m.students[s.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	m.students[s.Email] = *s
	return nil
}

func (m *memStore) GetAll(_ context.Context) ([]model.Student, error) {
	var out []model.Student
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	s, ok := m.students[email]
	if !ok {
		return nil, repository.ErrStudentNotFound
	}
	return &s, nil
}

func (m *memStore) Update(_ context.Context, s *model.Student) error {
	if _, ok := m.students[s.Email]; !ok {
		return repository.ErrStudentNotFound
	}
	m.students[s.Email] = *s
	return nil
}

func (m *memStore) Delete(_ context.Context, email string) error {
	delete(m.students, email)
	return nil
}

func newTestRouter(t *testing.T, store service.StudentStore) http.Handler {
	t.Helper()
	validator.Setup()

	log := zerolog.Nop()
	cfg := &config.Config{
		GinMode:               "test",
		AzureStorageAccount:   "teststorage",
		AzureStorageKey:       base64.StdEncoding.EncodeToString([]byte("not-a-real-key")),
		AzureStorageContainer: "profile-pictures",
		SASExpiry:             10 * time.Minute,
	}

	sasService, err := service.NewBlobSASService(cfg)
	if err != nil {
		t.Fatalf("NewBlobSASService: %v", err)
	}

	handlers := &router.Handlers{
		Student: handler.NewStudentHandler(service.NewStudentService(store, nil, log), log),
		Blob:    handler.NewBlobHandler(sasService, log),
	}
	return router.SetupRouter(handlers, cfg)
}

func studentForm() map[string]string {
	return map[string]string{
		"first_name":     "Ann",
		"last_name":      "Smith",
		"phone":          "5551234567",
		"email":          "a@b.com",
		"street_address": "12 Main St",
		"city":           "Calgary",
		"province_state": "AB",
		"country":        "Canada",
		"postal_code":    "T2N 1N4",
		"program":        "CS",
		"year":           "y2",
	}
}

func postMultipart(t *testing.T, h http.Handler, path string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body strings.Builder
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body.String()))
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateStudent(t *testing.T) {
	store := newMemStore()
	h := newTestRouter(t, store)

	rec := postMultipart(t, h, "/api/students", studentForm())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if got := store.students["a@b.com"].Year; got != "Y2" {
		t.Errorf("stored year = %q, want normalized Y2", got)
	}
}

func TestCreateStudentMissingField(t *testing.T) {
	h := newTestRouter(t, newMemStore())

	fields := studentForm()
	fields["postal_code"] = "   "
	rec := postMultipart(t, h, "/api/students", fields)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "Missing required field: postal_code" {
		t.Errorf("body = %q", got)
	}
}

func TestCreateStudentDuplicateEmail(t *testing.T) {
	h := newTestRouter(t, newMemStore())

	if rec := postMultipart(t, h, "/api/students", studentForm()); rec.Code != http.StatusOK {
		t.Fatalf("first create: %d", rec.Code)
	}
	rec := postMultipart(t, h, "/api/students", studentForm())
	if rec.Code != http.StatusConflict {
		t.Fatalf("second create status = %d, want 409", rec.Code)
	}
}

func TestListStudents(t *testing.T) {
	h := newTestRouter(t, newMemStore())

	// Empty list is an empty JSON array, not null.
	rec := doJSON(t, h, http.MethodGet, "/api/students", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("empty list body = %q", got)
	}

	postMultipart(t, h, "/api/students", studentForm())
	rec = doJSON(t, h, http.MethodGet, "/api/students", "")

	var students []model.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &students); err != nil {
		t.Fatal(err)
	}
	if len(students) != 1 || students[0].Email != "a@b.com" {
		t.Errorf("students = %+v", students)
	}
}

func TestGetStudentByEmail(t *testing.T) {
	h := newTestRouter(t, newMemStore())
	postMultipart(t, h, "/api/students", studentForm())

	// Encoded emails must resolve to the same record.
	rec := doJSON(t, h, http.MethodGet, "/api/students/"+url.PathEscape("a@b.com"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/students/missing@x.com", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "Student not found" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestUpdateStudentNotFound(t *testing.T) {
	h := newTestRouter(t, newMemStore())

	rec := doJSON(t, h, http.MethodPut, "/api/students/missing@x.com", `{"first_name":"Bea"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "Student not found" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestUpdateStudentMergesAndClearsPhoto(t *testing.T) {
	store := newMemStore()
	h := newTestRouter(t, store)
	postMultipart(t, h, "/api/students", studentForm())

	// Set a photo through the normal update path.
	rec := doJSON(t, h, http.MethodPut, "/api/students/a@b.com",
		`{"profile_picture_url":"https://acct.blob.core.windows.net/pics/p.jpg"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set photo status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if store.students["a@b.com"].ProfilePictureURL == nil {
		t.Fatal("photo not stored")
	}

	// Partial update leaves the photo alone.
	rec = doJSON(t, h, http.MethodPut, "/api/students/a@b.com", `{"city":"Toronto"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("merge status = %d", rec.Code)
	}
	got := store.students["a@b.com"]
	if got.City != "Toronto" || got.FirstName != "Ann" {
		t.Errorf("merged record = %+v", got)
	}
	if got.ProfilePictureURL == nil {
		t.Error("photo cleared by a payload that omitted it")
	}

	// Explicit null clears the photo.
	rec = doJSON(t, h, http.MethodPut, "/api/students/a@b.com", `{"profile_picture_url":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}
	if store.students["a@b.com"].ProfilePictureURL != nil {
		t.Error("photo not cleared by explicit null")
	}
}

func TestDeleteStudent(t *testing.T) {
	store := newMemStore()
	h := newTestRouter(t, store)
	postMultipart(t, h, "/api/students", studentForm())

	rec := doJSON(t, h, http.MethodDelete, "/api/students/a@b.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(store.students) != 0 {
		t.Error("row not deleted")
	}

	// Deleting again still reports success.
	rec = doJSON(t, h, http.MethodDelete, "/api/students/a@b.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat delete status = %d", rec.Code)
	}
}

func TestCreateUploadTarget(t *testing.T) {
	h := newTestRouter(t, newMemStore())

	rec := doJSON(t, h, http.MethodPost, "/api/blob-sas",
		`{"filename":"avatar.png","contentType":"image/png"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var target struct {
		UploadURL string `json:"uploadUrl"`
		PublicURL string `json:"publicUrl"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &target); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(target.UploadURL, target.PublicURL+"?") {
		t.Errorf("uploadUrl = %q, publicUrl = %q", target.UploadURL, target.PublicURL)
	}
}

func TestCreateUploadTargetRejectsMissingFields(t *testing.T) {
	h := newTestRouter(t, newMemStore())

	rec := doJSON(t, h, http.MethodPost, "/api/blob-sas", `{"filename":"avatar.png"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
