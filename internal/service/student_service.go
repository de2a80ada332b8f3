package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campushq/studentdesk-backend/internal/config"
	"github.com/campushq/studentdesk-backend/internal/model"
)

// studentListTTL bounds how stale the cached list may get if an
// invalidation is ever missed.
const studentListTTL = 60 * time.Second

// MissingFieldError reports the first required field found blank at
// creation time.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// StudentStore is the persistence surface the service needs. Implemented
// by repository.StudentRepository.
type StudentStore interface {
	Create(ctx context.Context, s *model.Student) error
	GetAll(ctx context.Context) ([]model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	Update(ctx context.Context, s *model.Student) error
	Delete(ctx context.Context, email string) error
}

// StudentService handles student business logic: required-field checks,
// year normalization, merge-update flow, and list caching.
type StudentService struct {
	store StudentStore
	rdb   *redis.Client // nil disables caching
	log   zerolog.Logger
}

// NewStudentService creates a new StudentService. rdb may be nil, in
// which case every read goes straight to the store.
func NewStudentService(store StudentStore, rdb *redis.Client, log zerolog.Logger) *StudentService {
	return &StudentService{store: store, rdb: rdb, log: log}
}

// Create validates required fields, normalizes the year, and inserts the
// record. Returns *MissingFieldError for the first blank required field
// (whitespace-only counts as blank) and repository.ErrDuplicateEmail when
// the email is taken.
func (s *StudentService) Create(ctx context.Context, student *model.Student) error {
	for _, f := range student.RequiredFields() {
		if strings.TrimSpace(f.Value) == "" {
			return &MissingFieldError{Field: f.Name}
		}
	}

	student.Year = strings.ToUpper(student.Year)
	if student.ProfilePictureURL != nil && *student.ProfilePictureURL == "" {
		student.ProfilePictureURL = nil // empty means no photo
	}

	if err := s.store.Create(ctx, student); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

// List retrieves every student, serving from the Redis cache when warm.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	key := config.CacheKey.StudentListKey()

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var students []model.Student
			if err := json.Unmarshal(raw, &students); err == nil {
				return students, nil
			}
			// Corrupt entry; fall through to the store.
			s.rdb.Del(ctx, key)
		}
	}

	students, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []model.Student{}
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(students); err == nil {
			if err := s.rdb.Set(ctx, key, raw, studentListTTL).Err(); err != nil {
				s.log.Debug().Err(err).Msg("student list cache write failed")
			}
		}
	}
	return students, nil
}

// Get retrieves one student by email.
func (s *StudentService) Get(ctx context.Context, email string) (*model.Student, error) {
	return s.store.GetByEmail(ctx, email)
}

// Update loads the existing record, merges the partial payload onto it,
// and writes the result back. Returns repository.ErrStudentNotFound when
// no record matches the email.
//
// The read and the write are two independent statements; concurrent
// updates to the same email are last-write-wins.
func (s *StudentService) Update(ctx context.Context, email string, in model.UpdateStudentRequest) error {
	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	merged := model.Merge(*existing, in)
	merged.Year = strings.ToUpper(merged.Year)

	if err := s.store.Update(ctx, &merged); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

// Delete removes a student by email. Absence of a prior row is not an
// error.
func (s *StudentService) Delete(ctx context.Context, email string) error {
	if err := s.store.Delete(ctx, email); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

func (s *StudentService) invalidateList(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.StudentListKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("student list cache invalidation failed")
	}
}
