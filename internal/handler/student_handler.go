package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campushq/studentdesk-backend/internal/model"
	"github.com/campushq/studentdesk-backend/internal/repository"
	"github.com/campushq/studentdesk-backend/internal/response"
	"github.com/campushq/studentdesk-backend/internal/service"
)

// StudentHandler handles the student CRUD endpoints.
type StudentHandler struct {
	students *service.StudentService
	log      zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(students *service.StudentService, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{students: students, log: log}
}

// CreateStudent godoc
// POST /api/students
// Creates a student from a multipart form. Responds with plain text
// "Missing required field: <name>" (400) when a required field is blank.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	student := &model.Student{
		FirstName:     c.PostForm("first_name"),
		LastName:      c.PostForm("last_name"),
		Phone:         c.PostForm("phone"),
		Email:         c.PostForm("email"),
		StreetAddress: c.PostForm("street_address"),
		City:          c.PostForm("city"),
		ProvinceState: c.PostForm("province_state"),
		Country:       c.PostForm("country"),
		PostalCode:    c.PostForm("postal_code"),
		Program:       c.PostForm("program"),
		Year:          c.PostForm("year"),
	}
	if v := c.PostForm("profile_picture_url"); v != "" {
		student.ProfilePictureURL = &v
	}

	if err := h.students.Create(c.Request.Context(), student); err != nil {
		var missing *service.MissingFieldError
		switch {
		case errors.As(err, &missing):
			response.PlainError(c, http.StatusBadRequest, fmt.Sprintf("Missing required field: %s", missing.Field))
		case errors.Is(err, repository.ErrDuplicateEmail):
			response.PlainError(c, http.StatusConflict, "Student with this email already exists")
		default:
			h.log.Error().Err(err).Str("email", student.Email).Msg("create student failed")
			response.PlainError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.OK(c)
}

// ListStudents godoc
// GET /api/students
// Returns every student as a JSON array.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list students failed")
		response.PlainError(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// GetStudent godoc
// GET /api/students/:email
func (h *StudentHandler) GetStudent(c *gin.Context) {
	email := pathEmail(c)

	student, err := h.students.Get(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			response.PlainError(c, http.StatusNotFound, "Student not found")
			return
		}
		h.log.Error().Err(err).Str("email", email).Msg("get student failed")
		response.PlainError(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// UpdateStudent godoc
// PUT /api/students/:email
// Applies a merge-update: only fields present in the JSON body change,
// and a null profile_picture_url clears the stored photo.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	email := pathEmail(c)

	var req model.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.PlainError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.students.Update(c.Request.Context(), email, req); err != nil {
		switch {
		case errors.Is(err, repository.ErrStudentNotFound):
			response.PlainError(c, http.StatusNotFound, "Student not found")
		case errors.Is(err, repository.ErrDuplicateEmail):
			response.PlainError(c, http.StatusConflict, "Duplicate value violates a unique constraint.")
		default:
			h.log.Error().Err(err).Str("email", email).Msg("update student failed")
			response.PlainError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.OK(c)
}

// DeleteStudent godoc
// DELETE /api/students/:email
// Deleting an absent row still succeeds; the store treats delete as
// idempotent.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	email := pathEmail(c)

	if err := h.students.Delete(c.Request.Context(), email); err != nil {
		h.log.Error().Err(err).Str("email", email).Msg("delete student failed")
		response.PlainError(c, http.StatusInternalServerError, "Delete failed")
		return
	}

	response.OK(c)
}

// pathEmail returns the :email route param, unescaping any URL encoding
// the client applied.
func pathEmail(c *gin.Context) string {
	raw := c.Param("email")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
