package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campushq/studentdesk-backend/internal/model"
)

var (
	ErrDuplicateEmail  = errors.New("student with this email already exists")
	ErrStudentNotFound = errors.New("student not found")
)

// pgUniqueViolation is the Postgres error code for unique-constraint hits.
const pgUniqueViolation = "23505"

const studentColumns = `email, first_name, last_name, phone, street_address, city,
	 province_state, country, postal_code, program, "year", profile_picture_url,
	 created_at, updated_at`

// StudentRepository handles student data access. All statements are
// parameterized and keyed by email.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// Create inserts a new student. Returns ErrDuplicateEmail when a row with
// the same email already exists.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students
		 (email, first_name, last_name, phone, street_address, city, province_state,
		  country, postal_code, program, "year", profile_picture_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at, updated_at`,
		s.Email, s.FirstName, s.LastName, s.Phone, s.StreetAddress, s.City,
		s.ProvinceState, s.Country, s.PostalCode, s.Program, s.Year, s.ProfilePictureURL,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetAll retrieves every student row.
func (r *StudentRepository) GetAll(ctx context.Context) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// GetByEmail retrieves one student or ErrStudentNotFound.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	s := &model.Student{}
	row := r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE email = $1`, email)
	if err := scanStudent(row, s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return s, nil
}

// Update overwrites every mutable column of the row identified by s.Email.
// Returns ErrStudentNotFound when no row matched.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students
		 SET first_name = $1, last_name = $2, phone = $3, street_address = $4,
		     city = $5, province_state = $6, country = $7, postal_code = $8,
		     program = $9, "year" = $10, profile_picture_url = $11,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE email = $12`,
		s.FirstName, s.LastName, s.Phone, s.StreetAddress, s.City,
		s.ProvinceState, s.Country, s.PostalCode, s.Program, s.Year,
		s.ProfilePictureURL, s.Email,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// Delete removes the row for email. Deleting an absent row is not an
// error; the operation is idempotent.
func (r *StudentRepository) Delete(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM students WHERE email = $1`, email)
	return err
}

func scanStudent(row pgx.Row, s *model.Student) error {
	return row.Scan(
		&s.Email, &s.FirstName, &s.LastName, &s.Phone, &s.StreetAddress,
		&s.City, &s.ProvinceState, &s.Country, &s.PostalCode, &s.Program,
		&s.Year, &s.ProfilePictureURL, &s.CreatedAt, &s.UpdatedAt,
	)
}
