package model

import "time"

// Student represents one student record. Email is the unique external
// identifier; routes and store lookups are keyed by it.
type Student struct {
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Phone             string    `json:"phone"`
	StreetAddress     string    `json:"street_address"`
	City              string    `json:"city"`
	ProvinceState     string    `json:"province_state"`
	Country           string    `json:"country"`
	PostalCode        string    `json:"postal_code"`
	Program           string    `json:"program"`
	Year              string    `json:"year"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RequiredField pairs a form field name with its submitted value, in the
// order the create endpoint reports missing fields.
type RequiredField struct {
	Name  string
	Value string
}

// RequiredFields lists every field that must be non-blank at creation time.
func (s *Student) RequiredFields() []RequiredField {
	return []RequiredField{
		{"first_name", s.FirstName},
		{"last_name", s.LastName},
		{"phone", s.Phone},
		{"email", s.Email},
		{"street_address", s.StreetAddress},
		{"city", s.City},
		{"province_state", s.ProvinceState},
		{"country", s.Country},
		{"postal_code", s.PostalCode},
		{"program", s.Program},
		{"year", s.Year},
	}
}
