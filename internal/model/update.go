package model

import "encoding/json"

// OptionalString is a JSON field that distinguishes three states:
// absent from the payload, explicit null, and a set string value.
// The zero value means absent; UnmarshalJSON is only invoked for keys
// that appear in the payload.
type OptionalString struct {
	Present bool
	Value   *string
}

// Set returns an OptionalString carrying v.
func Set(v string) OptionalString {
	return OptionalString{Present: true, Value: &v}
}

// Null returns an OptionalString carrying an explicit null.
func Null() OptionalString {
	return OptionalString{Present: true}
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// UpdateStudentRequest is a partial-update payload. Fields the caller
// omits keep their stored values. Email is the lookup key and cannot be
// changed through this payload.
type UpdateStudentRequest struct {
	FirstName         OptionalString `json:"first_name"`
	LastName          OptionalString `json:"last_name"`
	Phone             OptionalString `json:"phone"`
	StreetAddress     OptionalString `json:"street_address"`
	City              OptionalString `json:"city"`
	ProvinceState     OptionalString `json:"province_state"`
	Country           OptionalString `json:"country"`
	PostalCode        OptionalString `json:"postal_code"`
	Program           OptionalString `json:"program"`
	Year              OptionalString `json:"year"`
	ProfilePictureURL OptionalString `json:"profile_picture_url"`
}

// Merge computes the record that results from applying a partial update
// to an existing student.
//
// Every field except profile_picture_url keeps the existing value unless
// the payload carries a non-null string; an empty string counts as a real
// replacement. profile_picture_url has three-way semantics: absent keeps
// the stored URL, explicit null clears it (photo removal), and a string
// replaces it.
func Merge(existing Student, in UpdateStudentRequest) Student {
	merged := existing

	keepOrReplace(&merged.FirstName, in.FirstName)
	keepOrReplace(&merged.LastName, in.LastName)
	keepOrReplace(&merged.Phone, in.Phone)
	keepOrReplace(&merged.StreetAddress, in.StreetAddress)
	keepOrReplace(&merged.City, in.City)
	keepOrReplace(&merged.ProvinceState, in.ProvinceState)
	keepOrReplace(&merged.Country, in.Country)
	keepOrReplace(&merged.PostalCode, in.PostalCode)
	keepOrReplace(&merged.Program, in.Program)
	keepOrReplace(&merged.Year, in.Year)

	if in.ProfilePictureURL.Present {
		merged.ProfilePictureURL = in.ProfilePictureURL.Value
	}

	return merged
}

func keepOrReplace(dst *string, in OptionalString) {
	if in.Present && in.Value != nil {
		*dst = *in.Value
	}
}
