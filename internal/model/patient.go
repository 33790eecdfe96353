package model

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type Patient struct {
	Base
	Name        string `db:"name" json:"name"`
	Gender      Gender `db:"gender" json:"gender"`
	Email       string `db:"email" json:"email"`
	DateOfBirth Date   `db:"date_of_birth" json:"date_of_birth"`
}

// PatientRequest is the body of both create and full-replace updates.
type PatientRequest struct {
	Name        string `json:"name" form:"name" binding:"required,max=255"`
	Email       string `json:"email" form:"email" binding:"required,email,max=254"`
	Gender      Gender `json:"gender" form:"gender" binding:"required,gender"`
	DateOfBirth Date   `json:"date_of_birth" form:"date_of_birth"`
}

type PatientFilters struct {
	SearchTerm string
	Pagination
}

type PatientPage struct {
	Count    int        `json:"count"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Results  []*Patient `json:"results"`
}

// PatientClinician is a row of the patient/clinician association table.
type PatientClinician struct {
	PatientID   int64 `db:"patient_id"`
	ClinicianID int64 `db:"clinician_id"`
}
