package model

type Clinician struct {
	Base
	Name         string `db:"name" json:"name"`
	DepartmentID int64  `db:"department_id" json:"department"`
}

type CreateClinicianRequest struct {
	Name         string `json:"name" form:"name" binding:"required,max=255"`
	DepartmentID int64  `json:"department" form:"department" binding:"required,gt=0"`
}

// ClinicianFilters narrows clinician listings.
type ClinicianFilters struct {
	DepartmentID int64
}
