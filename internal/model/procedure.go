package model

import (
	"encoding/json"
	"time"
)

type Procedure struct {
	Base
	Name        string    `db:"name" json:"name"`
	Date        time.Time `db:"date" json:"date"`
	PatientID   int64     `db:"patient_id" json:"patient"`
	ClinicianID int64     `db:"clinician_id" json:"clinician"`
}

// AssignProcedureRequest is decoded leniently so that the service can report
// every missing field at once instead of failing on the first binding error.
type AssignProcedureRequest struct {
	Name      string      `json:"name" form:"name"`
	Date      string      `json:"date" form:"date"`
	Clinician json.Number `json:"clinician" form:"clinician"`
}

// ProcedureAssignment is the response of a successful assignment.
type ProcedureAssignment struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	Patient   int64     `json:"patient"`
	Clinician int64     `json:"clinician"`
}

func NewProcedureAssignment(p *Procedure) *ProcedureAssignment {
	return &ProcedureAssignment{
		ID:        p.ID,
		Name:      p.Name,
		Date:      p.Date,
		Patient:   p.PatientID,
		Clinician: p.ClinicianID,
	}
}
