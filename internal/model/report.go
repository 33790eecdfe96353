package model

import "time"

// ProcedureMatch is one flat row of the procedure-name join: a matching
// procedure together with its patient and the performing clinician's name.
type ProcedureMatch struct {
	PatientID     int64     `db:"patient_id"`
	PatientName   string    `db:"patient_name"`
	Gender        Gender    `db:"gender"`
	Email         string    `db:"email"`
	DateOfBirth   Date      `db:"date_of_birth"`
	ProcedureID   int64     `db:"procedure_id"`
	ProcedureName string    `db:"procedure_name"`
	ProcedureDate time.Time `db:"procedure_date"`
	ClinicianName string    `db:"clinician_name"`
}

type MatchedProcedure struct {
	ProcedureID   int64     `json:"procedure_id"`
	ProcedureName string    `json:"procedure_name"`
	ProcedureDate time.Time `json:"procedure_date"`
	ClinicianName string    `json:"clinician_name"`
}

type PatientWithProcedures struct {
	PatientID   int64               `json:"patient_id"`
	PatientName string              `json:"patient_name"`
	Gender      Gender              `json:"gender"`
	Email       string              `json:"email"`
	DateOfBirth Date                `json:"date_of_birth"`
	Procedures  []*MatchedProcedure `json:"procedures"`
}

type ClinicianPatientCount struct {
	ClinicianID    int64  `db:"clinician_id" json:"clinician_id"`
	ClinicianName  string `db:"clinician_name" json:"clinician_name"`
	DepartmentName string `db:"department_name" json:"department_name"`
	PatientCount   int    `db:"patient_count" json:"patient_count"`
}
