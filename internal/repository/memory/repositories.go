package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jwalitptl/hospital-api/internal/model"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func now() time.Time {
	return time.Now().UTC()
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// departments

type departmentRepository struct {
	s *Store
}

func (r *departmentRepository) Create(ctx context.Context, department *model.Department) error {
	return r.s.write(func(st *state) error {
		st.seq.departments++
		department.ID = st.seq.departments
		department.CreatedAt = now()
		department.UpdatedAt = department.CreatedAt
		st.departments[department.ID] = *department
		return nil
	})
}

func (r *departmentRepository) Get(ctx context.Context, id int64) (*model.Department, error) {
	var out *model.Department
	err := r.s.read(func(st *state) error {
		d, ok := st.departments[id]
		if !ok {
			return apperrors.NewNotFound("Department")
		}
		out = &d
		return nil
	})
	return out, err
}

func (r *departmentRepository) List(ctx context.Context) ([]*model.Department, error) {
	out := []*model.Department{}
	err := r.s.read(func(st *state) error {
		for _, id := range sortedIDs(st.departments) {
			d := st.departments[id]
			out = append(out, &d)
		}
		return nil
	})
	return out, err
}

func (r *departmentRepository) FindByName(ctx context.Context, name string) (*model.Department, error) {
	var out *model.Department
	err := r.s.read(func(st *state) error {
		for _, id := range sortedIDs(st.departments) {
			if d := st.departments[id]; d.Name == name {
				out = &d
				return nil
			}
		}
		return apperrors.NewNotFound("Department")
	})
	return out, err
}

func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.departments[id]; !ok {
			return apperrors.NewNotFound("Department")
		}
		for _, c := range st.clinicians {
			if c.DepartmentID == id {
				return fmt.Errorf("department %d is still referenced by clinician %d", id, c.ID)
			}
		}
		delete(st.departments, id)
		return nil
	})
}

// clinicians

type clinicianRepository struct {
	s *Store
}

func (r *clinicianRepository) Create(ctx context.Context, clinician *model.Clinician) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.departments[clinician.DepartmentID]; !ok {
			return fmt.Errorf("failed to create clinician: department %d does not exist", clinician.DepartmentID)
		}
		st.seq.clinicians++
		clinician.ID = st.seq.clinicians
		clinician.CreatedAt = now()
		clinician.UpdatedAt = clinician.CreatedAt
		st.clinicians[clinician.ID] = *clinician
		return nil
	})
}

func (r *clinicianRepository) Get(ctx context.Context, id int64) (*model.Clinician, error) {
	var out *model.Clinician
	err := r.s.read(func(st *state) error {
		c, ok := st.clinicians[id]
		if !ok {
			return apperrors.NewNotFound("Clinician")
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *clinicianRepository) List(ctx context.Context, filters *model.ClinicianFilters) ([]*model.Clinician, error) {
	out := []*model.Clinician{}
	err := r.s.read(func(st *state) error {
		for _, id := range sortedIDs(st.clinicians) {
			c := st.clinicians[id]
			if filters != nil && filters.DepartmentID != 0 && c.DepartmentID != filters.DepartmentID {
				continue
			}
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *clinicianRepository) FindByName(ctx context.Context, name string, departmentID int64) (*model.Clinician, error) {
	var out *model.Clinician
	err := r.s.read(func(st *state) error {
		for _, id := range sortedIDs(st.clinicians) {
			if c := st.clinicians[id]; c.Name == name && c.DepartmentID == departmentID {
				out = &c
				return nil
			}
		}
		return apperrors.NewNotFound("Clinician")
	})
	return out, err
}

func (r *clinicianRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.clinicians[id]; !ok {
			return apperrors.NewNotFound("Clinician")
		}
		if err := clinicianReferenced(st, id); err != nil {
			return err
		}
		delete(st.clinicians, id)
		return nil
	})
}

func (r *clinicianRepository) DeleteByDepartment(ctx context.Context, departmentID int64) (int64, error) {
	var n int64
	err := r.s.write(func(st *state) error {
		for id, c := range st.clinicians {
			if c.DepartmentID != departmentID {
				continue
			}
			if err := clinicianReferenced(st, id); err != nil {
				return err
			}
			delete(st.clinicians, id)
			n++
		}
		return nil
	})
	return n, err
}

func clinicianReferenced(st *state, id int64) error {
	for _, p := range st.procedures {
		if p.ClinicianID == id {
			return fmt.Errorf("clinician %d is still referenced by procedure %d", id, p.ID)
		}
	}
	for k := range st.careTeams {
		if k.clinicianID == id {
			return fmt.Errorf("clinician %d is still referenced by patient %d", id, k.patientID)
		}
	}
	return nil
}

// patients

type patientRepository struct {
	s *Store
}

func emailTaken(st *state, email string, exceptID int64) bool {
	for _, p := range st.patients {
		if p.ID != exceptID && p.Email == email {
			return true
		}
	}
	return false
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return r.s.write(func(st *state) error {
		if emailTaken(st, patient.Email, 0) {
			return apperrors.NewConflict("patient with this email already exists", nil)
		}
		st.seq.patients++
		patient.ID = st.seq.patients
		patient.CreatedAt = now()
		patient.UpdatedAt = patient.CreatedAt
		st.patients[patient.ID] = *patient
		return nil
	})
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	var out *model.Patient
	err := r.s.read(func(st *state) error {
		p, ok := st.patients[id]
		if !ok {
			return apperrors.NewNotFound("Patient")
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	var out *model.Patient
	err := r.s.read(func(st *state) error {
		for _, p := range st.patients {
			if p.Email == email {
				out = &p
				return nil
			}
		}
		return apperrors.NewNotFound("Patient")
	})
	return out, err
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	return r.s.write(func(st *state) error {
		existing, ok := st.patients[patient.ID]
		if !ok {
			return apperrors.NewNotFound("Patient")
		}
		if emailTaken(st, patient.Email, patient.ID) {
			return apperrors.NewConflict("patient with this email already exists", nil)
		}
		patient.CreatedAt = existing.CreatedAt
		patient.UpdatedAt = now()
		st.patients[patient.ID] = *patient
		return nil
	})
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.patients[id]; !ok {
			return apperrors.NewNotFound("Patient")
		}
		for _, p := range st.procedures {
			if p.PatientID == id {
				return fmt.Errorf("patient %d is still referenced by procedure %d", id, p.ID)
			}
		}
		for k := range st.careTeams {
			if k.patientID == id {
				return fmt.Errorf("patient %d is still referenced by clinician %d", id, k.clinicianID)
			}
		}
		delete(st.patients, id)
		return nil
	})
}

func (r *patientRepository) Search(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int, error) {
	page := filters.Pagination.Normalize()
	term := strings.TrimSpace(filters.SearchTerm)

	out := []*model.Patient{}
	total := 0
	err := r.s.read(func(st *state) error {
		offset := page.Offset()
		for _, id := range sortedIDs(st.patients) {
			p := st.patients[id]
			if term != "" && !containsFold(p.Name, term) && !containsFold(p.Email, term) {
				continue
			}
			total++
			if total <= offset || len(out) >= page.PageSize {
				continue
			}
			out = append(out, &p)
		}
		return nil
	})
	return out, total, err
}

// procedures

type procedureRepository struct {
	s *Store
}

func (r *procedureRepository) Create(ctx context.Context, procedure *model.Procedure) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.patients[procedure.PatientID]; !ok {
			return fmt.Errorf("failed to create procedure: patient %d does not exist", procedure.PatientID)
		}
		if _, ok := st.clinicians[procedure.ClinicianID]; !ok {
			return fmt.Errorf("failed to create procedure: clinician %d does not exist", procedure.ClinicianID)
		}
		st.seq.procedures++
		procedure.ID = st.seq.procedures
		procedure.CreatedAt = now()
		procedure.UpdatedAt = procedure.CreatedAt
		st.procedures[procedure.ID] = *procedure
		return nil
	})
}

func (r *procedureRepository) Get(ctx context.Context, id int64) (*model.Procedure, error) {
	var out *model.Procedure
	err := r.s.read(func(st *state) error {
		p, ok := st.procedures[id]
		if !ok {
			return apperrors.NewNotFound("Procedure")
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *procedureRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Procedure, error) {
	out := []*model.Procedure{}
	err := r.s.read(func(st *state) error {
		for _, id := range sortedIDs(st.procedures) {
			if p := st.procedures[id]; p.PatientID == patientID {
				out = append(out, &p)
			}
		}
		return nil
	})
	return out, err
}

func (r *procedureRepository) Find(ctx context.Context, name string, patientID, clinicianID int64) (*model.Procedure, error) {
	var out *model.Procedure
	err := r.s.read(func(st *state) error {
		for _, id := range sortedIDs(st.procedures) {
			p := st.procedures[id]
			if p.Name == name && p.PatientID == patientID && p.ClinicianID == clinicianID {
				out = &p
				return nil
			}
		}
		return apperrors.NewNotFound("Procedure")
	})
	return out, err
}

func (r *procedureRepository) DeleteByPatient(ctx context.Context, patientID int64) (int64, error) {
	var n int64
	err := r.s.write(func(st *state) error {
		for id, p := range st.procedures {
			if p.PatientID == patientID {
				delete(st.procedures, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *procedureRepository) DeleteByClinicians(ctx context.Context, clinicianIDs []int64) (int64, error) {
	ids := idSet(clinicianIDs)
	var n int64
	err := r.s.write(func(st *state) error {
		for id, p := range st.procedures {
			if _, ok := ids[p.ClinicianID]; ok {
				delete(st.procedures, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// care teams

type careTeamRepository struct {
	s *Store
}

func (r *careTeamRepository) Add(ctx context.Context, patientID, clinicianID int64) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.patients[patientID]; !ok {
			return fmt.Errorf("failed to add clinician to care team: patient %d does not exist", patientID)
		}
		if _, ok := st.clinicians[clinicianID]; !ok {
			return fmt.Errorf("failed to add clinician to care team: clinician %d does not exist", clinicianID)
		}
		st.careTeams[careKey{patientID, clinicianID}] = struct{}{}
		return nil
	})
}

func (r *careTeamRepository) Remove(ctx context.Context, patientID, clinicianID int64) error {
	return r.s.write(func(st *state) error {
		delete(st.careTeams, careKey{patientID, clinicianID})
		return nil
	})
}

func (r *careTeamRepository) ListClinicians(ctx context.Context, patientID int64) ([]*model.Clinician, error) {
	out := []*model.Clinician{}
	err := r.s.read(func(st *state) error {
		for _, id := range sortedIDs(st.clinicians) {
			if _, ok := st.careTeams[careKey{patientID, id}]; ok {
				c := st.clinicians[id]
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

func (r *careTeamRepository) DeleteByPatient(ctx context.Context, patientID int64) (int64, error) {
	var n int64
	err := r.s.write(func(st *state) error {
		for k := range st.careTeams {
			if k.patientID == patientID {
				delete(st.careTeams, k)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *careTeamRepository) DeleteByClinicians(ctx context.Context, clinicianIDs []int64) (int64, error) {
	ids := idSet(clinicianIDs)
	var n int64
	err := r.s.write(func(st *state) error {
		for k := range st.careTeams {
			if _, ok := ids[k.clinicianID]; ok {
				delete(st.careTeams, k)
				n++
			}
		}
		return nil
	})
	return n, err
}

// reports

type reportRepository struct {
	s *Store
}

func (r *reportRepository) ProcedureMatches(ctx context.Context, term string) ([]*model.ProcedureMatch, error) {
	out := []*model.ProcedureMatch{}
	err := r.s.read(func(st *state) error {
		for _, id := range sortedIDs(st.procedures) {
			pr := st.procedures[id]
			if !containsFold(pr.Name, term) {
				continue
			}
			p, ok := st.patients[pr.PatientID]
			if !ok {
				continue
			}
			c, ok := st.clinicians[pr.ClinicianID]
			if !ok {
				continue
			}
			out = append(out, &model.ProcedureMatch{
				PatientID:     p.ID,
				PatientName:   p.Name,
				Gender:        p.Gender,
				Email:         p.Email,
				DateOfBirth:   p.DateOfBirth,
				ProcedureID:   pr.ID,
				ProcedureName: pr.Name,
				ProcedureDate: pr.Date,
				ClinicianName: c.Name,
			})
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PatientID != out[j].PatientID {
			return out[i].PatientID < out[j].PatientID
		}
		return out[i].ProcedureID < out[j].ProcedureID
	})
	return out, err
}

func (r *reportRepository) ClinicianPatientCounts(ctx context.Context, departmentID int64) ([]*model.ClinicianPatientCount, error) {
	out := []*model.ClinicianPatientCount{}
	err := r.s.read(func(st *state) error {
		d, ok := st.departments[departmentID]
		if !ok {
			return nil
		}
		for _, id := range sortedIDs(st.clinicians) {
			c := st.clinicians[id]
			if c.DepartmentID != departmentID {
				continue
			}
			count := 0
			for k := range st.careTeams {
				if k.clinicianID == c.ID {
					count++
				}
			}
			out = append(out, &model.ClinicianPatientCount{
				ClinicianID:    c.ID,
				ClinicianName:  c.Name,
				DepartmentName: d.Name,
				PatientCount:   count,
			})
		}
		return nil
	})
	return out, err
}
