package patient

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/lookup"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

// Service is the patient behaviour the handler depends on.
type Service interface {
	CreatePatient(ctx context.Context, req *model.PatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, id int64) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id int64, req *model.PatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id int64) error
	ListPatients(ctx context.Context, search string, page model.Pagination) (*model.PatientPage, error)
	AssignProcedure(ctx context.Context, patientID int64, req *model.AssignProcedureRequest) (*model.ProcedureAssignment, error)
	ListProcedures(ctx context.Context, patientID int64) ([]*model.Procedure, error)
	AddClinician(ctx context.Context, patientID, clinicianID int64) error
	RemoveClinician(ctx context.Context, patientID, clinicianID int64) error
	ListClinicians(ctx context.Context, patientID int64) ([]*model.Clinician, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)

		patients.POST("/:id/assign_procedure", h.AssignProcedure)
		patients.GET("/:id/procedures", h.ListProcedures)

		patients.GET("/:id/clinicians", h.ListClinicians)
		patients.PUT("/:id/clinicians/:clinician_id", h.AddClinician)
		patients.DELETE("/:id/clinicians/:clinician_id", h.RemoveClinician)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.PatientRequest
	if err := httputil.Bind(c, &req); err != nil {
		httputil.Fail(c, err)
		return
	}

	patient, err := h.service.CreatePatient(c.Request.Context(), &req)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.Created(c, patient)
}

func (h *Handler) ListPatients(c *gin.Context) {
	page, err := httputil.Pagination(c)
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	result, err := h.service.ListPatients(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, result)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := lookup.ParseID(lookup.KindPatient, c.Param("id"))
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	patient, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, patient)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := lookup.ParseID(lookup.KindPatient, c.Param("id"))
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	var req model.PatientRequest
	if err := httputil.Bind(c, &req); err != nil {
		httputil.Fail(c, err)
		return
	}

	patient, err := h.service.UpdatePatient(c.Request.Context(), id, &req)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, patient)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := lookup.ParseID(lookup.KindPatient, c.Param("id"))
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	if err := h.service.DeletePatient(c.Request.Context(), id); err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.NoContent(c)
}

// AssignProcedure decodes the body without validation tags: the service
// reports missing fields together and only after the patient is known.
func (h *Handler) AssignProcedure(c *gin.Context) {
	id, err := lookup.ParseID(lookup.KindPatient, c.Param("id"))
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	var req model.AssignProcedureRequest
	if err := httputil.BindOptional(c, &req); err != nil {
		httputil.Fail(c, err)
		return
	}

	assignment, err := h.service.AssignProcedure(c.Request.Context(), id, &req)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.Created(c, assignment)
}

func (h *Handler) ListProcedures(c *gin.Context) {
	id, err := lookup.ParseID(lookup.KindPatient, c.Param("id"))
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	procedures, err := h.service.ListProcedures(c.Request.Context(), id)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, procedures)
}

func (h *Handler) ListClinicians(c *gin.Context) {
	id, err := lookup.ParseID(lookup.KindPatient, c.Param("id"))
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	clinicians, err := h.service.ListClinicians(c.Request.Context(), id)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, clinicians)
}

func (h *Handler) AddClinician(c *gin.Context) {
	patientID, clinicianID, err := careTeamIDs(c)
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	if err := h.service.AddClinician(c.Request.Context(), patientID, clinicianID); err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.NoContent(c)
}

func (h *Handler) RemoveClinician(c *gin.Context) {
	patientID, clinicianID, err := careTeamIDs(c)
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	if err := h.service.RemoveClinician(c.Request.Context(), patientID, clinicianID); err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.NoContent(c)
}

func careTeamIDs(c *gin.Context) (int64, int64, error) {
	patientID, err := lookup.ParseID(lookup.KindPatient, c.Param("id"))
	if err != nil {
		return 0, 0, err
	}
	clinicianID, err := lookup.ParseID(lookup.KindClinician, c.Param("clinician_id"))
	if err != nil {
		return 0, 0, err
	}
	return patientID, clinicianID, nil
}
