package report

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	PatientsByProcedure(ctx context.Context, name string) ([]*model.PatientWithProcedures, error)
	CountsByDepartment(ctx context.Context, rawDepartmentID string) ([]*model.ClinicianPatientCount, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/patients/by_procedure", h.PatientsByProcedure)
	r.GET("/clinician-patient-counts/by_department", h.CountsByDepartment)
}

// PatientsByProcedure lists patients with at least one procedure whose name
// contains procedure_name, each with the matching procedures only.
func (h *Handler) PatientsByProcedure(c *gin.Context) {
	patients, err := h.service.PatientsByProcedure(c.Request.Context(), c.Query("procedure_name"))
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, patients)
}

func (h *Handler) CountsByDepartment(c *gin.Context) {
	counts, err := h.service.CountsByDepartment(c.Request.Context(), c.Query("department_id"))
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, counts)
}
