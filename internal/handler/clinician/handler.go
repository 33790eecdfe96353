package clinician

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/lookup"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	CreateClinician(ctx context.Context, req *model.CreateClinicianRequest) (*model.Clinician, error)
	GetClinician(ctx context.Context, id int64) (*model.Clinician, error)
	ListClinicians(ctx context.Context, filters *model.ClinicianFilters) ([]*model.Clinician, error)
	DeleteClinician(ctx context.Context, id int64) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clinicians := r.Group("/clinicians")
	{
		clinicians.POST("", h.CreateClinician)
		clinicians.GET("", h.ListClinicians)
		clinicians.GET("/:id", h.GetClinician)
		clinicians.DELETE("/:id", h.DeleteClinician)
	}
}

func (h *Handler) CreateClinician(c *gin.Context) {
	var req model.CreateClinicianRequest
	if err := httputil.Bind(c, &req); err != nil {
		httputil.Fail(c, err)
		return
	}

	clinician, err := h.service.CreateClinician(c.Request.Context(), &req)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.Created(c, clinician)
}

func (h *Handler) ListClinicians(c *gin.Context) {
	filters := &model.ClinicianFilters{}
	if raw := c.Query("department_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httputil.Fail(c, apperrors.NewValidation("Invalid department_id"))
			return
		}
		filters.DepartmentID = id
	}

	clinicians, err := h.service.ListClinicians(c.Request.Context(), filters)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, clinicians)
}

func (h *Handler) GetClinician(c *gin.Context) {
	id, err := lookup.ParseID(lookup.KindClinician, c.Param("id"))
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	clinician, err := h.service.GetClinician(c.Request.Context(), id)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, clinician)
}

func (h *Handler) DeleteClinician(c *gin.Context) {
	id, err := lookup.ParseID(lookup.KindClinician, c.Param("id"))
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	if err := h.service.DeleteClinician(c.Request.Context(), id); err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.NoContent(c)
}
