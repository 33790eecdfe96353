package department

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/department"
	"github.com/jwalitptl/hospital-api/internal/service/lookup"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	CreateDepartment(ctx context.Context, req *model.CreateDepartmentRequest) (*model.Department, error)
	GetDepartment(ctx context.Context, id int64) (*model.Department, error)
	ListDepartments(ctx context.Context) ([]*model.Department, error)
	DeleteDepartment(ctx context.Context, id int64) (*department.DeletionSummary, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	departments := r.Group("/departments")
	{
		departments.POST("", h.CreateDepartment)
		departments.GET("", h.ListDepartments)
		departments.GET("/:id", h.GetDepartment)
		departments.DELETE("/:id", h.DeleteDepartment)
	}
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	var req model.CreateDepartmentRequest
	if err := httputil.Bind(c, &req); err != nil {
		httputil.Fail(c, err)
		return
	}

	dept, err := h.service.CreateDepartment(c.Request.Context(), &req)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.Created(c, dept)
}

func (h *Handler) ListDepartments(c *gin.Context) {
	departments, err := h.service.ListDepartments(c.Request.Context())
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, departments)
}

func (h *Handler) GetDepartment(c *gin.Context) {
	id, err := lookup.ParseID(lookup.KindDepartment, c.Param("id"))
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	dept, err := h.service.GetDepartment(c.Request.Context(), id)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, dept)
}

// DeleteDepartment removes the department together with its clinicians and
// everything that references them.
func (h *Handler) DeleteDepartment(c *gin.Context) {
	id, err := lookup.ParseID(lookup.KindDepartment, c.Param("id"))
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	if _, err := h.service.DeleteDepartment(c.Request.Context(), id); err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.NoContent(c)
}
