package httputil

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

// Fail records err for middleware.ErrorHandler and stops the handler chain.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Bind decodes the request body into obj according to its content type and
// converts decoding and validation failures into validation errors.
func Bind(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBind(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewValidation("request body is required")
		}
		return apperrors.NewValidation(validator.Message(err))
	}
	return nil
}

// BindOptional is Bind for endpoints where an empty body is a valid request
// whose fields are checked later.
func BindOptional(c *gin.Context, obj interface{}) error {
	if c.Request.ContentLength == 0 && c.ContentType() == "" {
		return nil
	}
	if err := c.ShouldBind(obj); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.NewValidation(validator.Message(err))
	}
	return nil
}

// Pagination reads page and page_size from the query string. Absent values
// are left at zero for the service to default.
func Pagination(c *gin.Context) (model.Pagination, error) {
	var p model.Pagination
	var err error
	if raw := c.Query("page"); raw != "" {
		if p.Page, err = strconv.Atoi(raw); err != nil {
			return p, apperrors.NewValidation("page must be an integer")
		}
	}
	if raw := c.Query("page_size"); raw != "" {
		if p.PageSize, err = strconv.Atoi(raw); err != nil {
			return p, apperrors.NewValidation("page_size must be an integer")
		}
	}
	return p, nil
}

// Created writes a 201 with data as the body.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// OK writes a 200 with data as the body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
