package model

type Department struct {
	Base
	Name string `db:"name" json:"name"`
}

type CreateDepartmentRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=255"`
}
