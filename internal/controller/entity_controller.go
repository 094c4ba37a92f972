package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assessly-backend/internal/service"
	"assessly-backend/utilities"
)

// EntityController exposes list/get/create/update/delete for one entity type.
type EntityController[T any] struct {
	Service *service.EntityService[T]
	pager   Pager
	log     *utilities.Logger
}

func NewEntityController[T any](svc *service.EntityService[T], pager Pager, log *utilities.Logger) *EntityController[T] {
	return &EntityController[T]{Service: svc, pager: pager, log: log}
}

// Register mounts the handlers on a group such as /api/companies.
func (ec *EntityController[T]) Register(g *gin.RouterGroup) {
	g.GET("", ec.List)
	g.GET("/:id", ec.Get)
	g.POST("", ec.Create)
	g.PUT("/:id", ec.Update)
	g.DELETE("/:id", ec.Delete)
}

func (ec *EntityController[T]) List(c *gin.Context) {
	page, err := ec.Service.List(c.Request.Context(), ec.pager.Params(c))
	if err != nil {
		respondError(c, ec.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (ec *EntityController[T]) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := ec.Service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ec.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ec *EntityController[T]) Create(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	if err := ec.Service.Create(c.Request.Context(), &item); err != nil {
		respondError(c, ec.log, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (ec *EntityController[T]) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	updated, err := ec.Service.Update(c.Request.Context(), id, &item)
	if err != nil {
		respondError(c, ec.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (ec *EntityController[T]) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ec.Service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ec.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
