package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assessly-backend/internal/model"
	"assessly-backend/internal/service"
	"assessly-backend/utilities"
)

type CatalogController struct {
	CatalogService service.CatalogService
	pager          Pager
	log            *utilities.Logger
}

func NewCatalogController(catalogService service.CatalogService, pager Pager, log *utilities.Logger) *CatalogController {
	return &CatalogController{CatalogService: catalogService, pager: pager, log: log}
}

func categoryParam(c *gin.Context) (model.Category, bool) {
	cat, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		badRequest(c, err.Error())
		return "", false
	}
	return cat, true
}

// ListAnswers handles GET /api/catalog/:category/answers
func (cc *CatalogController) ListAnswers(c *gin.Context) {
	cat, ok := categoryParam(c)
	if !ok {
		return
	}
	page, err := cc.CatalogService.ListAnswers(c.Request.Context(), cat, cc.pager.Params(c))
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateAnswer handles POST /api/catalog/:category/answers
func (cc *CatalogController) CreateAnswer(c *gin.Context) {
	cat, ok := categoryParam(c)
	if !ok {
		return
	}
	var answer model.CatalogAnswer
	if err := c.ShouldBindJSON(&answer); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	answer.ID = 0
	if err := cc.CatalogService.CreateAnswer(c.Request.Context(), cat, &answer); err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusCreated, answer)
}

// CreateReport handles POST /api/catalog/:category/reports
func (cc *CatalogController) CreateReport(c *gin.Context) {
	cat, ok := categoryParam(c)
	if !ok {
		return
	}
	var report model.EvaluationReport
	if err := c.ShouldBindJSON(&report); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	report.ID = 0
	if err := cc.CatalogService.CreateReport(c.Request.Context(), cat, &report); err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}
