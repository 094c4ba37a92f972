package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assessly-backend/internal/repository"
	"assessly-backend/internal/service"
	"assessly-backend/utilities"
)

type CodeController struct {
	CodeService service.CodeService
	pager       Pager
	log         *utilities.Logger
}

func NewCodeController(codeService service.CodeService, pager Pager, log *utilities.Logger) *CodeController {
	return &CodeController{CodeService: codeService, pager: pager, log: log}
}

// Issue handles POST /api/codes
func (cc *CodeController) Issue(c *gin.Context) {
	var req service.IssueCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	codes, err := cc.CodeService.Issue(c.Request.Context(), req)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"codes": codes})
}

// List handles GET /api/codes
func (cc *CodeController) List(c *gin.Context) {
	companyID, ok := optionalUint(c, "companyId")
	if !ok {
		return
	}
	groupID, ok := optionalUint(c, "groupId")
	if !ok {
		return
	}
	used, ok := optionalBool(c, "used")
	if !ok {
		return
	}
	f := repository.AccessCodeFilter{CompanyID: companyID, GroupID: groupID, Used: used}
	page, err := cc.CodeService.List(c.Request.Context(), f, cc.pager.Params(c))
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Check handles GET /game/codes/:code
func (cc *CodeController) Check(c *gin.Context) {
	st, err := cc.CodeService.Check(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Notify handles POST /api/codes/:code/notify
func (cc *CodeController) Notify(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid input")
			return
		}
	}
	if err := cc.CodeService.Notify(c.Request.Context(), c.Param("code"), req.Email, req.Name); err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Code sent"})
}
