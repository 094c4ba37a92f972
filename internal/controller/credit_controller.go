package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assessly-backend/internal/service"
	"assessly-backend/utilities"
)

type CreditController struct {
	CreditService service.CreditService
	log           *utilities.Logger
}

func NewCreditController(creditService service.CreditService, log *utilities.Logger) *CreditController {
	return &CreditController{CreditService: creditService, log: log}
}

// Balance handles GET /api/credits/balance/:companyId
func (cc *CreditController) Balance(c *gin.Context) {
	companyID, ok := idParam(c, "companyId")
	if !ok {
		return
	}
	balance, err := cc.CreditService.Balance(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company_id": companyID, "balance": balance})
}
