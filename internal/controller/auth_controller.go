package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assessly-backend/internal/service"
	"assessly-backend/utilities"
)

type AuthController struct {
	AuthService service.AuthService
	log         *utilities.Logger
}

func NewAuthController(authService service.AuthService, log *utilities.Logger) *AuthController {
	return &AuthController{AuthService: authService, log: log}
}

// Login handles POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var creds struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	admin, tokens, err := ac.AuthService.Login(c.Request.Context(), creds.Email, creds.Password)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"admin":         admin,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// Refresh handles POST /auth/refresh
func (ac *AuthController) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}
	tokens, err := ac.AuthService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}
