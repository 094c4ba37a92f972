package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"assessly-backend/internal/service"
	"assessly-backend/utilities"
)

// Dependencies are the services and settings the routes are built from.
type Dependencies struct {
	AuthService       service.AuthService
	SubmissionService service.SubmissionService
	GameService       service.GameService
	ExportService     service.ExportService
	CodeService       service.CodeService
	CreditService     service.CreditService
	CatalogService    service.CatalogService

	Entities service.Entities

	Tokens *utilities.TokenManager
	Pager  Pager
	Log    *utilities.Logger

	// APIPath prefixes the admin routes, "/api" by default.
	APIPath string
	// RateLimit guards /auth and /game when set.
	RateLimit gin.HandlerFunc
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Health reports whether the backing stores are reachable.
	Health func(ctx context.Context) error
}

func RegisterRoutes(r *gin.Engine, d Dependencies) {
	log := d.Log
	if log == nil {
		log = utilities.NewNopLogger()
	}
	apiPath := d.APIPath
	if apiPath == "" {
		apiPath = "/api"
	}
	public := []gin.HandlerFunc{}
	if d.RateLimit != nil {
		public = append(public, d.RateLimit)
	}

	r.GET("/healthz", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				log.Warn("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	// Auth routes.
	authCtrl := NewAuthController(d.AuthService, log)
	authRoutes := r.Group("/auth", public...)
	{
		authRoutes.POST("/login", authCtrl.Login)
		authRoutes.POST("/refresh", authCtrl.Refresh)
	}

	// Game client routes.
	gameCtrl := NewGameController(d.SubmissionService, d.GameService, d.ExportService, d.Pager, log)
	codeCtrl := NewCodeController(d.CodeService, d.Pager, log)
	gameRoutes := r.Group("/game", public...)
	{
		gameRoutes.POST("/submit", gameCtrl.Submit)
		gameRoutes.GET("/codes/:code", codeCtrl.Check)
	}

	api := r.Group(apiPath, utilities.AuthMiddleware(d.Tokens))

	codeRoutes := api.Group("/codes")
	{
		codeRoutes.POST("", codeCtrl.Issue)
		codeRoutes.GET("", codeCtrl.List)
		codeRoutes.POST("/:code/notify", codeCtrl.Notify)
	}

	gameAdmin := api.Group("/games")
	{
		gameAdmin.GET("", gameCtrl.List)
		gameAdmin.GET("/export.xlsx", gameCtrl.Export)
		gameAdmin.GET("/:id", gameCtrl.Get)
		gameAdmin.GET("/:id/pdf", gameCtrl.PDF)
		gameAdmin.POST("/:id/rematch", gameCtrl.Rematch)
	}

	creditCtrl := NewCreditController(d.CreditService, log)
	api.GET("/credits/balance/:companyId", creditCtrl.Balance)

	catalogCtrl := NewCatalogController(d.CatalogService, d.Pager, log)
	catalogRoutes := api.Group("/catalog/:category")
	{
		catalogRoutes.GET("/answers", catalogCtrl.ListAnswers)
		catalogRoutes.POST("/answers", catalogCtrl.CreateAnswer)
		catalogRoutes.POST("/reports", catalogCtrl.CreateReport)
	}

	// Organizational entities.
	NewEntityController(d.Entities.Admins, d.Pager, log).Register(api.Group("/admins"))
	NewEntityController(d.Entities.Companies, d.Pager, log).Register(api.Group("/companies"))
	NewEntityController(d.Entities.Competencies, d.Pager, log).Register(api.Group("/competencies"))
	NewEntityController(d.Entities.Credits, d.Pager, log).Register(api.Group("/credits"))
	NewEntityController(d.Entities.Groups, d.Pager, log).Register(api.Group("/groups"))
	NewEntityController(d.Entities.Organizations, d.Pager, log).Register(api.Group("/organizations"))
}
