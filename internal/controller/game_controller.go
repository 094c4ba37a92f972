package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"assessly-backend/internal/model"
	"assessly-backend/internal/repository"
	"assessly-backend/internal/service"
	"assessly-backend/utilities"
)

const (
	pdfContentType  = "application/pdf"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type GameController struct {
	SubmissionService service.SubmissionService
	GameService       service.GameService
	ExportService     service.ExportService
	pager             Pager
	log               *utilities.Logger
}

func NewGameController(
	submissions service.SubmissionService,
	games service.GameService,
	exports service.ExportService,
	pager Pager,
	log *utilities.Logger,
) *GameController {
	return &GameController{
		SubmissionService: submissions,
		GameService:       games,
		ExportService:     exports,
		pager:             pager,
		log:               log,
	}
}

// Submit handles POST /game/submit
func (gc *GameController) Submit(c *gin.Context) {
	var req service.Submission
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid submission: "+bindMessage(err))
		return
	}
	rec, err := gc.SubmissionService.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, gc.log, err)
		return
	}
	c.JSON(http.StatusCreated, submissionResponse(rec))
}

// submissionResponse is the body the game client receives: the four scores
// and the matched reports, always as a list.
func submissionResponse(rec *model.GameRecord) gin.H {
	scores := make(gin.H, len(model.Categories))
	for _, cat := range model.Categories {
		scores[cat.Name()] = rec.Score(cat)
	}
	reports := rec.Reports
	if reports == nil {
		reports = []model.CategoryReport{}
	}
	return gin.H{
		"message":            "Game submitted",
		"id":                 rec.ID,
		"code":               rec.Code,
		"scores":             scores,
		"evaluation_results": reports,
		"completed_at":       rec.CompletedAt,
	}
}

// List handles GET /api/games
func (gc *GameController) List(c *gin.Context) {
	f, ok := gameFilter(c)
	if !ok {
		return
	}
	page, err := gc.GameService.List(c.Request.Context(), f, gc.pager.Params(c))
	if err != nil {
		respondError(c, gc.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/games/:id
func (gc *GameController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rec, err := gc.GameService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, gc.log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Rematch handles POST /api/games/:id/rematch
func (gc *GameController) Rematch(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rec, err := gc.GameService.Rematch(c.Request.Context(), id)
	if err != nil {
		respondError(c, gc.log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// PDF handles GET /api/games/:id/pdf
func (gc *GameController) PDF(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	data, err := gc.ExportService.GamePDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, gc.log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="game-%d.pdf"`, id))
	c.Data(http.StatusOK, pdfContentType, data)
}

// Export handles GET /api/games/export.xlsx
func (gc *GameController) Export(c *gin.Context) {
	f, ok := gameFilter(c)
	if !ok {
		return
	}
	data, err := gc.ExportService.GamesXLSX(c.Request.Context(), f)
	if err != nil {
		respondError(c, gc.log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="games.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func gameFilter(c *gin.Context) (repository.GameFilter, bool) {
	companyID, ok := optionalUint(c, "companyId")
	if !ok {
		return repository.GameFilter{}, false
	}
	return repository.GameFilter{CompanyID: companyID, Code: strings.TrimSpace(c.Query("code"))}, true
}

// bindMessage keeps the first line of a binding error.
func bindMessage(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i > 0 {
		msg = msg[:i]
	}
	return msg
}
