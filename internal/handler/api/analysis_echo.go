package api

import (
	"time"

	models "RugScan/internal/domain/models"
	"RugScan/internal/usecase"
	xhttp "RugScan/pkg/http"
	xlogger "RugScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisEchoHandler implements the Echo-based HTTP API for token analysis.
type AnalysisEchoHandler struct {
	logger  *xlogger.Logger
	uc      *usecase.AnalysisUseCase
	started time.Time
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, uc *usecase.AnalysisUseCase) *AnalysisEchoHandler {
	return &AnalysisEchoHandler{logger: logger, uc: uc, started: time.Now()}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analyze", h.Analyze)
	g.GET("/quick-check", h.QuickCheck)
	g.GET("/health", h.Health)
	g.GET("/monitoring", h.Monitoring)
}

func (h *AnalysisEchoHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Analyze(c.Request().Context(), req, nil)
	if err != nil {
		h.logger.Error("analyze usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) QuickCheck(c echo.Context) error {
	req := &models.QuickCheckRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.QuickCheck(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("quick-check usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Health(c echo.Context) error {
	chains := h.uc.ChainHealth(c.Request().Context())
	status := "ok"
	for _, up := range chains {
		if !up {
			status = "degraded"
			break
		}
	}
	return xhttp.SuccessResponse(c, map[string]any{
		"status": status,
		"chains": chains,
	})
}

// Monitoring reports service status and the most recent analyses.
func (h *AnalysisEchoHandler) Monitoring(c echo.Context) error {
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 20)
	since := xhttp.ParseTimeDefault(c.QueryParam("since"), time.Time{})
	return xhttp.SuccessResponse(c, map[string]any{
		"uptime_seconds":     int(time.Since(h.started).Seconds()),
		"chains":             h.uc.Chains(),
		"scam_database_size": h.uc.ScamDatabaseSize(),
		"recent_analyses":    h.uc.RecentAnalyses(limit, since),
	})
}
