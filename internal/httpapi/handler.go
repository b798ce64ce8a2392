// internal/httpapi/handler.go

// Package httpapi exposes the research pipeline over HTTP for the
// dashboard layer.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"uxr-engine/internal/common/logger"
	"uxr-engine/internal/common/store"
	"uxr-engine/internal/common/validation"
	"uxr-engine/internal/models"
	"uxr-engine/internal/orchestrator"
)

type Handler struct {
	orchestrator *orchestrator.Orchestrator
	store        store.ResultStore
	logger       logger.Logger
}

func NewHandler(orch *orchestrator.Orchestrator, resultStore store.ResultStore, log logger.Logger) *Handler {
	return &Handler{
		orchestrator: orch,
		store:        resultStore,
		logger:       log.WithFields(map[string]interface{}{"component": "httpapi"}),
	}
}

// Register mounts all routes on the engine.
func (h *Handler) Register(router *gin.Engine) {
	router.GET("/healthz", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.POST("/research", h.runResearch)
	api.GET("/research/latest", h.latestResult)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// runResearch executes one full simulation synchronously and caches the
// envelope as the latest result. Schema problems are advisory only: the
// resolver repairs every field, so a malformed payload still runs.
func (h *Handler) runResearch(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, models.ResearchResponse{
			Success: false,
			Error:   "request body must be a JSON object",
		})
		return
	}

	if result, err := validation.CheckResearchRequest(payload); err == nil && !result.Valid {
		h.logger.Warn("request payload failed schema validation, continuing with defaults", map[string]interface{}{
			"warnings": result.Warnings,
		})
	}

	envelope, err := h.orchestrator.Run(c.Request.Context(), payload)
	if err != nil {
		h.logger.WithError(err).Error("research run failed", nil)
		c.JSON(http.StatusInternalServerError, models.ResearchResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	if err := h.store.SaveLatest(c.Request.Context(), &envelope); err != nil {
		h.logger.WithError(err).Warn("failed to cache latest result", nil)
	}

	c.JSON(http.StatusOK, models.ResearchResponse{Success: true, Data: &envelope})
}

func (h *Handler) latestResult(c *gin.Context) {
	envelope, err := h.store.LoadLatest(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNoResult) {
			c.JSON(http.StatusNotFound, models.ResearchResponse{
				Success: false,
				Error:   "no research result available yet",
			})
			return
		}
		h.logger.WithError(err).Error("failed to load latest result", nil)
		c.JSON(http.StatusInternalServerError, models.ResearchResponse{
			Success: false,
			Error:   "result store unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, models.ResearchResponse{Success: true, Data: envelope})
}
