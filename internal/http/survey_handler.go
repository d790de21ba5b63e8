package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"health-profiler/internal/domain"
	"health-profiler/internal/service"
)

// SurveyHandler expone las etapas del pipeline sobre entrada estructurada.
type SurveyHandler struct {
	logger   *zap.Logger
	pipeline *service.Pipeline
}

func NewSurveyHandler(logger *zap.Logger, pipeline *service.Pipeline) *SurveyHandler {
	return &SurveyHandler{logger: logger, pipeline: pipeline}
}

// ParseText maneja POST /parse-text.
func (h *SurveyHandler) ParseText(c *gin.Context) {
	var data domain.RawAnswers
	if err := c.ShouldBindJSON(&data); err != nil {
		h.logger.Warn("invalid parse text request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object of scalar answers"})
		return
	}
	if data == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no JSON data provided"})
		return
	}

	result, err := h.pipeline.ParseText(data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if result.Incomplete() {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExtractFactors maneja POST /extract-factors.
func (h *SurveyHandler) ExtractFactors(c *gin.Context) {
	var req struct {
		Answers domain.CanonicalAnswers `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Answers == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no answers data provided"})
		return
	}

	c.JSON(http.StatusOK, h.pipeline.ExtractFactors(req.Answers))
}

// ClassifyRisk maneja POST /classify-risk.
func (h *SurveyHandler) ClassifyRisk(c *gin.Context) {
	var req struct {
		Factors *[]domain.Factor `json:"factors"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Factors == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no factors data provided"})
		return
	}

	c.JSON(http.StatusOK, h.pipeline.ClassifyRisk(*req.Factors))
}

// GetRecommendations maneja POST /get-recommendations.
func (h *SurveyHandler) GetRecommendations(c *gin.Context) {
	var req struct {
		RiskLevel *domain.RiskLevel `json:"risk_level"`
		Factors   *[]domain.Factor  `json:"factors"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RiskLevel == nil || req.Factors == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields: risk_level, factors"})
		return
	}

	c.JSON(http.StatusOK, h.pipeline.Recommend(*req.RiskLevel, *req.Factors))
}

func (h *SurveyHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrCoercion) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("pipeline failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
