package http

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"health-profiler/internal/domain"
	"health-profiler/internal/service"
	"health-profiler/internal/storage"
)

// ImageHandler maneja las rutas que aceptan una imagen de encuesta escaneada.
type ImageHandler struct {
	logger   *zap.Logger
	pipeline *service.Pipeline
	uploads  *storage.UploadStore
	limiter  service.UploadRateLimiter
	maxBytes int64
}

func NewImageHandler(
	logger *zap.Logger,
	pipeline *service.Pipeline,
	uploads *storage.UploadStore,
	limiter service.UploadRateLimiter,
	maxBytes int64,
) *ImageHandler {
	return &ImageHandler{
		logger:   logger,
		pipeline: pipeline,
		uploads:  uploads,
		limiter:  limiter,
		maxBytes: maxBytes,
	}
}

// ParseImage maneja POST /parse-image.
func (h *ImageHandler) ParseImage(c *gin.Context) {
	if !h.allow(c) {
		return
	}

	img, path, ok := h.readUpload(c)
	if !ok {
		return
	}
	defer h.uploads.Remove(path)

	result, err := h.pipeline.ParseImage(c.Request.Context(), img)
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}
	if result.Incomplete() {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AnalyzeComplete maneja POST /analyze-complete con body JSON o multipart.
func (h *ImageHandler) AnalyzeComplete(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if !h.allow(c) {
			return
		}
		img, path, ok := h.readUpload(c)
		if !ok {
			return
		}
		defer h.uploads.Remove(path)

		result, err := h.pipeline.AnalyzeImage(c.Request.Context(), img)
		h.respondComplete(c, result, err)
		return
	}

	var data domain.RawAnswers
	if err := c.ShouldBindJSON(&data); err != nil || data == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no data provided"})
		return
	}

	result, err := h.pipeline.AnalyzeAnswers(data)
	h.respondComplete(c, result, err)
}

// readUpload valida y persiste la subida temporal. Devuelve los bytes de la
// imagen y la ruta temporal; el caller es responsable de removerla.
func (h *ImageHandler) readUpload(c *gin.Context) ([]byte, string, bool) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image file provided"})
		return nil, "", false
	}
	if fh.Filename == "" || !storage.IsAllowedImage(fh.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image format"})
		return nil, "", false
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds maximum size"})
		return nil, "", false
	}

	path, err := h.uploads.Save(fh)
	if err != nil {
		h.logger.Error("store upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return nil, "", false
	}

	img, err := os.ReadFile(path)
	if err != nil {
		h.uploads.Remove(path)
		h.logger.Error("read upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return nil, "", false
	}
	return img, path, true
}

func (h *ImageHandler) respondComplete(c *gin.Context, result domain.CompleteResult, err error) {
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}
	if result.Status == domain.StatusIncompleteProfile {
		c.JSON(http.StatusBadRequest, result.Parsing)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ImageHandler) respondPipelineError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrCoercion) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("image pipeline failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "ocr processing error"})
}

func (h *ImageHandler) allow(c *gin.Context) bool {
	if h.limiter == nil || h.limiter.Allow(c.ClientIP()) {
		return true
	}
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many uploads, retry later"})
	return false
}
