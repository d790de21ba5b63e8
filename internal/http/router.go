package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceVersion = "1.0.0"

// NewRouter configura el router de Gin con middlewares y las rutas del perfilador.
func NewRouter(
	logger *zap.Logger,
	surveyH *SurveyHandler,
	imageH *ImageHandler,
	maxUploadBytes int64,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/", healthCheck)

	r.POST("/parse-text", surveyH.ParseText)
	r.POST("/extract-factors", surveyH.ExtractFactors)
	r.POST("/classify-risk", surveyH.ClassifyRisk)
	r.POST("/get-recommendations", surveyH.GetRecommendations)

	// Rutas que aceptan imagenes, con tope de tamano de body.
	uploads := r.Group("", maxBytesMiddleware(maxUploadBytes))
	uploads.POST("/parse-image", imageH.ParseImage)
	uploads.POST("/analyze-complete", imageH.AnalyzeComplete)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "AI-Powered Health Risk Profiler",
		"version": serviceVersion,
		"endpoints": []string{
			"/parse-text",
			"/parse-image",
			"/extract-factors",
			"/classify-risk",
			"/get-recommendations",
			"/analyze-complete",
		},
	})
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

// maxBytesMiddleware acota el tamano del request body para las subidas.
func maxBytesMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
