package handlers

import (
	"roastlog/internal/logger"
	"roastlog/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// Live session stream (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerSessionRoutes(api)
		h.registerHistoryRoutes(api)
		h.registerAnalysisRoutes(api)
		h.registerExportRoutes(api)
		h.registerBackupRoutes(api)
		api.GET("/weather", h.getWeather)
		api.GET("/machines", h.getMachines)
	}
}

func (h *Handler) registerSessionRoutes(api *gin.RouterGroup) {
	session := api.Group("/session")
	{
		session.POST("/start", h.startRoasting)
		session.POST("/stop", h.stopRoasting)
		session.GET("/state", h.getState)
		session.PUT("/metadata", h.setMetadata)
		// Body example: {"temperature":385,"heat_level":60}
		session.PUT("/logs/:minute", h.updateLog)
		session.POST("/events", h.addEvent)
		session.POST("/restore", h.restoreSession)
		session.POST("/reset", h.resetSession)
	}
}

func (h *Handler) registerHistoryRoutes(api *gin.RouterGroup) {
	history := api.Group("/history")
	{
		history.GET("/", h.listSessions)
		history.GET("/last", h.getLastSession)
		history.GET("/today-count", h.getTodayCount)
		history.GET("/session/:id", h.getSession)
	}
}

func (h *Handler) registerAnalysisRoutes(api *gin.RouterGroup) {
	api.GET("/analysis/compare", h.compareSessions)
}

func (h *Handler) registerExportRoutes(api *gin.RouterGroup) {
	api.GET("/export/:id/json", h.exportJSON)
	api.GET("/export/:id/csv", h.exportCSV)
	api.POST("/import", h.importSession)
}

func (h *Handler) registerBackupRoutes(api *gin.RouterGroup) {
	backup := api.Group("/backup")
	{
		backup.GET("/", h.getBackupStatus)
		backup.PUT("/directory", h.setBackupDirectory)
	}
}
