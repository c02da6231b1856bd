package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/calibre-xmnote/internal/logger"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	health := NewHealthController(cfg.Database, cfg.Calibre, cfg.Version)
	dialog := NewDialogController(cfg.Exporter, cfg.Library, log)
	settings := NewSettingsController(cfg.Settings, cfg.PortEnabled, log)
	books := NewBooksController(cfg.Library, log)
	exports := NewExportsController(cfg.History, log)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Export dialog
	api.GET("/dialog", dialog.Summary)
	api.POST("/export", dialog.Export)
	api.GET("/help", dialog.Help)

	// Device settings
	api.GET("/settings", settings.Get)
	api.PUT("/settings", settings.Update)
	api.DELETE("/settings", settings.Reset)

	// Library actions
	api.GET("/books", books.GetAllBooks)
	api.POST("/books/mark-single-format", books.MarkSingleFormat)
	api.GET("/books/marked", books.GetMarked)
	api.POST("/books/latest/open", books.OpenLatest)

	// Export history
	api.GET("/exports", exports.List)

	return router
}
