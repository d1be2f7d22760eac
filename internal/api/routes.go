package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/entries", handler.SubmitEntry)
		v1.GET("/entries", handler.ListEntries)
		v1.DELETE("/entries", handler.ClearEntries)
		v1.GET("/export", handler.ExportEntries)
		v1.POST("/export/archive", handler.ArchiveExport)
		v1.GET("/export/archives", handler.ListArchives)
		v1.GET("/summary", handler.Summary)
	}
}
