//go:build !embed
// +build !embed

package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const devWebDir = "./cmd/server/web/dist"

// setupStaticFiles serves the chat page from the source tree (development, no embedding)
func setupStaticFiles(router *gin.Engine, logger *zap.Logger) {
	logger.Info("using local filesystem for web assets", zap.String("dir", devWebDir))

	router.StaticFile("/", devWebDir+"/index.html")

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error": "page not found",
			"hint":  "the chat page lives at /",
		})
	})
}
