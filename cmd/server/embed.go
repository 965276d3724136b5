//go:build embed
// +build embed

package main

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed web/dist
var webDist embed.FS

// setupStaticFiles serves the chat page from the embedded assets
func setupStaticFiles(router *gin.Engine, logger *zap.Logger) {
	logger.Info("using embedded web assets")

	distFS, err := fs.Sub(webDist, "web/dist")
	if err != nil {
		logger.Fatal("failed to get dist subdirectory", zap.Error(err))
	}

	router.NoRoute(func(c *gin.Context) {
		urlPath := c.Request.URL.Path

		// Skip API routes (they are handled by other routes)
		if strings.HasPrefix(urlPath, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}

		cleanPath := strings.TrimPrefix(path.Clean(urlPath), "/")
		if cleanPath == "" {
			cleanPath = "index.html"
		}

		if stat, err := fs.Stat(distFS, cleanPath); err == nil && !stat.IsDir() {
			c.FileFromFS(cleanPath, http.FS(distFS))
			return
		}

		// Unknown paths fall back to the chat page
		content, err := fs.ReadFile(distFS, "index.html")
		if err != nil {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", content)
	})
}
