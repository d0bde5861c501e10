// Package views embeds the few server-rendered pages.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed layouts/*.html errors/*.html *.html
var files embed.FS

// NewEngine returns the html engine over the embedded templates.
func NewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(files), ".html")
}
