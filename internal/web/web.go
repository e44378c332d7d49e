// Package web serves the browser client bundled into the binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
)

//go:embed static
var static embed.FS

// Handler serves the static client. Unknown paths fall back to index.html so client-side
// routes survive a reload.
func Handler() fiber.Handler {
	root, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}

	return filesystem.New(filesystem.Config{
		Root:         http.FS(root),
		Index:        "index.html",
		NotFoundFile: "index.html",
		MaxAge:       3600,
	})
}
