package apiHttp

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed public
var publicFiles embed.FS

const indexFile = "index.html"

// landing serves the embedded signup page. Any unknown GET path gets the
// page itself so client side links keep working.
type landing struct {
	files fs.FS
	index []byte
}

func newLanding(siteKey string) (*landing, error) {
	files, err := fs.Sub(publicFiles, "public")
	if err != nil {
		return nil, err
	}

	tmpl, err := template.ParseFS(files, indexFile)
	if err != nil {
		return nil, fmt.Errorf("parse landing page: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ SiteKey string }{siteKey}); err != nil {
		return nil, fmt.Errorf("render landing page: %w", err)
	}

	return &landing{files: files, index: buf.Bytes()}, nil
}

func (l *landing) serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	name := strings.TrimPrefix(path.Clean(c.Request.URL.Path), "/")
	if name != "" && name != indexFile && l.exists(name) {
		c.FileFromFS(name, http.FS(l.files))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", l.index)
}

func (l *landing) exists(name string) bool {
	info, err := fs.Stat(l.files, name)
	return err == nil && !info.IsDir()
}
