package endpoints

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/assessor/internal/api"
	"github.com/jackzampolin/assessor/web"
)

// FormEndpoint serves the embedded query form and its assets.
type FormEndpoint struct{}

var _ api.Endpoint = (*FormEndpoint)(nil)

func (e *FormEndpoint) Route() (string, string, http.HandlerFunc) {
	// Go 1.22 wildcard catches every GET not matched by a more specific route
	return "GET", "/{path...}", e.handler
}

func (e *FormEndpoint) RequiresInit() bool {
	return false
}

func (e *FormEndpoint) Command(_ func() string) *cobra.Command {
	return nil // No CLI command for static files
}

func (e *FormEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	distFS, err := web.DistFS()
	if err != nil {
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/")
	if filePath == "" {
		filePath = "index.html"
	}

	file, err := distFS.Open(filePath)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	file.Close()

	http.FileServer(http.FS(distFS)).ServeHTTP(w, r)
}
