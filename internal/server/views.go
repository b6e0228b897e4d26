package server

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"bookshelf/internal/response"
	"bookshelf/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var views = template.Must(template.New("").Funcs(template.FuncMap{
	"formatDate":    formatDate,
	"statusOptions": statusOptions,
}).ParseFS(templateFS, "templates/*.html"))

type indexPage struct {
	PageTitle string
	Books     []*types.Book
}

type detailsPage struct {
	PageTitle string
	Book      *types.Book
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// statusOptions keeps a stored label that is not one of the known ones selectable.
func statusOptions(current string) []string {
	if current == "" || slices.Contains(types.KnownStatuses, current) {
		return types.KnownStatuses
	}

	return append(slices.Clone(types.KnownStatuses), current)
}

func render(w http.ResponseWriter, r *http.Request, rr *response.Responder, name string, data any) {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		rr.RespondAndLogError(w, r.Context(), err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func Static(r chi.Router) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
}
