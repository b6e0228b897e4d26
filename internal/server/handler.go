package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"bookshelf/internal/catalog"
	"bookshelf/internal/opds"
	"bookshelf/internal/response"
	"bookshelf/internal/storage/books"
	"bookshelf/internal/types"
)

const idPattern = "{id:[0-9]+}"

func Handler(br books.Repository, cat catalog.Client, rr *response.Responder, l *slog.Logger) http.Handler {
	r := chi.NewRouter()

	Static(r)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		rows, err := br.GetAll(r.Context())
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		render(w, r, rr, "index.html", indexPage{PageTitle: "My Books", Books: rows})
	})

	r.Post("/add_book", func(w http.ResponseWriter, r *http.Request) {
		title := strings.TrimSpace(r.PostFormValue("title"))
		if title == "" {
			rr.RespondMessage(w, r.Context(), http.StatusBadRequest, "Title is required")
			return
		}

		md, err := cat.Lookup(r.Context(), title)
		if err != nil {
			if !errors.Is(err, catalog.ErrNotFound) {
				rr.RespondAndLogError(w, r.Context(), err)
				return
			}

			l.InfoContext(r.Context(), "No catalog match for "+strconv.Quote(title)+": "+err.Error())
			rr.RespondMessage(w, r.Context(), http.StatusNotFound, "Book not found")
			return
		}

		id, err := br.Insert(r.Context(), md)
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		l.InfoContext(r.Context(), "Added book "+strconv.FormatInt(id, 10)+": "+md.Title)

		rr.SendJson(w, r.Context(), struct {
			Success bool            `json:"success"`
			Book    *types.Metadata `json:"book"`
			Id      int64           `json:"id"`
		}{Success: true, Book: md, Id: id})
	})

	r.Post("/update_status/"+idPattern, func(w http.ResponseWriter, r *http.Request) {
		id, ok := getId(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		status := strings.TrimSpace(r.PostFormValue("status"))
		if status == "" {
			rr.RespondMessage(w, r.Context(), http.StatusBadRequest, "Status is required")
			return
		}

		if err := br.UpdateStatus(r.Context(), id, status); err != nil {
			rr.RespondAndLogMessage(w, r.Context(), err, http.StatusInternalServerError, "Failed to update book status")
			return
		}

		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Post("/delete_book/"+idPattern, func(w http.ResponseWriter, r *http.Request) {
		id, ok := getId(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		if err := br.Delete(r.Context(), id); err != nil {
			rr.RespondAndLogMessage(w, r.Context(), err, http.StatusInternalServerError, "Failed to delete book")
			return
		}

		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Get("/book/"+idPattern, func(w http.ResponseWriter, r *http.Request) {
		id, ok := getId(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		b, err := br.GetById(r.Context(), id)
		if err != nil {
			l.ErrorContext(r.Context(), "Failed to load book "+strconv.FormatInt(id, 10)+": "+err.Error())
		}
		if b == nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		render(w, r, rr, "book_details.html", detailsPage{PageTitle: b.Title, Book: b})
	})

	r.Get("/suggest_books", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if !catalog.Suggestible(q) {
			rr.SendJson(w, r.Context(), []types.Suggestion{})
			return
		}

		rows := cat.Suggest(r.Context(), q)
		if rows == nil {
			rows = make([]types.Suggestion, 0)
		}

		rr.SendJson(w, r.Context(), rows)
	})

	r.Get("/api/books", func(w http.ResponseWriter, r *http.Request) {
		rows, err := br.GetAll(r.Context())
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		if rows == nil {
			rows = make([]*types.Book, 0)
		}

		rr.SendJson(w, r.Context(), struct {
			Books []*types.Book `json:"books"`
		}{Books: rows})
	})

	r.Get("/api/books/"+idPattern, func(w http.ResponseWriter, r *http.Request) {
		id, ok := getId(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		b, err := br.GetById(r.Context(), id)
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}
		if b == nil {
			rr.RespondMessage(w, r.Context(), http.StatusNotFound, "Book not found")
			return
		}

		rr.SendJson(w, r.Context(), b)
	})

	r.Get("/opds", func(w http.ResponseWriter, r *http.Request) {
		rows, err := br.GetAll(r.Context())
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		var buf bytes.Buffer
		if err := opds.Write(&buf, opds.BuildFeed(rows, baseURL(r), l)); err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		w.Header().Set("Content-Type", opds.ContentType)
		_, _ = buf.WriteTo(w)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if err := br.Ping(r.Context()); err != nil {
			l.ErrorContext(r.Context(), "Health check failed: "+err.Error())
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}

		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// Ids too large for int64 match the route pattern but are reported as not found.
func getId(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

func baseURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	return &url.URL{Scheme: scheme, Host: r.Host}
}
