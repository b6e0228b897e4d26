package books

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"bookshelf/internal/types"
)

const table = "books"

// Same column set for both dialects, only types differ.
var columns = []any{"id", "title", "author", "genre", "description", "image_url", "date_added", "status"}

var newestFirst = []exp.OrderedExpression{goqu.C("date_added").Desc(), goqu.C("id").Desc()}

type bookRow struct {
	Id          int64     `db:"id" goqu:"skipinsert"`
	Title       string    `db:"title"`
	Author      *string   `db:"author"`
	Genre       *string   `db:"genre"`
	Description *string   `db:"description"`
	ImageUrl    *string   `db:"image_url"`
	DateAdded   time.Time `db:"date_added"`
	Status      *string   `db:"status"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// now is replaced in tests that need distinct timestamps.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// fromMetadata writes the defaults back into md so callers see what was stored.
func fromMetadata(md *types.Metadata) bookRow {
	if md.DateAdded.IsZero() {
		md.DateAdded = now()
	}
	md.DateAdded = md.DateAdded.UTC()

	if md.Status == "" {
		md.Status = types.StatusToRead
	}
	status := md.Status

	return bookRow{
		Title:       md.Title,
		Author:      &md.Author,
		Genre:       &md.Genre,
		Description: &md.Description,
		ImageUrl:    nullable(md.ImageUrl),
		DateAdded:   md.DateAdded,
		Status:      &status,
	}
}

func (b *bookRow) intoCommon(ctx context.Context, l *slog.Logger) *types.Book {
	imageUrl := deref(b.ImageUrl)
	if imageUrl != "" {
		if _, err := url.Parse(imageUrl); err != nil {
			l.ErrorContext(ctx, "Failed to parse image URL stored in DB ("+imageUrl+"): "+err.Error())
			imageUrl = ""
		}
	}

	status := deref(b.Status)
	if status == "" {
		status = types.StatusToRead
	}

	return &types.Book{
		Id:          b.Id,
		Title:       b.Title,
		Author:      deref(b.Author),
		Genre:       deref(b.Genre),
		Description: deref(b.Description),
		ImageUrl:    imageUrl,
		DateAdded:   b.DateAdded.UTC(),
		Status:      status,
	}
}
