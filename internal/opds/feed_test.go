package opds

import (
	"bytes"
	"encoding/xml"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/opds-community/libopds2-go/opds1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/types"
)

var base = &url.URL{Scheme: "http", Host: "shelf.local:8080"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func findLink(e *opds1.Entry, rel string) *opds1.Link {
	for _, link := range e.Links {
		if strings.TrimSpace(link.Rel) == rel {
			return &link
		}
	}

	return nil
}

func sampleBooks() []*types.Book {
	return []*types.Book{
		{
			Id:          2,
			Title:       "Dune",
			Author:      "Frank Herbert",
			Genre:       "Fiction, Science Fiction",
			Description: "Set on the desert planet Arrakis.",
			ImageUrl:    "http://books.google.com/books/content?id=B1hSG45JCX4C&zoom=1",
			DateAdded:   time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
			Status:      types.StatusReading,
		},
		{
			Id:          1,
			Title:       "Mystery",
			Author:      "Unknown",
			Genre:       "Unknown",
			Description: "No description available",
			DateAdded:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:      types.StatusToRead,
		},
	}
}

func roundTrip(t *testing.T, feed *opds1.Feed) (string, *opds1.Feed) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, feed))

	var parsed opds1.Feed
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))

	return buf.String(), &parsed
}

func TestFeedEntries(t *testing.T) {
	raw, feed := roundTrip(t, BuildFeed(sampleBooks(), base, discardLogger()))

	require.True(t, strings.HasPrefix(raw, xml.Header))
	require.Contains(t, raw, `<feed xmlns="http://www.w3.org/2005/Atom">`)

	assert.Equal(t, "Bookshelf", feed.Title)
	require.Len(t, feed.Entries, 2)

	dune := feed.Entries[0]
	assert.Equal(t, "urn:bookshelf:book:2", dune.ID)
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, "Set on the desert planet Arrakis.", dune.Content.Content)

	require.Len(t, dune.Author, 1)
	assert.Equal(t, "Frank Herbert", dune.Author[0].Name)

	var terms []string
	for _, cat := range dune.Category {
		terms = append(terms, cat.Term)
	}
	assert.Equal(t, []string{"Fiction", "Science Fiction", "Reading"}, terms)

	alt := findLink(&dune, linkRelAlternate)
	require.NotNil(t, alt)
	assert.Equal(t, "http://shelf.local:8080/book/2", alt.Href)
	assert.Equal(t, linkTypeHTML, alt.TypeLink)

	thumb := findLink(&dune, linkRelThumb)
	require.NotNil(t, thumb)
	assert.Equal(t, "http://books.google.com/books/content?id=B1hSG45JCX4C&zoom=1", thumb.Href)
	assert.Equal(t, "image/jpeg", thumb.TypeLink)
}

func TestFeedSkipsUnknownValues(t *testing.T) {
	_, feed := roundTrip(t, BuildFeed(sampleBooks(), base, discardLogger()))

	mystery := feed.Entries[1]
	assert.Empty(t, mystery.Author)
	require.Len(t, mystery.Category, 1)
	assert.Equal(t, types.StatusToRead, mystery.Category[0].Term)
	assert.Nil(t, findLink(&mystery, linkRelImage))
}

func TestFeedSelfLink(t *testing.T) {
	_, feed := roundTrip(t, BuildFeed(nil, base, discardLogger()))

	assert.Empty(t, feed.Entries)

	self := findLink(&opds1.Entry{Links: feed.Links}, linkRelSelf)
	require.NotNil(t, self)
	assert.Equal(t, "http://shelf.local:8080/opds", self.Href)
}

func TestFeedStripsDisallowedRunes(t *testing.T) {
	books := sampleBooks()[:1]
	books[0].Title = "Du\x00ne\x1b"
	books[0].Description = "line\x0bbreak\ttab"

	_, feed := roundTrip(t, BuildFeed(books, base, discardLogger()))

	require.Len(t, feed.Entries, 1)
	assert.Equal(t, "Dune", feed.Entries[0].Title)
	assert.Equal(t, "linebreak\ttab", feed.Entries[0].Content.Content)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, splitList(" A ,B,, "))
	assert.Nil(t, splitList("Unknown"))
	assert.Nil(t, splitList(""))
}

func TestImageTypeOf(t *testing.T) {
	assert.Equal(t, "image/png", imageTypeOf("https://example.com/cover.png"))
	assert.Equal(t, "image/jpeg", imageTypeOf("https://example.com/content?id=1"))
	assert.Equal(t, "image/jpeg", imageTypeOf("://bad"))
}
