package opds

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/opds-community/libopds2-go/opds1"

	"bookshelf/internal/types"
)

const (
	ContentType = "application/atom+xml;profile=opds-catalog;kind=acquisition"

	atomNamespace = "http://www.w3.org/2005/Atom"

	linkTypeCatalog  = "application/atom+xml;profile=opds-catalog"
	linkTypeHTML     = "text/html"
	linkRelSelf      = "self"
	linkRelStart     = "start"
	linkRelAlternate = "alternate"
	linkRelImage     = "http://opds-spec.org/image"
	linkRelThumb     = "http://opds-spec.org/image/thumbnail"

	bookIdTemplate   = "urn:bookshelf:book:%d"
	bookHrefTemplate = "/book/%d"
	statusScheme     = "urn:bookshelf:status"
)

// BuildFeed lists books in the given order. Links are made absolute against base.
func BuildFeed(books []*types.Book, base *url.URL, l *slog.Logger) *opds1.Feed {
	self := base.ResolveReference(&url.URL{Path: "/opds"}).String()

	feed := &opds1.Feed{
		Title: "Bookshelf",
		Links: []opds1.Link{
			{Rel: linkRelSelf, Href: self, TypeLink: linkTypeCatalog},
			{Rel: linkRelStart, Href: self, TypeLink: linkTypeCatalog},
		},
		Entries: make([]opds1.Entry, 0, len(books)),
	}

	for _, b := range books {
		feed.Entries = append(feed.Entries, intoEntry(b, base, l))
	}

	return feed
}

func intoEntry(b *types.Book, base *url.URL, l *slog.Logger) opds1.Entry {
	var entry opds1.Entry

	entry.ID = fmt.Sprintf(bookIdTemplate, b.Id)
	entry.Title = sanitize(b.Title, l)
	entry.Content.Content = sanitize(b.Description, l)

	for _, name := range splitList(b.Author) {
		entry.Author = append(entry.Author, opds1.Author{Name: sanitize(name, l)})
	}

	for _, genre := range splitList(b.Genre) {
		genre = sanitize(genre, l)
		entry.Category = append(entry.Category, opds1.Category{Term: genre, Label: genre})
	}

	if b.Status != "" {
		status := sanitize(b.Status, l)
		entry.Category = append(entry.Category, opds1.Category{Scheme: statusScheme, Term: status, Label: status})
	}

	entry.Links = append(entry.Links, opds1.Link{
		Rel:      linkRelAlternate,
		Href:     base.ResolveReference(&url.URL{Path: fmt.Sprintf(bookHrefTemplate, b.Id)}).String(),
		TypeLink: linkTypeHTML,
	})

	if b.ImageUrl != "" {
		imageType := imageTypeOf(b.ImageUrl)
		entry.Links = append(entry.Links,
			opds1.Link{Rel: linkRelImage, Href: b.ImageUrl, TypeLink: imageType},
			opds1.Link{Rel: linkRelThumb, Href: b.ImageUrl, TypeLink: imageType},
		)
	}

	return entry
}

// Write encodes feed as an Atom document.
func Write(w io.Writer, feed *opds1.Feed) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	err := enc.EncodeElement(feed, xml.StartElement{
		Name: xml.Name{Local: "feed"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: atomNamespace}},
	})
	if err != nil {
		return fmt.Errorf("encoding opds feed: %w", err)
	}

	return enc.Close()
}

// Catalog values are comma joined lists, "Unknown" stands for none.
func splitList(s string) []string {
	var ret []string

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" && part != "Unknown" {
			ret = append(ret, part)
		}
	}

	return ret
}

// Google serves thumbnails without an extension, assume jpeg unless told otherwise.
func imageTypeOf(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return "image/jpeg"
	}

	switch {
	case strings.HasSuffix(u.Path, ".png"):
		return "image/png"
	case strings.HasSuffix(u.Path, ".gif"):
		return "image/gif"
	case strings.HasSuffix(u.Path, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// sanitize drops runes that XML 1.0 does not allow. Descriptions pasted from
// catalogs occasionally carry control characters.
func sanitize(s string, l *slog.Logger) string {
	if !utf8.ValidString(s) {
		l.Warn("Replaced invalid UTF8 in feed text")
		s = strings.ToValidUTF8(s, "\uFFFD")
	}

	var removed int
	ret := strings.Map(func(r rune) rune {
		if isInCharacterRange(r) {
			return r
		}
		removed++
		return -1
	}, s)

	if removed > 0 {
		l.Warn("Removed " + strconv.Itoa(removed) + " invalid runes from feed text")
	}

	return ret
}

// Decide whether the given rune is in the XML Character Range, per
// the Char production of https://www.xml.com/axml/testaxml.htm,
// Section 2.2 Characters.
func isInCharacterRange(r rune) (inrange bool) {
	return r == 0x09 ||
		r == 0x0A ||
		r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
