package catalog

//go:generate mockgen -source=client.go -destination=mock_client.go -package=catalog

import (
	"context"
	"errors"
	"strings"

	"bookshelf/internal/types"
)

// ErrNotFound is returned by Lookup when the catalog has no usable match,
// including when the catalog could not be reached at all.
var ErrNotFound = errors.New("book not found in catalog")

const (
	MinSuggestQuery = 2
	maxSuggestions  = 5

	unknownValue       = "Unknown"
	missingTitle       = "N/A"
	missingDescription = "No description available"
)

type Client interface {
	// Lookup returns metadata of the first catalog match for title.
	Lookup(ctx context.Context, title string) (*types.Metadata, error)
	// Suggest never fails, an unreachable catalog yields no suggestions.
	Suggest(ctx context.Context, partial string) []types.Suggestion
}

// Suggestible reports whether partial is long enough to ask the catalog about.
func Suggestible(partial string) bool {
	return len([]rune(strings.TrimSpace(partial))) >= MinSuggestQuery
}
