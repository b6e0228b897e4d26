package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bookshelf/internal/config"
	"bookshelf/internal/types"
)

// GoogleBooks queries a Google Books compatible volumes endpoint.
type GoogleBooks struct {
	Client  *http.Client
	Logger  *slog.Logger
	BaseURL string
	APIKey  string
}

var _ Client = (*GoogleBooks)(nil)

func NewGoogleBooks(cfg config.Catalog, l *slog.Logger) *GoogleBooks {
	return &GoogleBooks{
		Client:  &http.Client{Timeout: cfg.Timeout},
		Logger:  l,
		BaseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		APIKey:  cfg.APIKey,
	}
}

type volumeInfo struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Categories  []string `json:"categories"`
	Description string   `json:"description"`
	ImageLinks  *struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}

type volumesResponse struct {
	Items []struct {
		VolumeInfo volumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

func (v *volumeInfo) thumbnail() string {
	if v.ImageLinks == nil {
		return ""
	}

	return v.ImageLinks.Thumbnail
}

func joinOrUnknown(vals []string) string {
	if len(vals) == 0 {
		return unknownValue
	}

	return strings.Join(vals, ", ")
}

func (v *volumeInfo) intoMetadata() *types.Metadata {
	title := v.Title
	if title == "" {
		title = missingTitle
	}

	description := v.Description
	if description == "" {
		description = missingDescription
	}

	return &types.Metadata{
		Title:       title,
		Author:      joinOrUnknown(v.Authors),
		Genre:       joinOrUnknown(v.Categories),
		Description: description,
		ImageUrl:    v.thumbnail(),
	}
}

func (g *GoogleBooks) Lookup(ctx context.Context, title string) (*types.Metadata, error) {
	res, err := g.search(ctx, title, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	if len(res.Items) == 0 {
		return nil, ErrNotFound
	}

	md := res.Items[0].VolumeInfo.intoMetadata()

	g.Logger.DebugContext(ctx, "Catalog match for "+strconv.Quote(title)+": "+md.Title)

	return md, nil
}

func (g *GoogleBooks) Suggest(ctx context.Context, partial string) []types.Suggestion {
	if !Suggestible(partial) {
		return []types.Suggestion{}
	}
	partial = strings.TrimSpace(partial)

	res, err := g.search(ctx, partial, maxSuggestions)
	if err != nil {
		g.Logger.WarnContext(ctx, "Failed to fetch suggestions: "+err.Error())
		return []types.Suggestion{}
	}

	ret := make([]types.Suggestion, 0, min(len(res.Items), maxSuggestions))
	for _, item := range res.Items {
		if len(ret) == maxSuggestions {
			break
		}

		ret = append(ret, types.Suggestion{
			Title:     item.VolumeInfo.Title,
			Author:    joinOrUnknown(item.VolumeInfo.Authors),
			Thumbnail: item.VolumeInfo.thumbnail(),
		})
	}

	return ret
}

func (g *GoogleBooks) search(ctx context.Context, title string, maxResults int) (*volumesResponse, error) {
	q := url.Values{}
	q.Set("q", "intitle:"+title)
	if maxResults > 0 {
		q.Set("maxResults", strconv.Itoa(maxResults))
	}
	if g.APIKey != "" {
		q.Set("key", g.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/volumes?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating catalog request: %w", err)
	}

	res, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", res.StatusCode)
	}

	var body volumesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding catalog response: %w", err)
	}

	return &body, nil
}
