// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/knowmap/internal/httputil"
	"github.com/pdiddy/knowmap/pkg/types"
)

// Wikipedia endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	wikipediaAPIBase     = "https://en.wikipedia.org/w/api.php"
	wikipediaArticleBase = "https://en.wikipedia.org/wiki/"
)

const (
	wikipediaSource     = "Wikipedia"
	wikipediaRelated    = 5
	wikipediaNoExtract  = "No extract available"
	wikipediaForbidden  = "Access forbidden. Please check User-Agent header and API usage limits."
	wikipediaThumbWidth = "300"
)

// WikipediaBackend resolves a query to the best-matching encyclopedia
// article: a full-text search picks the candidate, and a detail call fetches
// its extract, images and canonical URL.
type WikipediaBackend struct {
	Client    *http.Client
	UserAgent string
	Logger    *slog.Logger
}

// Name returns the registry key.
func (b *WikipediaBackend) Name() string { return "encyclopedia" }

// Search runs the two-stage lookup. A query with no candidates yields the
// "No results found" Result whose data is an empty list. The pageSize option
// does not apply; related results are capped at five.
func (b *WikipediaBackend) Search(ctx context.Context, query string, _ types.SearchOptions) types.Result {
	if strings.TrimSpace(query) == "" {
		return types.Failed(wikipediaSource, query, "Search query cannot be empty")
	}

	hits, err := b.searchTitles(ctx, query)
	if err != nil {
		return b.fail(query, err)
	}
	if len(hits) == 0 {
		return types.NoMatches(wikipediaSource, query)
	}

	top := hits[0]
	page, err := b.fetchPage(ctx, top.PageID)
	if err != nil {
		return b.fail(query, err)
	}

	payload := &types.EncyclopediaPayload{
		Title:          page.Title,
		Extract:        page.Extract,
		URL:            page.FullURL,
		PageID:         page.PageID,
		RelatedResults: relatedResults(hits),
	}
	if payload.Title == "" {
		payload.Title = top.Title
	}
	if strings.TrimSpace(payload.Extract) == "" {
		payload.Extract = wikipediaNoExtract
	}
	if payload.URL == "" {
		payload.URL = wikipediaArticleBase + url.PathEscape(payload.Title)
	}
	if payload.PageID == 0 {
		payload.PageID = top.PageID
	}
	if page.Thumbnail != nil && page.Thumbnail.Source != "" {
		payload.ThumbnailURL = &page.Thumbnail.Source
	}
	switch {
	case page.Original != nil && page.Original.Source != "":
		payload.ImageURL = &page.Original.Source
	case payload.ThumbnailURL != nil:
		payload.ImageURL = payload.ThumbnailURL
	}

	return types.Succeeded(wikipediaSource, query, payload)
}

// fail maps a lookup error to a failed Result. HTTP 403 means the provider
// rejected the client identification or its usage limits.
func (b *WikipediaBackend) fail(query string, err error) types.Result {
	orDiscard(b.Logger).Warn("provider request failed", "source", wikipediaSource, "query", query, "error", err)

	var se *httputil.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusForbidden {
		return types.Failed(wikipediaSource, query, wikipediaForbidden)
	}
	return types.Failed(wikipediaSource, query, "Failed to fetch Wikipedia data: "+err.Error())
}

func (b *WikipediaBackend) searchTitles(ctx context.Context, query string) ([]wikiSearchHit, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"format":   {"json"},
		"origin":   {"*"},
	}

	var resp wikiSearchResponse
	if err := httputil.GetJSON(ctx, b.Client, wikipediaAPIBase+"?"+params.Encode(), b.UserAgent, &resp); err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("search request: %s", resp.Error.Info)
	}
	return resp.Query.Search, nil
}

func (b *WikipediaBackend) fetchPage(ctx context.Context, pageID int) (wikiPage, error) {
	id := strconv.Itoa(pageID)
	params := url.Values{
		"action":      {"query"},
		"pageids":     {id},
		"prop":        {"extracts|pageimages|info"},
		"explaintext": {"true"},
		"exintro":     {"true"},
		"exlimit":     {"1"},
		"piprop":      {"original|thumbnail"},
		"pithumbsize": {wikipediaThumbWidth},
		"inprop":      {"url"},
		"format":      {"json"},
		"origin":      {"*"},
	}

	var resp wikiPageResponse
	if err := httputil.GetJSON(ctx, b.Client, wikipediaAPIBase+"?"+params.Encode(), b.UserAgent, &resp); err != nil {
		return wikiPage{}, fmt.Errorf("page request: %w", err)
	}
	if resp.Error != nil {
		return wikiPage{}, fmt.Errorf("page request: %s", resp.Error.Info)
	}
	page, ok := resp.Query.Pages[id]
	if !ok {
		return wikiPage{}, fmt.Errorf("page %s missing from response", id)
	}
	return page, nil
}

// relatedResults converts the top search hits, stripping snippet markup.
func relatedResults(hits []wikiSearchHit) []types.RelatedResult {
	n := min(len(hits), wikipediaRelated)
	out := make([]types.RelatedResult, n)
	for i, h := range hits[:n] {
		out[i] = types.RelatedResult{
			Title:   h.Title,
			Snippet: stripMarkup(h.Snippet),
			PageID:  h.PageID,
		}
	}
	return out
}

// stripMarkup returns the text of an HTML fragment with whitespace collapsed.
func stripMarkup(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpace(fragment)
	}
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Wikipedia Action API JSON structures.
type wikiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type wikiSearchResponse struct {
	Error *wikiError `json:"error"`
	Query struct {
		Search []wikiSearchHit `json:"search"`
	} `json:"query"`
}

type wikiSearchHit struct {
	Title   string `json:"title"`
	PageID  int    `json:"pageid"`
	Snippet string `json:"snippet"`
}

type wikiPageResponse struct {
	Error *wikiError `json:"error"`
	Query struct {
		Pages map[string]wikiPage `json:"pages"`
	} `json:"query"`
}

type wikiPage struct {
	PageID    int        `json:"pageid"`
	Title     string     `json:"title"`
	Extract   string     `json:"extract"`
	FullURL   string     `json:"fullurl"`
	Original  *wikiImage `json:"original"`
	Thumbnail *wikiImage `json:"thumbnail"`
}

type wikiImage struct {
	Source string `json:"source"`
}
