// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/knowmap/internal/httputil"
	"github.com/pdiddy/knowmap/pkg/types"
)

// newsAPIBase is the NewsAPI v2 root. Declared as a var so tests can
// substitute an httptest server.
var newsAPIBase = "https://newsapi.org/v2"

const (
	newsSource        = "NewsAPI"
	newsKeyMissing    = "NewsAPI key not configured. Please set NEWS_API_KEY in .env file"
	newsSearchFailed  = "Failed to fetch news data"
	newsHeadlinesFail = "Failed to fetch headlines"
)

// Placeholders for article fields the provider leaves out.
const (
	noTitle       = "No title available"
	noDescription = "No description available"
	noContent     = "No content available"
	noURL         = "#"
	unknownOutlet = "Unknown source"
)

// NewsBackend searches NewsAPI articles and lists top headlines. Both calls
// require APIKey; without it they fail before any request is made.
type NewsBackend struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
	Logger    *slog.Logger
}

// Name returns the registry key.
func (b *NewsBackend) Name() string { return "news" }

// Search queries the /everything endpoint.
func (b *NewsBackend) Search(ctx context.Context, query string, opts types.SearchOptions) types.Result {
	if b.APIKey == "" {
		return types.Failed(newsSource, query, newsKeyMissing)
	}
	if strings.TrimSpace(query) == "" {
		return types.Failed(newsSource, query, "Search query cannot be empty")
	}

	params := url.Values{
		"q":        {query},
		"apiKey":   {b.APIKey},
		"pageSize": {strconv.Itoa(opts.ResolvedPageSize())},
		"language": {"en"},
		"sortBy":   {"relevancy"},
		"country":  {"us"},
	}
	return b.fetch(ctx, "/everything", params, query, newsSearchFailed)
}

// TopHeadlines queries the /top-headlines endpoint for category. The
// Result's query reads "Top headlines - <category>".
func (b *NewsBackend) TopHeadlines(ctx context.Context, category string, pageSize int) types.Result {
	opts := types.SearchOptions{Category: category, PageSize: pageSize}
	category = opts.ResolvedCategory()
	label := "Top headlines - " + category

	if b.APIKey == "" {
		return types.Failed(newsSource, label, newsKeyMissing)
	}

	params := url.Values{
		"category": {category},
		"apiKey":   {b.APIKey},
		"pageSize": {strconv.Itoa(opts.ResolvedPageSize())},
		"country":  {"us"},
		"language": {"en"},
	}
	return b.fetch(ctx, "/top-headlines", params, label, newsHeadlinesFail)
}

// fetch performs one call and normalizes the articles. Error bodies are
// decoded as well so the provider's own message reaches the caller.
func (b *NewsBackend) fetch(ctx context.Context, path string, params url.Values, query, fallback string) types.Result {
	var resp newsResponse

	body, err := httputil.Get(ctx, b.Client, newsAPIBase+path+"?"+params.Encode(), b.UserAgent)
	if err != nil {
		var se *httputil.StatusError
		if !errors.As(err, &se) || json.Unmarshal(se.Body, &resp) != nil || resp.Message == "" {
			orDiscard(b.Logger).Warn("provider request failed", "source", newsSource, "endpoint", path, "error", err)
			return types.Failed(newsSource, query, fallback+": "+err.Error())
		}
		orDiscard(b.Logger).Warn("provider rejected request", "source", newsSource, "endpoint", path,
			"status", se.StatusCode, "code", resp.Code)
		return types.Failed(newsSource, query, resp.Message)
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.Failed(newsSource, query, fallback+": parsing response: "+err.Error())
	}

	if resp.Status != "ok" {
		msg := resp.Message
		if msg == "" {
			msg = fallback
		}
		return types.Failed(newsSource, query, msg)
	}

	articles := make([]types.Article, len(resp.Articles))
	for i, raw := range resp.Articles {
		articles[i] = normalizeArticle(raw)
	}

	total := len(articles)
	if resp.TotalResults != nil {
		total = *resp.TotalResults
	}
	return types.Succeeded(newsSource, query, &types.NewsPayload{
		TotalResults: total,
		Articles:     articles,
	})
}

// normalizeArticle applies the per-field defaults. Empty strings count as
// missing.
func normalizeArticle(raw newsArticle) types.Article {
	a := types.Article{
		Title:       orDefault(raw.Title, noTitle),
		Description: orDefault(raw.Description, noDescription),
		Content:     orDefault(raw.Content, noContent),
		URL:         orDefault(raw.URL, noURL),
		ImageURL:    nonEmpty(raw.URLToImage),
		PublishedAt: nonEmpty(raw.PublishedAt),
		Source:      types.ArticleSource{Name: unknownOutlet},
	}
	if raw.Source != nil {
		a.Source.Name = orDefault(raw.Source.Name, unknownOutlet)
		a.Source.ID = nonEmpty(raw.Source.ID)
	}
	return a
}

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

// NewsAPI JSON structures.
type newsResponse struct {
	Status       string        `json:"status"`
	Code         string        `json:"code"`
	Message      string        `json:"message"`
	TotalResults *int          `json:"totalResults"`
	Articles     []newsArticle `json:"articles"`
}

type newsArticle struct {
	Source      *newsOutlet `json:"source"`
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Content     *string     `json:"content"`
	URL         *string     `json:"url"`
	URLToImage  *string     `json:"urlToImage"`
	PublishedAt *string     `json:"publishedAt"`
}

type newsOutlet struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}
