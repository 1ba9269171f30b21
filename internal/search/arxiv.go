// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/knowmap/internal/feed"
	"github.com/pdiddy/knowmap/internal/httputil"
	"github.com/pdiddy/knowmap/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const arxivSource = "arXiv"

// ArxivBackend queries the arXiv Atom API for papers.
type ArxivBackend struct {
	Client    *http.Client
	UserAgent string
	Logger    *slog.Logger
}

// Name returns the registry key.
func (b *ArxivBackend) Name() string { return "papers" }

// Search requests opts.PageSize entries ordered by relevance and returns the
// complete ones in feed order. Entries without a title or summary are
// dropped and do not count toward TotalResults.
func (b *ArxivBackend) Search(ctx context.Context, query string, opts types.SearchOptions) types.Result {
	if strings.TrimSpace(query) == "" {
		return types.Failed(arxivSource, query, "Search query cannot be empty")
	}

	params := url.Values{
		"search_query": {"all:" + query},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(opts.ResolvedPageSize())},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	body, err := httputil.Get(ctx, b.Client, arxivAPIBase+"?"+params.Encode(), b.UserAgent)
	if err != nil {
		orDiscard(b.Logger).Warn("provider request failed", "source", arxivSource, "query", query, "error", err)
		return types.Failed(arxivSource, query, "Failed to fetch arXiv data: "+err.Error())
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return types.Failed(arxivSource, query, "No response from arXiv API")
	}

	entries, err := feed.ParseEntries(bytes.NewReader(body))
	if err != nil {
		return types.Failed(arxivSource, query, fmt.Sprintf("Failed to parse arXiv response: %v", err))
	}

	complete := feed.Complete(entries)
	if dropped := len(entries) - len(complete); dropped > 0 {
		orDiscard(b.Logger).Debug("dropped incomplete feed entries", "source", arxivSource, "dropped", dropped)
	}

	papers := make([]types.Paper, len(complete))
	for i, e := range complete {
		papers[i] = paperFromEntry(e)
	}
	return types.Succeeded(arxivSource, query, &types.PapersPayload{
		TotalResults: len(papers),
		Papers:       papers,
	})
}

func paperFromEntry(e feed.Entry) types.Paper {
	authors := e.Authors
	if authors == nil {
		authors = []string{}
	}
	return types.Paper{
		Title:     e.Title,
		Authors:   authors,
		Summary:   e.Summary,
		Published: e.Published,
		Updated:   e.Updated,
		PDFLink:   e.PDFLink(),
		URL:       e.URL(),
	}
}
