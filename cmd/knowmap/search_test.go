// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/knowmap/internal/search"
	"github.com/pdiddy/knowmap/pkg/types"
)

type fixedBackend struct {
	name   string
	label  string
	failed bool
}

func (b fixedBackend) Name() string { return b.name }

func (b fixedBackend) Search(_ context.Context, query string, _ types.SearchOptions) types.Result {
	if b.failed {
		return types.Failed(b.label, query, b.label+" is down")
	}
	return types.Succeeded(b.label, query, &types.PapersPayload{
		Papers: []types.Paper{{
			Title:     "Attention Is All You Need",
			Authors:   []string{"Ashish Vaswani"},
			Published: "2017-06-12T17:57:34Z",
			URL:       "http://arxiv.org/abs/1706.03762v7",
		}},
		TotalResults: 1,
	})
}

func newTestOrchestrator(t *testing.T, backends ...search.Backend) *search.Orchestrator {
	t.Helper()
	reg, err := search.NewRegistry(backends...)
	require.NoError(t, err)
	return search.New(reg, nil)
}

func TestExecuteSearchSingleSource(t *testing.T) {
	orch := newTestOrchestrator(t, fixedBackend{name: "papers", label: "arXiv"})
	var buf bytes.Buffer

	err := executeSearch(context.Background(), &buf, orch, []string{"papers"}, "transformers", types.SearchOptions{}, search.FormatJSON)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "arXiv", got["source"])
	assert.Equal(t, "transformers", got["query"])
}

func TestExecuteSearchSingleSourceFailure(t *testing.T) {
	orch := newTestOrchestrator(t, fixedBackend{name: "papers", label: "arXiv", failed: true})
	var buf bytes.Buffer

	err := executeSearch(context.Background(), &buf, orch, []string{"papers"}, "q", types.SearchOptions{}, search.FormatTable)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "papers")
	assert.Contains(t, buf.String(), "arXiv is down", "the failed result is printed before the error")
}

func TestExecuteSearchDefaultsToAllSources(t *testing.T) {
	orch := newTestOrchestrator(t,
		fixedBackend{name: "encyclopedia", label: "Wikipedia"},
		fixedBackend{name: "papers", label: "arXiv"},
	)
	var buf bytes.Buffer

	err := executeSearch(context.Background(), &buf, orch, nil, "q", types.SearchOptions{}, search.FormatTable)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "== encyclopedia ==")
	assert.Contains(t, out, "== papers ==")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("== encyclopedia ==")), bytes.Index(buf.Bytes(), []byte("== papers ==")))
}

func TestExecuteSearchPartialFailure(t *testing.T) {
	orch := newTestOrchestrator(t,
		fixedBackend{name: "encyclopedia", label: "Wikipedia"},
		fixedBackend{name: "news", label: "NewsAPI", failed: true},
	)
	var buf bytes.Buffer

	err := executeSearch(context.Background(), &buf, orch, []string{"news", "encyclopedia"}, "q", types.SearchOptions{}, search.FormatTable)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 sources failed", err.Error())
	assert.Contains(t, buf.String(), "NewsAPI is down")
	assert.Contains(t, buf.String(), "Attention Is All You Need")
}

func TestExecuteSearchRejectedSources(t *testing.T) {
	orch := newTestOrchestrator(t, fixedBackend{name: "papers", label: "arXiv"})
	var buf bytes.Buffer

	err := executeSearch(context.Background(), &buf, orch, []string{"papers", "patents"}, "q", types.SearchOptions{}, search.FormatTable)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid sources: patents")
	assert.Contains(t, buf.String(), "Error: Invalid sources: patents")
}

func TestExecuteSearchCSL(t *testing.T) {
	orch := newTestOrchestrator(t,
		fixedBackend{name: "encyclopedia", label: "Wikipedia"},
		fixedBackend{name: "papers", label: "arXiv"},
	)
	var buf bytes.Buffer

	err := executeSearch(context.Background(), &buf, orch, []string{"papers"}, "q", types.SearchOptions{}, search.FormatCSL)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1706.03762")
	assert.Contains(t, buf.String(), "Vaswani")
}
