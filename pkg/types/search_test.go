// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestSearchOptionsDefaults(t *testing.T) {
	tests := []struct {
		name         string
		opts         SearchOptions
		wantPageSize int
		wantCategory string
	}{
		{"zero value", SearchOptions{}, 5, "general"},
		{"negative page size", SearchOptions{PageSize: -3}, 5, "general"},
		{"explicit values", SearchOptions{PageSize: 12, Category: "technology"}, 12, "technology"},
		{"blank category", SearchOptions{Category: "  "}, 5, "general"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPageSize, tt.opts.ResolvedPageSize())
			assert.Equal(t, tt.wantCategory, tt.opts.ResolvedCategory())
		})
	}
}

func TestSearchOptionsIgnoresUnknownFields(t *testing.T) {
	var opts SearchOptions
	err := json.Unmarshal([]byte(`{"pageSize":3,"sortBy":"date","getHeadlines":true}`), &opts)
	require.NoError(t, err)
	assert.Equal(t, SearchOptions{PageSize: 3, GetHeadlines: true}, opts)
}

func TestResultConstructorsKeepInvariant(t *testing.T) {
	ok := Succeeded("arXiv", "q", &PapersPayload{})
	assert.True(t, ok.Success)
	assert.NotNil(t, ok.Data)
	assert.Empty(t, ok.Message)

	failed := Failed("arXiv", "q", "")
	assert.False(t, failed.Success)
	assert.Nil(t, failed.Data)
	assert.NotEmpty(t, failed.Message)

	var nilPayload *NewsPayload
	guarded := Succeeded("NewsAPI", "q", nilPayload)
	assert.False(t, guarded.Success)
	assert.Nil(t, guarded.Data)
	assert.NotEmpty(t, guarded.Message)
}

func TestNoMatchesEncodesEmptyList(t *testing.T) {
	r := NoMatches("Wikipedia", "zzzz")
	assert.False(t, r.Success)
	assert.Equal(t, "No results found", r.Message)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"source":"Wikipedia","query":"zzzz","message":"No results found","data":[]}`, string(data))
}

func TestFailedResultEncodesNullData(t *testing.T) {
	data, err := json.Marshal(Failed("NewsAPI", "q", "boom"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"source":"NewsAPI","query":"q","message":"boom","data":null}`, string(data))
}

func TestSourceResultsKeepsInsertionOrder(t *testing.T) {
	sr := NewSourceResults(3)
	sr.Set("papers", Failed("arXiv", "q", "down"))
	sr.Set("encyclopedia", Failed("Wikipedia", "q", "down"))
	sr.Set("news", Failed("NewsAPI", "q", "down"))
	sr.Set("papers", Failed("arXiv", "q", "still down"))

	assert.Equal(t, []string{"papers", "encyclopedia", "news"}, sr.Keys())
	assert.Equal(t, 3, sr.Len())

	got, ok := sr.Get("papers")
	require.True(t, ok)
	assert.Equal(t, "still down", got.Message)

	data, err := json.Marshal(sr)
	require.NoError(t, err)
	papers := strings.Index(string(data), `"papers"`)
	enc := strings.Index(string(data), `"encyclopedia"`)
	news := strings.Index(string(data), `"news"`)
	assert.True(t, papers < enc && enc < news, "keys out of order: %s", data)
}

func TestNilSourceResults(t *testing.T) {
	var sr *SourceResults
	assert.Equal(t, 0, sr.Len())
	assert.Nil(t, sr.Keys())
	_, ok := sr.Get("news")
	assert.False(t, ok)

	data, err := json.Marshal(CombinedResult{Query: "q", Message: "bad"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"data":null`)
}

func TestSourceResultsYAMLIsOrderedMapping(t *testing.T) {
	data := NewSourceResults(2)
	data.Set("news", Failed("NewsAPI", "q", "down"))
	data.Set("encyclopedia", NoMatches("Wikipedia", "q"))

	out, err := yaml.Marshal(CombinedResult{Query: "q", Sources: []string{"news", "encyclopedia"}, Data: data})
	require.NoError(t, err)

	var doc struct {
		Data yaml.Node `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal(out, &doc))
	require.Equal(t, yaml.MappingNode, doc.Data.Kind)
	require.Len(t, doc.Data.Content, 4)
	assert.Equal(t, "news", doc.Data.Content[0].Value)
	assert.Equal(t, "encyclopedia", doc.Data.Content[2].Value)

	var news struct {
		Success bool   `yaml:"success"`
		Message string `yaml:"message"`
	}
	require.NoError(t, doc.Data.Content[1].Decode(&news))
	assert.False(t, news.Success)
	assert.Equal(t, "down", news.Message)
}
