// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title type="html">ArXiv Query: search_query=all:quantum</title>
  <opensearch:totalResults>2</opensearch:totalResults>
  <entry>
    <id>http://arxiv.org/abs/2101.00001v1</id>
    <updated>2021-01-02T00:00:00Z</updated>
    <published>2021-01-01T00:00:00Z</published>
    <title>Quantum
      Error   Correction</title>
    <summary>  We study
      codes.  </summary>
    <author><name>Alice Smith</name><arxiv:affiliation>MIT</arxiv:affiliation></author>
    <author><name>  Bob   Jones </name></author>
    <author><arxiv:affiliation>Nowhere</arxiv:affiliation></author>
    <arxiv:comment>10 pages</arxiv:comment>
    <link href="https://arxiv.org/abs/2101.00001v1" rel="alternate" type="text/html"/>
    <link title="pdf" href="https://arxiv.org/pdf/2101.00001v1.pdf" rel="related" type="application/pdf"/>
  </entry>
  <entry>
    <updated>2021-02-02T00:00:00Z</updated>
    <published>2021-02-01T00:00:00Z</published>
    <title>Second Paper</title>
    <summary>Another abstract.</summary>
    <author><name>Carol</name></author>
    <link href="https://arxiv.org/abs/2102.00002v1" rel="alternate"/>
  </entry>
</feed>`

func TestParseEntriesPreservesOrder(t *testing.T) {
	entries, err := ParseEntries(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "Quantum Error Correction", first.Title)
	assert.Equal(t, "We study codes.", first.Summary)
	assert.Equal(t, "2021-01-01T00:00:00Z", first.Published)
	assert.Equal(t, "2021-01-02T00:00:00Z", first.Updated)
	assert.Equal(t, []string{"Alice Smith", "Bob Jones"}, first.Authors)
	assert.Equal(t, "https://arxiv.org/pdf/2101.00001v1.pdf", first.PDFLink())
	assert.Equal(t, "https://arxiv.org/abs/2101.00001v1", first.URL())

	assert.Equal(t, "Second Paper", entries[1].Title)
	assert.Equal(t, []string{"Carol"}, entries[1].Authors)
}

func TestCompleteDropsEntriesWithoutTitleOrSummary(t *testing.T) {
	input := `<feed>
  <entry><title>Keep One</title><summary>s1</summary></entry>
  <entry><title>No Summary</title></entry>
  <entry><title>   </title><summary>blank title</summary></entry>
  <entry><title>Keep Two</title><summary>s2</summary></entry>
  <entry><summary>No Title</summary></entry>
</feed>`

	entries, err := ParseEntries(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	kept := Complete(entries)
	require.Len(t, kept, 2)
	assert.Equal(t, "Keep One", kept[0].Title)
	assert.Equal(t, "Keep Two", kept[1].Title)
}

func TestLinkSelection(t *testing.T) {
	tests := []struct {
		name    string
		links   []string
		wantPDF string
		wantURL string
	}{
		{
			name:    "abstract then pdf",
			links:   []string{"https://arxiv.org/abs/123", "https://arxiv.org/pdf/123.pdf"},
			wantPDF: "https://arxiv.org/pdf/123.pdf",
			wantURL: "https://arxiv.org/abs/123",
		},
		{
			name:    "no pdf falls back to first link",
			links:   []string{"https://a/1", "https://a/2"},
			wantPDF: "https://a/1",
			wantURL: "https://a/1",
		},
		{
			name:    "only pdf links",
			links:   []string{"https://a/1.pdf", "https://a/2.pdf"},
			wantPDF: "https://a/1.pdf",
			wantURL: "https://a/1.pdf",
		},
		{
			name: "no links",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Entry{Links: tt.links}
			assert.Equal(t, tt.wantPDF, e.PDFLink())
			assert.Equal(t, tt.wantURL, e.URL())
		})
	}
}

func TestLinksCollectedFromMarkup(t *testing.T) {
	input := `<entry><title>t</title><summary>s</summary>
<link href="https://arxiv.org/abs/123"/>
<link rel="related" href="https://arxiv.org/pdf/123.pdf"></link>
<link rel="missing-href"/>
</entry>`
	entries, err := ParseEntries(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"https://arxiv.org/abs/123", "https://arxiv.org/pdf/123.pdf"}, entries[0].Links)
	assert.Equal(t, "https://arxiv.org/pdf/123.pdf", entries[0].PDFLink())
	assert.Equal(t, "https://arxiv.org/abs/123", entries[0].URL())
}

func TestEmptyHrefIsKept(t *testing.T) {
	input := `<entry><title>t</title><summary>s</summary>
<link href=""/>
<link rel="missing-href"/>
<link href="https://arxiv.org/abs/456"/>
</entry>`
	entries, err := ParseEntries(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, []string{"", "https://arxiv.org/abs/456"}, e.Links)
	assert.Equal(t, "", e.PDFLink(), "no .pdf link falls back to the first link, even when empty")
	assert.Equal(t, "", e.URL())
}

func TestParseEntriesToleratesMalformedMarkup(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantTitles []string
	}{
		{
			name:       "truncated trailing entry is dropped",
			input:      `<feed><entry><title>A</title><summary>a</summary></entry><entry><title>B</title><summ`,
			wantTitles: []string{"A"},
		},
		{
			name:       "unclosed child is closed by entry end tag",
			input:      `<feed><entry><title>A</title><summary>a</summary><author><name>X</entry><entry><title>B</title><summary>b</summary></entry></feed>`,
			wantTitles: []string{"A", "B"},
		},
		{
			name:       "stray end tags are ignored",
			input:      `<feed></bogus><entry></name><title>A</title><summary>a</summary></entry></feed>`,
			wantTitles: []string{"A"},
		},
		{
			name:       "namespaced entries",
			input:      `<atom:feed><atom:entry><atom:title>A</atom:title><atom:summary>a</atom:summary></atom:entry></atom:feed>`,
			wantTitles: []string{"A"},
		},
		{
			name:       "nested markup in title contributes text only",
			input:      `<entry><title>Spin <em>1/2</em>  chains</title><summary>a</summary></entry>`,
			wantTitles: []string{"Spin 1/2 chains"},
		},
		{
			name:  "no entries",
			input: `<feed><title>empty</title></feed>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ParseEntries(strings.NewReader(tt.input))
			require.NoError(t, err)
			var titles []string
			for _, e := range Complete(entries) {
				titles = append(titles, e.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestParseEntriesReportsReadErrors(t *testing.T) {
	_, err := ParseEntries(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestElementHelpers(t *testing.T) {
	var got *Element
	err := Elements(NewTokenizer(strings.NewReader(`<root><a k="v">x<b>y</b></a><a>z</a></root>`)), "root", func(el *Element) {
		got = el
	})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "xyz", got.Text())
	assert.Len(t, got.ChildElements("a"), 2)
	assert.Equal(t, "v", got.Child("a").Attr("k"))
	assert.Equal(t, "", got.Child("a").Attr("missing"))
	assert.Nil(t, got.Child("b"))
	assert.Len(t, got.Descendants("b"), 1)
}
