// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/knowmap/pkg/types"
)

// Format selects how results are written.
type Format string

// Output formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSL   Format = "csl"
)

// ParseFormat validates a format name. An empty name means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML, FormatCSL:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json, yaml or csl)", s)
}

// WriteResult writes a single-source Result in format f.
func WriteResult(w io.Writer, f Format, r types.Result) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	case FormatCSL:
		return WriteCSL(w, papersOf(r))
	}
	writeResultTable(w, r)
	return nil
}

// WriteCombined writes a multi-source CombinedResult in format f. The csl
// format emits the papers of every papers Result, in source order.
func WriteCombined(w io.Writer, f Format, c types.CombinedResult) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, c)
	case FormatYAML:
		return writeYAML(w, c)
	case FormatCSL:
		var papers []types.Paper
		for _, k := range c.Data.Keys() {
			r, _ := c.Data.Get(k)
			papers = append(papers, papersOf(r)...)
		}
		return WriteCSL(w, papers)
	}

	if c.Data == nil {
		fmt.Fprintf(w, "Error: %s\n", c.Message)
		return nil
	}
	for i, k := range c.Data.Keys() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		r, _ := c.Data.Get(k)
		fmt.Fprintf(w, "== %s ==\n", k)
		writeResultTable(w, r)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}

func papersOf(r types.Result) []types.Paper {
	if p, ok := r.Data.(*types.PapersPayload); ok && p != nil {
		return p.Papers
	}
	return nil
}

func writeResultTable(w io.Writer, r types.Result) {
	if !r.Success {
		fmt.Fprintf(w, "%s: %s\n", r.Source, r.Message)
		return
	}

	switch p := r.Data.(type) {
	case *types.EncyclopediaPayload:
		fmt.Fprintf(w, "%s\n%s\n\n%s\n", p.Title, p.URL, p.Extract)
		if len(p.RelatedResults) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%-4s  %-40s  %s\n", "Rank", "Related", "Snippet")
		fmt.Fprintln(w, strings.Repeat("-", 100))
		for i, rr := range p.RelatedResults {
			fmt.Fprintf(w, "%-4d  %-40s  %s\n", i+1, truncate(rr.Title, 40), truncate(rr.Snippet, 54))
		}

	case *types.PapersPayload:
		fmt.Fprintf(w, "%-4s  %-50s  %-25s  %-10s  %s\n", "Rank", "Title", "Authors", "Published", "URL")
		fmt.Fprintln(w, strings.Repeat("-", 130))
		for i, paper := range p.Papers {
			fmt.Fprintf(w, "%-4d  %-50s  %-25s  %-10s  %s\n",
				i+1, truncate(paper.Title, 50), truncate(strings.Join(paper.Authors, ", "), 25),
				truncate(paper.Published, 10), paper.URL)
		}
		fmt.Fprintf(w, "\n%d results\n", p.TotalResults)

	case *types.NewsPayload:
		fmt.Fprintf(w, "%-4s  %-60s  %-20s  %s\n", "Rank", "Title", "Outlet", "URL")
		fmt.Fprintln(w, strings.Repeat("-", 130))
		for i, a := range p.Articles {
			fmt.Fprintf(w, "%-4d  %-60s  %-20s  %s\n",
				i+1, truncate(a.Title, 60), truncate(a.Source.Name, 20), a.URL)
		}
		fmt.Fprintf(w, "\n%d of %d results\n", len(p.Articles), p.TotalResults)
	}
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
