// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"

	"github.com/pdiddy/knowmap/internal/httputil"
	"github.com/pdiddy/knowmap/internal/search"
	"github.com/pdiddy/knowmap/pkg/types"
)

// buildOrchestrator wires the three provider backends in registry order:
// encyclopedia, papers, news.
func buildOrchestrator(cfg types.SearchConfig, logger *slog.Logger) (*search.Orchestrator, error) {
	client := httputil.NewClient(cfg.HTTPConfig)
	reg, err := search.NewRegistry(
		&search.WikipediaBackend{Client: client, UserAgent: cfg.UserAgent, Logger: logger},
		&search.ArxivBackend{Client: client, UserAgent: cfg.UserAgent, Logger: logger},
		&search.NewsBackend{Client: client, APIKey: cfg.NewsAPIKey, UserAgent: cfg.UserAgent, Logger: logger},
	)
	if err != nil {
		return nil, err
	}
	return search.New(reg, logger), nil
}
