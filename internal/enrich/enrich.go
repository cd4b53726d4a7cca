// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich derives paper metadata (tags, institution, contributions,
// summary, mindmap) from an LLM given the title, abstract, and first-page
// text. Enrichment is best-effort: parse tolerance means absent reply keys
// yield empty fields, never errors.
package enrich

import (
	"context"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// Input is the paper content sent to the model.
type Input struct {
	Title    string
	Abstract string

	// FirstPageText is page-1 text, already capped by the extractor.
	FirstPageText string
}

// Backend abstracts the LLM API so tests can supply a mock. Implementations
// return the raw reply text; parsing is the caller's concern.
type Backend interface {
	Complete(ctx context.Context, in Input) (string, error)
}

// Enrich calls the backend and parses its reply. A backend error is
// returned as-is with a zero-value enrichment so callers can degrade the
// record instead of failing the run.
func Enrich(ctx context.Context, b Backend, in Input) (types.Enrichment, error) {
	reply, err := b.Complete(ctx, in)
	if err != nil {
		return types.Enrichment{}, err
	}
	return ParseReply(reply), nil
}
