package analysis

import (
	"github.com/bsharp-lang/bsharp/internal/workspace"
	"github.com/bsharp-lang/bsharp/pkg/ast"
	"github.com/bsharp-lang/bsharp/pkg/diag"
	"github.com/bsharp-lang/bsharp/pkg/span"
)

// Context carries the per-file identity a session is created from: the
// file path (used in diagnostic locations) and the raw source text (used
// to recompute line/column from a byte offset). Grounded on
// original_source/src/bsharp_analysis/src/framework/session.rs's
// AnalysisContext{file, source, config}, realized here without an embedded
// Config field since Session already owns one directly.
type Context struct {
	File   string
	Source string
}

// Session is a single analysis run: one parsed CompilationUnit, its span
// table, the diagnostics accumulated by passes and rules, the artifact
// store those passes publish into, and the configuration governing which
// passes and rulesets are active. Mirrors the teacher's Analyzer
// single-struct-accumulator style (internal/semantic/analyzer.go),
// generalized so passes read/write a shared store instead of named struct
// fields.
type Session struct {
	Unit        *ast.CompilationUnit
	Context     Context
	Spans       *span.Table
	Diagnostics *diag.Collection
	Config      *Config

	// Project is set only for a workspace-driven run; nil for a
	// single-file session. Grounded on original_source's
	// AnalysisSession.project: Option<Project>.
	Project *workspace.Project

	artifacts *ArtifactStore
}

// New creates a session for one parsed file. cfg may be nil, in which case
// DefaultConfig() is used.
func New(unit *ast.CompilationUnit, ctx Context, spans *span.Table, cfg *Config) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Session{
		Unit:        unit,
		Context:     ctx,
		Spans:       spans,
		Diagnostics: &diag.Collection{},
		Config:      cfg,
		artifacts:   NewArtifactStore(),
	}
}

// Artifacts returns the session's artifact store.
func (s *Session) Artifacts() *ArtifactStore { return s.artifacts }

// LocationFromSpan converts a node's recorded span into a diag.Location,
// recomputing line/column from the session's source text. Returns nil if
// the node has no recorded span.
func (s *Session) LocationFromSpan(id span.NodeID) *diag.Location {
	sp, ok := s.Spans.Lookup(id)
	if !ok {
		return nil
	}
	return &diag.Location{
		File:   s.Context.File,
		Line:   sp.Text.Start.Line,
		Column: sp.Text.Start.Column,
		Length: sp.Bytes.Len(),
	}
}

// LocationForNode is a convenience wrapper around LocationFromSpan for
// callers holding an ast.Node rather than a bare NodeID.
func (s *Session) LocationForNode(n ast.Node) *diag.Location {
	if n == nil {
		return nil
	}
	return s.LocationFromSpan(n.ID())
}
