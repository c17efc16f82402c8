// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-summarizer pipeline:
// the input Document, the SectionMap produced by section extraction, the
// per-section and paper-level summaries, and the Task record exposed to callers
// through the status-polling surface.
package types
