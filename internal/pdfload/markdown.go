// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfload

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// Synthetic font sizes for Markdown input. Headings get a size above the
// body so the layout path of the section extractor applies.
const (
	markdownBodySize = 10.0
	markdownH1Size   = 22.0
)

// ParseMarkdown converts Markdown, as produced by PDF-to-Markdown tools,
// into blocks. Headings become bold blocks sized by level, paragraphs
// become body blocks, <!-- page N --> comments set the page index and
// fenced code is dropped.
func ParseMarkdown(content string) types.Document {
	var (
		doc     types.Document
		para    []string
		page    int
		inFence bool
	)
	flush := func() {
		if len(para) > 0 {
			doc.Blocks = append(doc.Blocks, types.Block{
				Text:      strings.Join(para, " "),
				FontSize:  markdownBodySize,
				PageIndex: page,
			})
			para = nil
		}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			flush()
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if n, ok := pageMarker(trimmed); ok {
			flush()
			page = n - 1
			continue
		}
		if level, text := heading(trimmed); level > 0 {
			flush()
			doc.Blocks = append(doc.Blocks, types.Block{
				Text:      text,
				FontSize:  markdownH1Size - 2*float64(level-1),
				IsBold:    true,
				PageIndex: page,
			})
			continue
		}
		if trimmed == "" {
			flush()
			continue
		}
		para = append(para, trimmed)
	}
	flush()
	return doc
}

// heading returns the level and text of an ATX heading line.
func heading(line string) (int, string) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level >= len(line) || line[level] != ' ' {
		return 0, ""
	}
	text := strings.TrimSpace(strings.TrimRight(line[level:], "#"))
	if text == "" {
		return 0, ""
	}
	return level, strings.Trim(text, "*_")
}

// pageMarker parses an HTML comment like <!-- page 3 -->.
func pageMarker(line string) (int, bool) {
	if !strings.HasPrefix(line, "<!-- page ") || !strings.HasSuffix(line, " -->") {
		return 0, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "<!-- page "), " -->")
	var page int
	if _, err := fmt.Sscanf(inner, "%d", &page); err != nil || page < 1 {
		return 0, false
	}
	return page, true
}
