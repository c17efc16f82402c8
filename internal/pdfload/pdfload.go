// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfload turns paper files into layout-tagged Documents.
//
// PDFs are read with pdfcpu. Each page content stream is parsed for text
// showing operators; the font size comes from Tf and the text matrix, the
// vertical position from Td, TD, T* and Tm, and boldness from the BaseFont of
// the font resource. Runs are grouped into blocks at style changes and
// paragraph gaps. Pre-extracted documents can also be loaded from Markdown,
// YAML or JSON files.
package pdfload

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// maxTitleChars bounds the text taken as a title guess.
const maxTitleChars = 200

// boldMarkers are BaseFont substrings that indicate a heavy weight. CMBX
// is the TeX bold extended face.
var boldMarkers = []string{"bold", "black", "heavy", "semibold", "demi", "medi", "cmbx"}

// LoadFile loads a paper from path, dispatching on the extension: .pdf is
// parsed with LoadPDF, .md and .markdown with ParseMarkdown, and .yaml,
// .yml and .json are read as DocumentFile records.
func LoadFile(path string) (types.DocumentFile, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		doc, err := LoadPDF(path)
		if err != nil {
			return types.DocumentFile{}, err
		}
		return types.DocumentFile{PaperMeta: types.PaperMeta{Title: GuessTitle(doc)}, Document: doc}, nil
	case ".md", ".markdown":
		data, err := os.ReadFile(path)
		if err != nil {
			return types.DocumentFile{}, fmt.Errorf("reading %s: %w", path, err)
		}
		doc := ParseMarkdown(string(data))
		return types.DocumentFile{PaperMeta: types.PaperMeta{Title: GuessTitle(doc)}, Document: doc}, nil
	case ".yaml", ".yml", ".json":
		return loadRecord(path, ext)
	default:
		return types.DocumentFile{}, fmt.Errorf("unsupported input %s: want .pdf, .md, .yaml, .yml or .json", path)
	}
}

func loadRecord(path, ext string) (types.DocumentFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.DocumentFile{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var f types.DocumentFile
	if ext == ".json" {
		err = json.Unmarshal(data, &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return types.DocumentFile{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// LoadPDF extracts layout-tagged text blocks from the PDF at path.
func LoadPDF(path string) (types.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Document{}, err
	}
	defer f.Close()
	return ReadPDF(f)
}

// ReadPDF extracts layout-tagged text blocks from a PDF stream.
func ReadPDF(rs io.ReadSeeker) (types.Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return types.Document{}, fmt.Errorf("pdfcpu read: %w", err)
	}

	var bb blockBuilder
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil || len(data) == 0 {
			continue
		}

		bb.newPage(pageNr - 1)
		for _, run := range parseContent(data, fontWeights(ctx, pageNr)) {
			bb.add(run)
		}
	}
	bb.flush()

	if len(bb.blocks) == 0 {
		return types.Document{}, fmt.Errorf("no text content found in PDF")
	}
	return types.Document{Blocks: bb.blocks}, nil
}

// fontWeights maps the font resource names of a page to whether the font
// is bold. Lookup failures leave a font regular.
func fontWeights(ctx *model.Context, pageNr int) map[string]bool {
	weights := make(map[string]bool)
	_, _, inh, err := ctx.PageDict(pageNr, false)
	if err != nil || inh == nil || inh.Resources == nil {
		return weights
	}
	obj, ok := inh.Resources.Find("Font")
	if !ok {
		return weights
	}
	fonts, err := ctx.DereferenceDict(obj)
	if err != nil || fonts == nil {
		return weights
	}
	for name, ref := range fonts {
		fd, err := ctx.DereferenceDict(ref)
		if err != nil || fd == nil {
			continue
		}
		if base := fd.NameEntry("BaseFont"); base != nil {
			weights[name] = isBoldFont(*base)
		}
	}
	return weights
}

func isBoldFont(baseFont string) bool {
	name := strings.ToLower(baseFont)
	for _, m := range boldMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// GuessTitle returns the text of the largest-font block on the first page,
// or "" when the document has no layout.
func GuessTitle(doc types.Document) string {
	var best *types.Block
	for i := range doc.Blocks {
		b := &doc.Blocks[i]
		if b.PageIndex > 0 {
			break
		}
		if b.FontSize <= 0 || len(b.Text) > maxTitleChars {
			continue
		}
		if best == nil || b.FontSize > best.FontSize {
			best = b
		}
	}
	if best == nil {
		return ""
	}
	return best.Text
}
