// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Block is one layout-tagged text block of an extracted paper. FontSize is 0
// when the source carried no layout metadata.
type Block struct {
	// Text is the block's text content.
	Text string `json:"text" yaml:"text"`

	// FontSize is the largest font size used in the block, in points.
	FontSize float64 `json:"font_size" yaml:"font_size"`

	// IsBold reports whether any span in the block used a bold face.
	IsBold bool `json:"is_bold" yaml:"is_bold"`

	// PageIndex is the zero-based page on which the block starts.
	PageIndex int `json:"page_index" yaml:"page_index"`

	// YPosition is the block's vertical position on its page.
	YPosition float64 `json:"y_position" yaml:"y_position"`
}

// Document is the raw extracted text of a paper as an ordered list of blocks.
// It is immutable once extracted.
type Document struct {
	// Blocks holds the text blocks in reading order.
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// HasLayout reports whether any block carries font metadata.
func (d Document) HasLayout() bool {
	for _, b := range d.Blocks {
		if b.FontSize > 0 || b.IsBold {
			return true
		}
	}
	return false
}

// PaperMeta is minimal paper metadata. It is passed through to the result
// unaltered.
type PaperMeta struct {
	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`
}

// DocumentFile is the on-disk form of a pre-extracted paper: metadata plus
// blocks. Used by the CLI when the input is not a PDF.
type DocumentFile struct {
	PaperMeta `yaml:",inline"`

	Document `yaml:",inline"`
}
