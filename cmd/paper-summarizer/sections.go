// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-summarizer/internal/pdfload"
	"github.com/pdiddy/paper-summarizer/internal/sections"
	"github.com/pdiddy/paper-summarizer/internal/textutil"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections FILE",
	Short: "Show the sections detected in a paper",
	Long: `Sections runs only the section extractor on FILE and lists the canonical
sections found, in document order, with their word counts. Use it to check
how a paper will be split before summarizing it, or to tune a custom
section vocabulary (sections.vocabulary_file).`,
	Args: cobra.ExactArgs(1),
	RunE: runSections,
}

func runSections(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}

	vocab := sections.DefaultVocabulary()
	if cfg.Sections.VocabularyFile != "" {
		if vocab, err = sections.LoadVocabulary(cfg.Sections.VocabularyFile); err != nil {
			return err
		}
	}

	input, err := pdfload.LoadFile(args[0])
	if err != nil {
		return err
	}
	m, err := sections.New(cfg.Sections, vocab, slog.Default()).Extract(input.Document)
	if err != nil {
		return err
	}

	if input.Title != "" {
		fmt.Fprintf(os.Stdout, "Title: %s\n\n", input.Title)
	}
	fmt.Fprintf(os.Stdout, "%-14s  %6s  %s\n", "Section", "Words", "Opening")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, s := range m {
		opening := s.Text
		if len(opening) > 54 {
			opening = opening[:51] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-14s  %6d  %s\n", s.Key, textutil.WordCount(s.Text), opening)
	}
	fmt.Fprintf(os.Stdout, "\n%d sections\n", len(m))
	return nil
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}
