// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-summarizer/internal/archive"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived summaries",
	Long: `History lists and shows summaries archived with "summarize --save".
The archive is a SQLite database under archive.dir.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived summaries, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table", "yaml", "json":
	default:
		return fmt.Errorf("unsupported format %q: use table, yaml or json", format)
	}

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Search(context.Background(), query, limit)
	if err != nil {
		return err
	}
	if format != "table" {
		return encode(os.Stdout, entries, format)
	}

	if len(entries) == 0 {
		fmt.Println("No summaries found.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-40s  %s\n", "ID", "Created", "Title", "Keywords")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = e.Source
		}
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		kw := e.Keywords
		if len(kw) > 3 {
			kw = kw[:3]
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-40s  %s\n",
			e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), title, strings.Join(kw, ", "))
	}
	fmt.Fprintf(os.Stdout, "\n%d summaries\n", len(entries))
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print an archived summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}
	return encode(os.Stdout, rec, format)
}

func openArchive() (*archive.Store, error) {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, err
	}
	return archive.Open(cfg.Archive)
}

func init() {
	historyListCmd.Flags().String("query", "", "only list summaries whose title, summary or keywords contain this text")
	historyListCmd.Flags().Int("limit", 20, "maximum number of entries")
	historyListCmd.Flags().String("format", "table", "output format: table, yaml or json")

	historyShowCmd.Flags().String("format", "yaml", "output format: yaml or json")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)

	rootCmd.AddCommand(historyCmd)
}
