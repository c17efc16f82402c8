// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-summarizer/internal/archive"
	"github.com/pdiddy/paper-summarizer/internal/pdfload"
	"github.com/pdiddy/paper-summarizer/internal/pipeline"
	"github.com/pdiddy/paper-summarizer/internal/task"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// pollInterval is how often the CLI polls task status.
const pollInterval = 200 * time.Millisecond

var summarizeCmd = &cobra.Command{
	Use:   "summarize FILE",
	Short: "Summarize a paper",
	Long: `Summarize runs the full pipeline on FILE (.pdf, .yaml, .yml or .json):
section extraction, hierarchical summarization, entity extraction and
process-graph generation. Progress is reported on stderr; the summary is
written to --out or stdout.

--timeout and Ctrl-C request cancellation; the run stops at the next
stage boundary.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	outPath, _ := cmd.Flags().GetString("out")
	save, _ := cmd.Flags().GetBool("save")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}

	input, err := pdfload.LoadFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Loaded %s: %d blocks\n", args[0], len(input.Blocks))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p, closeCaps, err := pipeline.FromConfig(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer closeCaps()

	m := task.NewManager(p, cfg.Tasks, slog.Default())
	defer m.Close()

	id, err := m.Submit(input.Document, input.PaperMeta)
	if err != nil {
		return err
	}

	final, err := follow(ctx, m, id, timeout, os.Stderr)
	if err != nil {
		return err
	}
	switch final.Status {
	case types.TaskFailed:
		return fmt.Errorf("summarization failed: %s", final.Error)
	case types.TaskCancelled:
		return fmt.Errorf("summarization cancelled")
	}

	if err := writeOutput(outPath, final.Result, format); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", outPath)
	}

	if save {
		store, err := archive.Open(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()
		e, err := store.Save(context.Background(), args[0], final.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Archived as %s\n", e.ID)
	}
	return nil
}

// follow polls the task until it is terminal, printing each new stage to
// w. Interrupts and the timeout are turned into a cancellation request.
func follow(ctx context.Context, m *task.Manager, id string, timeout time.Duration, w io.Writer) (types.Task, error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	interrupted := ctx.Done()
	lastProgress := -1
	for {
		snap, err := m.Get(id)
		if err != nil {
			return types.Task{}, err
		}
		if snap.Progress != lastProgress {
			fmt.Fprintf(w, "[%3d%%] %s\n", snap.Progress, snap.Message)
			lastProgress = snap.Progress
		}
		if snap.Status.Terminal() {
			return snap, nil
		}

		select {
		case <-ticker.C:
		case <-deadline:
			fmt.Fprintf(w, "Timed out after %s, cancelling\n", timeout)
			deadline = nil
			if _, err := m.Cancel(id); err != nil && !errors.Is(err, task.ErrNotFound) {
				return types.Task{}, err
			}
		case <-interrupted:
			fmt.Fprintln(w, "Interrupted, cancelling")
			interrupted = nil
			m.Cancel(id)
		}
	}
}

// writeOutput encodes v as yaml or json to path, or stdout when path is "".
func writeOutput(path string, v any, format string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	return encode(w, v, format)
}

func encode(w io.Writer, v any, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	summarizeCmd.Flags().String("out", "", "write the summary to this file instead of stdout")
	summarizeCmd.Flags().String("format", "yaml", "output format: yaml or json")
	summarizeCmd.Flags().Bool("save", false, "archive the summary in the local database")
	summarizeCmd.Flags().Duration("timeout", 0, "cancel the run after this long (0 = no limit)")
	summarizeCmd.Flags().String("generator", "", "generator backend: lead, claude or vertex")
	viper.BindPFlag("generator.backend", summarizeCmd.Flags().Lookup("generator"))

	rootCmd.AddCommand(summarizeCmd)
}
