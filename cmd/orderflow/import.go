package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orderflow/orderflow/internal/common"
	"github.com/orderflow/orderflow/internal/engine"
	"github.com/orderflow/orderflow/internal/export"
	"github.com/orderflow/orderflow/internal/model"
	"github.com/orderflow/orderflow/internal/parse"
	"github.com/orderflow/orderflow/internal/tui"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import and categorize a product list",
		Long: `Parse a freeform product list (one product per line, trailing price),
categorize each product with the configured model, and export the result.

Reads from the given file, or from stdin when no file is provided. Use
--interactive to review, edit and delete records in a live table before
exporting.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().IntP("workers", "w", 0, "max suggestion calls in flight at once (default 4)")
	cmd.Flags().StringP("format", "f", "csv", "export format (csv, json)")
	cmd.Flags().StringP("output", "o", ".", "directory for export artifacts")
	cmd.Flags().BoolP("interactive", "i", false, "review records in an interactive table")
	cmd.Flags().String("provider", "", "suggestion provider (openai, anthropic, gemini, mock)")
	cmd.Flags().String("model", "", "model name override")
	cmd.Flags().Bool("no-history", false, "do not record this run in the database")

	_ = viper.BindPFlag("import.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("import.format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("import.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("import.no_history", cmd.Flags().Lookup("no-history"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Flag overrides for the llm config keys
	if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
		viper.Set("llm.provider", provider)
	}
	if modelName, _ := cmd.Flags().GetString("model"); modelName != "" {
		viper.Set("llm.model", modelName)
	}

	format, err := export.ParseFormat(viper.GetString("import.format"))
	if err != nil {
		return err
	}

	source, text, err := readInput(args)
	if err != nil {
		return err
	}

	products := parse.Products(text)
	if len(products) == 0 {
		return common.NewUserError("no product lines found in input", common.ErrNothingToImport)
	}
	slog.Info("parsed product lines", "count", len(products), "source", source)

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	categories, err := store.CategoryNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	suggester, closeSuggester, err := newSuggester(ctx, categories)
	if err != nil {
		return err
	}
	defer closeSuggester()

	session := engine.NewSession(products, suggester, engine.Config{
		Workers: viper.GetInt("import.workers"),
	}, slog.Default())

	outputDir := viper.GetString("import.output")

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if err := tui.Run(ctx, session, outputDir); err != nil {
			return err
		}
	} else {
		if err := runBatch(ctx, session); err != nil {
			return err
		}

		path := filepath.Join(outputDir, export.DefaultFileName(format))
		switch err := export.WriteFile(path, format, session.Snapshot()); {
		case errors.Is(err, common.ErrNothingToExport):
			slog.Info("nothing to export")
		case err != nil:
			return err
		default:
			slog.Info("wrote export artifact", "path", path)
		}
	}

	if !viper.GetBool("import.no_history") {
		if _, err := store.RecordImportRun(ctx, session.Summary(source)); err != nil {
			slog.Warn("failed to record import run", "error", err)
		}
	}

	printSummary(session)
	return nil
}

// readInput loads the product text from the file argument or stdin.
func readInput(args []string) (source, text string, err error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read input file: %w", err)
		}
		return filepath.Base(args[0]), string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return "stdin", string(data), nil
}

// runBatch drives the suggestion fan-out with a progress bar, one tick per
// settled record.
func runBatch(ctx context.Context, session *engine.Session) error {
	totals := session.Totals()
	bar := progressbar.NewOptions(totals.Count,
		progressbar.OptionSetDescription("categorizing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range session.Events() {
			if ev.Status == model.StatusProcessed || ev.Status == model.StatusError {
				_ = bar.Add(1)
			}
		}
	}()

	if err := session.Run(ctx); err != nil {
		return err
	}
	<-done
	_ = bar.Finish()

	return nil
}

// printSummary prints the per-status counts after a run.
func printSummary(session *engine.Session) {
	var processed, errored int
	for _, r := range session.Snapshot() {
		switch r.Status {
		case model.StatusProcessed:
			processed++
		case model.StatusError:
			errored++
		}
	}

	totals := session.Totals()
	slog.Info("import finished",
		"items", totals.Count,
		"categorized", processed,
		"failed", errored,
		"total_price", fmt.Sprintf("%.2f", totals.Sum))
}
