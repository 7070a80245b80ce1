package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/pdf-bookinfo/internal/ai"
	"github.com/thywilljoshua/pdf-bookinfo/internal/bookinfo"
	"github.com/thywilljoshua/pdf-bookinfo/internal/config"
	"github.com/thywilljoshua/pdf-bookinfo/internal/extract"
	"github.com/thywilljoshua/pdf-bookinfo/internal/googlebooks"
)

// Replaced in tests.
var (
	loadConfig   = config.Load
	newCompleter = buildCompleter
	newBooks     = func(apiKey string) extract.CandidateFetcher { return googlebooks.NewClient(apiKey) }
	runPipeline  = extract.Run
)

// defaultGeminiFormatModel is the Gemini counterpart of bookinfo.DefaultFormatModel.
const defaultGeminiFormatModel = "gemini-2.5-pro"

func extractCmd() *cobra.Command {
	var provider string
	var model string
	var formatModel string
	var startPages int
	var maxPages int
	var timeout time.Duration
	var output string

	cmd := &cobra.Command{
		Use:   "extract <pdfPath>",
		Short: "Extract book information given a PDF file of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unknown output format %q (want json or yaml)", output)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("provider") {
				cfg.Provider = provider
			}
			if flags.Changed("model") {
				cfg.Model = model
			}
			if flags.Changed("format-model") {
				cfg.FormatModel = formatModel
			}
			if flags.Changed("start-pages") {
				cfg.StartPages = startPages
			}
			if flags.Changed("max-pages") {
				cfg.MaxPages = maxPages
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			completer, err := newCompleter(ctx, cfg)
			if err != nil {
				return err
			}
			if cfg.FormatModel == "" && cfg.Provider == config.ProviderGemini {
				cfg.FormatModel = defaultGeminiFormatModel
			}

			info, err := runPipeline(ctx, args[0], extract.Config{
				Completer:   completer,
				Books:       newBooks(cfg.GoogleBooksAPIKey),
				FormatModel: cfg.FormatModel,
				StartPages:  cfg.StartPages,
				MaxPages:    cfg.MaxPages,
				Logger:      slog.Default(),
			})
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), info, output)
		},
	}
	cmd.Flags().StringVar(&provider, "provider", config.ProviderOpenAI, "model provider: openai|gemini")
	cmd.Flags().StringVar(&model, "model", "", "model for extraction and matching (default: gpt-4o-mini or gemini-2.5-flash)")
	cmd.Flags().StringVar(&formatModel, "format-model", "", "model for the description rewrite (default: "+bookinfo.DefaultFormatModel+" or "+defaultGeminiFormatModel+")")
	cmd.Flags().IntVar(&startPages, "start-pages", extract.DefaultStartPages, "pages read on the first attempt")
	cmd.Flags().IntVar(&maxPages, "max-pages", extract.DefaultMaxPages, "page budget ceiling; doubled up to this while no ISBN is found")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort the whole run after this long (0 waits indefinitely)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "record format: json|yaml")
	return cmd
}

func writeRecord(w io.Writer, info bookinfo.BookInfo, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	}
	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func buildCompleter(ctx context.Context, cfg config.Config) (ai.Completer, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return ai.NewOpenAI(cfg.OpenAIAPIKey, cfg.Model), nil
	case config.ProviderGemini:
		return ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want %s or %s)", cfg.Provider, config.ProviderOpenAI, config.ProviderGemini)
	}
}
