// Package extract runs the PDF to book-info pipeline.
package extract

import (
	"context"
	"log/slog"

	"github.com/thywilljoshua/pdf-bookinfo/internal/bookinfo"
)

// Run reads metadata from the PDF at pdfPath, looks the book up on Google
// Books, picks the best candidate and assembles the record. Any stage error
// aborts the run; nothing partial is returned.
func Run(ctx context.Context, pdfPath string, cfg Config) (bookinfo.BookInfo, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	ex := &Extractor{
		Completer:  cfg.Completer,
		StartPages: cfg.StartPages,
		MaxPages:   cfg.MaxPages,
		Logger:     log,
	}
	md, err := ex.Escalate(ctx, pdfPath)
	if err != nil {
		return bookinfo.BookInfo{}, err
	}
	log.Info("Extracted metadata", "title", md.Title, "edition", md.Edition, "isbns", md.ISBNs)

	candidates := cfg.Books.FetchCandidates(ctx, md.Title, md.ISBNs)
	log.Info("Fetched candidates", "count", len(candidates))

	best, err := SelectBestMatch(ctx, cfg.Completer, md.Title, md.Edition, candidates)
	if err != nil {
		return bookinfo.BookInfo{}, err
	}
	log.Debug("Selected candidate", "title", best.Title, "publisher", best.Publisher)

	formatter := cfg.Formatter
	if formatter == nil {
		formatter = bookinfo.MarkdownFormatter{Completer: cfg.Completer, Model: cfg.FormatModel}
	}
	return bookinfo.Assemble(ctx, formatter, best, md.Edition)
}
