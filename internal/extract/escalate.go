package extract

import (
	"context"
	"log/slog"

	"github.com/thywilljoshua/pdf-bookinfo/internal/ai"
	"github.com/thywilljoshua/pdf-bookinfo/internal/pdftext"
)

// Extractor reads metadata from a PDF, widening the page budget until the
// model reports at least one ISBN.
type Extractor struct {
	Completer  ai.Completer
	StartPages int
	MaxPages   int
	Logger     *slog.Logger

	// ExtractText defaults to pdftext.ExtractText.
	ExtractText func(path string, pages int) (string, error)
	// PageCount defaults to pdftext.PageCount.
	PageCount func(path string) (int, error)
}

// Escalate runs extraction and inference at the start budget, doubling it
// after every attempt without ISBNs. Each budget is tried at most once. When
// the ceiling or the end of the document is reached without ISBNs the last
// result is returned as is, so the caller can fall back to a title search.
func (e *Extractor) Escalate(ctx context.Context, path string) (Metadata, error) {
	start, ceiling := e.budgets()
	log := e.logger()

	// An unreadable page tree leaves the budgets uncapped; ExtractText reports
	// the real failure.
	total, err := e.pageCount()(path)
	if err != nil {
		log.Debug("Page count unavailable", "path", path, "error", err)
		total = 0
	}

	pages := start
	for {
		text, err := e.extractText()(path, pages)
		if err != nil {
			return Metadata{}, err
		}
		md, err := InferMetadata(ctx, e.Completer, text)
		if err != nil {
			return Metadata{}, err
		}
		log.Debug("Extraction attempt", "pages", pages, "title", md.Title, "edition", md.Edition, "isbns", len(md.ISBNs))

		if len(md.ISBNs) > 0 {
			return md, nil
		}
		if pages >= ceiling {
			log.Info("No ISBNs found, falling back to title search", "pages", pages, "title", md.Title)
			return md, nil
		}
		if total > 0 && pages >= total {
			log.Info("No ISBNs in the whole document, falling back to title search", "pages", total, "title", md.Title)
			return md, nil
		}
		pages = min(pages*2, ceiling)
	}
}

func (e *Extractor) budgets() (start, ceiling int) {
	start, ceiling = e.StartPages, e.MaxPages
	if start <= 0 {
		start = DefaultStartPages
	}
	if ceiling <= 0 {
		ceiling = DefaultMaxPages
	}
	if start > ceiling {
		start = ceiling
	}
	return start, ceiling
}

func (e *Extractor) extractText() func(string, int) (string, error) {
	if e.ExtractText == nil {
		return pdftext.ExtractText
	}
	return e.ExtractText
}

func (e *Extractor) pageCount() func(string) (int, error) {
	if e.PageCount == nil {
		return pdftext.PageCount
	}
	return e.PageCount
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}
