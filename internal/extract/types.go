package extract

import (
	"context"
	"log/slog"

	"github.com/thywilljoshua/pdf-bookinfo/internal/ai"
	"github.com/thywilljoshua/pdf-bookinfo/internal/bookinfo"
	"github.com/thywilljoshua/pdf-bookinfo/internal/googlebooks"
)

// Page budgets for the escalation loop.
const (
	DefaultStartPages = 4
	DefaultMaxPages   = 16
)

// Metadata is what the model reads off the front matter.
type Metadata struct {
	Title   string   `json:"title"`
	Edition int      `json:"edition"`
	ISBNs   []string `json:"ISBNs"`
}

// CandidateFetcher looks up Google Books records for a title and ISBNs.
// *googlebooks.Client implements it.
type CandidateFetcher interface {
	FetchCandidates(ctx context.Context, title string, isbns []string) []googlebooks.Volume
}

type Config struct {
	// Completer answers the extraction and best-match prompts with its own default model.
	Completer ai.Completer
	Books     CandidateFetcher
	// Formatter defaults to a MarkdownFormatter on Completer using FormatModel.
	Formatter   bookinfo.Formatter
	FormatModel string
	StartPages  int
	MaxPages    int
	Logger      *slog.Logger
}
