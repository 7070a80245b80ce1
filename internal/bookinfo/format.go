package bookinfo

import (
	"context"
	"fmt"

	"github.com/thywilljoshua/pdf-bookinfo/internal/ai"
	"github.com/thywilljoshua/pdf-bookinfo/internal/faults"
)

const (
	// DefaultFormatModel is used when MarkdownFormatter.Model is empty.
	DefaultFormatModel = "gpt-4o"
	// FormatTemperature lets the rewrite vary in style between runs.
	FormatTemperature = 0.7
)

const formatSystem = `You are a helpful assistant that can reorganize text into structured Markdown format.`

const formatPrompt = `Given the following description of a book, restructure it into structured Markdown format.
It should not include the title, authors, or a top level heading such as "Description".
"%s"`

// MarkdownFormatter asks a model to restructure a description as Markdown.
type MarkdownFormatter struct {
	Completer ai.Completer
	Model     string
}

func (m MarkdownFormatter) FormatDescription(ctx context.Context, description string) (string, error) {
	model := m.Model
	if model == "" {
		model = DefaultFormatModel
	}
	out, err := m.Completer.Complete(ctx, ai.Request{
		Model:       model,
		System:      formatSystem,
		Prompt:      fmt.Sprintf(formatPrompt, description),
		Temperature: FormatTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", faults.ErrFormatting, err)
	}
	return ai.StripCodeFences(out), nil
}
