package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/thywilljoshua/pdf-bookinfo/internal/ai"
	"github.com/thywilljoshua/pdf-bookinfo/internal/faults"
)

const metadataSystem = `You are a helpful assistant that can find the title, edition number and ISBNs from the text of a book.
You will return your results as JSON without any markdown, with the keys "title", "edition" and "ISBNs".
You will return the edition number as an integer, separately from the title.
You will only return ISBNs that are actually present in the text, and that are in valid ISBN10 or ISBN13 format.`

const metadataPrompt = `Here is the text extracted from a book. Can you extract the title, edition and ISBNs for me? %s`

// InferMetadata asks the model for the title, edition and ISBNs in text.
func InferMetadata(ctx context.Context, c ai.Completer, text string) (Metadata, error) {
	out, err := c.Complete(ctx, ai.Request{
		System:      metadataSystem,
		Prompt:      fmt.Sprintf(metadataPrompt, text),
		Temperature: 0,
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", faults.ErrExtraction, err)
	}
	return DecodeMetadata(out)
}

// DecodeMetadata parses a model reply. The title, edition and ISBNs keys
// must all be present; a null edition is 0 and null ISBNs are none.
func DecodeMetadata(text string) (Metadata, error) {
	var raw map[string]json.RawMessage
	if err := ai.DecodeJSON(text, &raw); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", faults.ErrExtraction, err)
	}
	for _, key := range []string{"title", "edition", "ISBNs"} {
		if _, ok := raw[key]; !ok {
			return Metadata{}, fmt.Errorf("%w: response has no %q field", faults.ErrExtraction, key)
		}
	}

	var md Metadata
	if err := json.Unmarshal(raw["title"], &md.Title); err != nil {
		return Metadata{}, fmt.Errorf("%w: title: %v", faults.ErrExtraction, err)
	}
	if err := json.Unmarshal(raw["edition"], &md.Edition); err != nil {
		return Metadata{}, fmt.Errorf("%w: edition: %v", faults.ErrExtraction, err)
	}
	if err := json.Unmarshal(raw["ISBNs"], &md.ISBNs); err != nil {
		return Metadata{}, fmt.Errorf("%w: ISBNs: %v", faults.ErrExtraction, err)
	}
	return md, nil
}
