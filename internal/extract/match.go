package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/thywilljoshua/pdf-bookinfo/internal/ai"
	"github.com/thywilljoshua/pdf-bookinfo/internal/faults"
	"github.com/thywilljoshua/pdf-bookinfo/internal/googlebooks"
)

const matchSystem = `You are a helpful assistant that given a title and edition number can select the best matching record
from a list of possible matches generated by the google book search api.
You will return your result as the number of the best match record in the list, as an integer, without any markdown.`

const matchPrompt = `Given the following list of possible matches
%s
Find the best match for the following title and edition number:
Title: %s
Edition: %d`

// SelectBestMatch lists the candidates (numbered from 1) and asks the model
// which one is the book with the given title and edition.
func SelectBestMatch(ctx context.Context, c ai.Completer, title string, edition int, candidates []googlebooks.Volume) (googlebooks.Volume, error) {
	if len(candidates) == 0 {
		return googlebooks.Volume{}, fmt.Errorf("%w: no candidates for %q", faults.ErrSelection, title)
	}

	list := make([]string, len(candidates))
	for i, v := range candidates {
		b, err := json.Marshal(v)
		if err != nil {
			return googlebooks.Volume{}, fmt.Errorf("%w: encoding candidate %d: %v", faults.ErrSelection, i+1, err)
		}
		list[i] = fmt.Sprintf("Book %d: %s", i+1, b)
	}

	out, err := c.Complete(ctx, ai.Request{
		System:      matchSystem,
		Prompt:      fmt.Sprintf(matchPrompt, strings.Join(list, "\n\n"), title, edition),
		Temperature: 0,
	})
	if err != nil {
		return googlebooks.Volume{}, fmt.Errorf("%w: %v", faults.ErrSelection, err)
	}

	idx, err := ParseChoice(out, len(candidates))
	if err != nil {
		return googlebooks.Volume{}, err
	}
	return candidates[idx], nil
}

// ParseChoice turns a reply like "Book 3" into the zero-based index 2. Every
// non-digit is dropped before parsing. The number must be within [1, n].
func ParseChoice(reply string, n int) (int, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, reply)
	if digits == "" {
		return 0, fmt.Errorf("%w: no number in reply %q", faults.ErrSelection, strings.TrimSpace(reply))
	}
	k, err := strconv.Atoi(digits)
	if err != nil || k < 1 || k > n {
		return 0, fmt.Errorf("%w: reply %q is not a record between 1 and %d", faults.ErrSelection, strings.TrimSpace(reply), n)
	}
	return k - 1, nil
}
