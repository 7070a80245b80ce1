// Package faults defines the error categories a bookinfo run can fail with.
package faults

import (
	"errors"
)

// Error categories. Stages wrap these with fmt.Errorf("%w: ...") so callers
// can classify a failure with errors.Is.
var (
	// ErrIO indicates the PDF file could not be read.
	ErrIO = errors.New("cannot read file")

	// ErrParse indicates the file is not a parseable PDF document.
	ErrParse = errors.New("cannot parse PDF")

	// ErrExtraction indicates the model response for title, edition and ISBNs was unusable.
	ErrExtraction = errors.New("failed to extract title, edition and ISBNs")

	// ErrSelection indicates the best matching record could not be selected.
	ErrSelection = errors.New("failed to select best matching book")

	// ErrFormatting indicates the description could not be converted to Markdown.
	ErrFormatting = errors.New("failed to format description")

	// ErrNetwork indicates a transport or HTTP failure talking to a remote service.
	ErrNetwork = errors.New("network error")
)

type category struct {
	err   error
	label string
	exit  int
}

var categories = []category{
	{ErrIO, "io", 2},
	{ErrParse, "parse", 3},
	{ErrExtraction, "extraction", 4},
	{ErrSelection, "selection", 5},
	{ErrFormatting, "formatting", 6},
	{ErrNetwork, "network", 7},
}

// Category returns a short label for the first category err belongs to,
// or "unknown".
func Category(err error) string {
	for _, c := range categories {
		if errors.Is(err, c.err) {
			return c.label
		}
	}
	return "unknown"
}

// ExitCode maps err to the process exit status. Nil is 0, uncategorised errors are 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	for _, c := range categories {
		if errors.Is(err, c.err) {
			return c.exit
		}
	}
	return 1
}
