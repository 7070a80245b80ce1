// Package pdftext pulls plain text out of the leading pages of a PDF.
package pdftext

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	rpdf "rsc.io/pdf"

	"github.com/thywilljoshua/pdf-bookinfo/internal/faults"
)

// ExtractText returns the text of every page whose zero-based index is below
// pages. Text items within a page are joined by a single space, in reading
// order (rows top to bottom, items left to right). Pages are concatenated
// without a separator.
func ExtractText(path string, pages int) (string, error) {
	f, r, err := open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return extract(r, pages)
}

// ExtractTextReader is ExtractText for an in-memory or already opened document.
func ExtractTextReader(ra io.ReaderAt, size int64, pages int) (string, error) {
	r, err := newReader(ra, size)
	if err != nil {
		return "", err
	}
	return extract(r, pages)
}

// PageCount returns the number of pages in the document at path. It only
// reads the page tree, so it is cheaper than a text pass.
func PageCount(path string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", faults.ErrIO, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", faults.ErrIO, err)
	}

	defer func() {
		if p := recover(); p != nil {
			n, err = 0, fmt.Errorf("%w: %v", faults.ErrParse, p)
		}
	}()
	doc, err := rpdf.NewReader(f, fi.Size())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", faults.ErrParse, err)
	}
	return doc.NumPage(), nil
}

func open(path string) (*os.File, *pdf.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", faults.ErrIO, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %v", faults.ErrIO, err)
	}
	r, err := newReader(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, r, nil
}

// newReader wraps pdf.NewReader, which panics on some malformed inputs.
func newReader(ra io.ReaderAt, size int64) (r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			r = nil
			err = fmt.Errorf("%w: %v", faults.ErrParse, p)
		}
	}()
	r, err = pdf.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", faults.ErrParse, err)
	}
	return r, nil
}

func extract(r *pdf.Reader, pages int) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			text = ""
			err = fmt.Errorf("%w: %v", faults.ErrParse, p)
		}
	}()

	n := r.NumPage()
	if pages > n {
		pages = n
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", faults.ErrParse, i, err)
		}
		b.WriteString(joinRows(rows))
	}
	return b.String(), nil
}

func joinRows(rows pdf.Rows) string {
	var items []string
	for _, row := range rows {
		for _, t := range row.Content {
			// Td operators show up as empty items.
			if t.S == "" {
				continue
			}
			items = append(items, t.S)
		}
	}
	return strings.Join(items, " ")
}
