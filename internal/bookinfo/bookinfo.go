// Package bookinfo maps a matched Google Books volume onto the output record.
package bookinfo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thywilljoshua/pdf-bookinfo/internal/googlebooks"
)

// BookInfo is the assembled record. A field missing from the matched volume
// is left out of the JSON rather than defaulted. Edition is always written,
// with 0 when the extraction gave none.
type BookInfo struct {
	Title         string     `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle      string     `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Edition       int        `json:"edition" yaml:"edition"`
	Authors       []string   `json:"authors,omitempty" yaml:"authors,omitempty"`
	Publisher     string     `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublishedDate *time.Time `json:"publishedDate,omitempty" yaml:"publishedDate,omitempty"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`
	ISBN10        string     `json:"isbn10,omitempty" yaml:"isbn10,omitempty"`
	ISBN13        string     `json:"isbn13,omitempty" yaml:"isbn13,omitempty"`
	PageCount     int        `json:"pageCount,omitempty" yaml:"pageCount,omitempty"`
	ThumbnailLink string     `json:"thumbnailLink,omitempty" yaml:"thumbnailLink,omitempty"`
	PreviewLink   string     `json:"previewLink,omitempty" yaml:"previewLink,omitempty"`
}

// Formatter rewrites a free-text description.
type Formatter interface {
	FormatDescription(ctx context.Context, description string) (string, error)
}

// Assemble builds a BookInfo from v. The edition always comes from the
// caller, since Google Books records carry none. If v has a description it
// is passed through f; a formatting failure discards the whole record.
func Assemble(ctx context.Context, f Formatter, v googlebooks.Volume, edition int) (BookInfo, error) {
	info := BookInfo{
		Title:       v.Title,
		Subtitle:    v.Subtitle,
		Edition:     edition,
		Authors:     v.Authors,
		Publisher:   v.Publisher,
		PageCount:   v.PageCount,
		PreviewLink: v.PreviewLink,
	}
	if v.ImageLinks != nil {
		info.ThumbnailLink = v.ImageLinks.Thumbnail
	}

	if v.PublishedDate != "" {
		if t, err := ParsePublishedDate(v.PublishedDate); err == nil {
			info.PublishedDate = &t
		} else {
			slog.Warn("Ignoring unparsable published date", "publishedDate", v.PublishedDate, "error", err)
		}
	}

	for _, id := range v.IndustryIdentifiers {
		switch id.Type {
		case googlebooks.ISBN10:
			info.ISBN10 = id.Identifier
		case googlebooks.ISBN13:
			info.ISBN13 = id.Identifier
		}
	}

	if v.Description != "" {
		desc, err := f.FormatDescription(ctx, v.Description)
		if err != nil {
			return BookInfo{}, err
		}
		info.Description = desc
	}
	return info, nil
}

var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// ParsePublishedDate accepts the precisions Google Books uses: a year, a
// year and month, or a full date. The result is in UTC.
func ParsePublishedDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
