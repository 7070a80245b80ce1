package bookinfo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-bookinfo/internal/ai"
	"github.com/thywilljoshua/pdf-bookinfo/internal/faults"
	"github.com/thywilljoshua/pdf-bookinfo/internal/googlebooks"
)

type fakeFormatter struct {
	calls []string
	out   string
	err   error
}

func (f *fakeFormatter) FormatDescription(_ context.Context, description string) (string, error) {
	f.calls = append(f.calls, description)
	return f.out, f.err
}

func TestAssembleCopiesPresentFields(t *testing.T) {
	v := googlebooks.Volume{
		Title:         "The Go Programming Language",
		Subtitle:      "A Tour",
		Authors:       []string{"Alan A. A. Donovan", "Brian W. Kernighan"},
		Publisher:     "Addison-Wesley Professional",
		PublishedDate: "2015-10-26",
		Description:   "The authoritative resource.",
		PageCount:     400,
		ImageLinks:    &googlebooks.ImageLinks{SmallThumbnail: "small", Thumbnail: "thumb"},
		PreviewLink:   "preview",
		Categories:    []string{"Computers"},
	}
	f := &fakeFormatter{out: "- The authoritative resource."}

	info, err := Assemble(context.Background(), f, v, 2)
	require.NoError(t, err)

	want := time.Date(2015, time.October, 26, 0, 0, 0, 0, time.UTC)
	require.Equal(t, BookInfo{
		Title:         "The Go Programming Language",
		Subtitle:      "A Tour",
		Edition:       2,
		Authors:       []string{"Alan A. A. Donovan", "Brian W. Kernighan"},
		Publisher:     "Addison-Wesley Professional",
		PublishedDate: &want,
		Description:   "- The authoritative resource.",
		PageCount:     400,
		ThumbnailLink: "thumb",
		PreviewLink:   "preview",
	}, info)
	require.Equal(t, []string{"The authoritative resource."}, f.calls)
}

func TestAssembleLastIdentifierOfEachTypeWins(t *testing.T) {
	v := googlebooks.Volume{
		Title: "Dup",
		IndustryIdentifiers: []googlebooks.IndustryIdentifier{
			{Type: googlebooks.ISBN13, Identifier: "9780000000001"},
			{Type: googlebooks.ISBN10, Identifier: "0000000001"},
			{Type: "OTHER", Identifier: "UOM:39015"},
			{Type: googlebooks.ISBN13, Identifier: "9780000000002"},
			{Type: googlebooks.ISBN10, Identifier: "0000000002"},
		},
	}

	info, err := Assemble(context.Background(), &fakeFormatter{}, v, 1)
	require.NoError(t, err)
	require.Equal(t, "0000000002", info.ISBN10)
	require.Equal(t, "9780000000002", info.ISBN13)
}

func TestAssembleWithoutDescriptionSkipsFormatter(t *testing.T) {
	f := &fakeFormatter{err: errors.New("should not be called")}

	info, err := Assemble(context.Background(), f, googlebooks.Volume{Title: "No Blurb"}, 3)
	require.NoError(t, err)
	require.Empty(t, f.calls)
	require.Empty(t, info.Description)

	b, err := json.Marshal(info)
	require.NoError(t, err)
	require.JSONEq(t, `{"title":"No Blurb","edition":3}`, string(b))
}

func TestAssembleFormatterFailureDiscardsRecord(t *testing.T) {
	f := &fakeFormatter{err: faults.ErrFormatting}
	v := googlebooks.Volume{Title: "Has Blurb", Description: "text", PageCount: 10}

	info, err := Assemble(context.Background(), f, v, 1)
	require.ErrorIs(t, err, faults.ErrFormatting)
	require.Equal(t, BookInfo{}, info)
}

func TestAssembleEditionComesFromCaller(t *testing.T) {
	info, err := Assemble(context.Background(), &fakeFormatter{}, googlebooks.Volume{Title: "Fourth"}, 4)
	require.NoError(t, err)
	require.Equal(t, 4, info.Edition)
}

func TestZeroEditionIsStillWritten(t *testing.T) {
	info, err := Assemble(context.Background(), &fakeFormatter{}, googlebooks.Volume{Title: "Unnumbered"}, 0)
	require.NoError(t, err)

	b, err := json.Marshal(info)
	require.NoError(t, err)
	require.JSONEq(t, `{"title":"Unnumbered","edition":0}`, string(b))
}

func TestAssembleDropsUnparsableDate(t *testing.T) {
	info, err := Assemble(context.Background(), &fakeFormatter{}, googlebooks.Volume{PublishedDate: "circa 1999"}, 1)
	require.NoError(t, err)
	require.Nil(t, info.PublishedDate)
}

func TestParsePublishedDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2015", time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2015-10", time.Date(2015, 10, 1, 0, 0, 0, 0, time.UTC)},
		{"2015-10-26", time.Date(2015, 10, 26, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePublishedDate(tt.in)
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	_, err := ParsePublishedDate("October 2015")
	require.Error(t, err)
}

func TestMarkdownFormatterRequest(t *testing.T) {
	var got ai.Request
	c := ai.CompleterFunc(func(_ context.Context, req ai.Request) (string, error) {
		got = req
		return "```markdown\n## Overview\nA book.\n```", nil
	})

	out, err := MarkdownFormatter{Completer: c}.FormatDescription(context.Background(), "A book.")
	require.NoError(t, err)
	require.Equal(t, "## Overview\nA book.", out)

	require.Equal(t, DefaultFormatModel, got.Model)
	require.Equal(t, FormatTemperature, got.Temperature)
	require.True(t, strings.HasSuffix(got.Prompt, `"A book."`))
	require.Contains(t, got.Prompt, `top level heading such as "Description"`)
}

func TestMarkdownFormatterFailure(t *testing.T) {
	c := ai.CompleterFunc(func(context.Context, ai.Request) (string, error) {
		return "", errors.New("503 service unavailable")
	})

	_, err := MarkdownFormatter{Completer: c, Model: "gpt-4o"}.FormatDescription(context.Background(), "x")
	require.ErrorIs(t, err, faults.ErrFormatting)
	require.Contains(t, err.Error(), "503")
}
