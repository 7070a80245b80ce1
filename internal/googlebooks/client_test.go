package googlebooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-bookinfo/internal/faults"
)

// fakeAPI serves /volumes from a map of query -> JSON body. Queries listed in
// fail get a 500. Every query seen is recorded.
type fakeAPI struct {
	mu      sync.Mutex
	queries []string
	keys    []string
	bodies  map[string]string
	fail    map[string]bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/volumes" {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query().Get("q")

	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.keys = append(f.keys, r.URL.Query().Get("key"))
	f.mu.Unlock()

	if f.fail[q] {
		http.Error(w, "backend error", http.StatusInternalServerError)
		return
	}
	body, ok := f.bodies[q]
	if !ok {
		body = `{"kind":"books#volumes","totalItems":0}`
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func (f *fakeAPI) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.queries...)
	sort.Strings(out)
	return out
}

func volumesJSON(titles ...string) string {
	items := make([]string, len(titles))
	for i, title := range titles {
		items[i] = fmt.Sprintf(`{"volumeInfo":{"title":%q}}`, title)
	}
	return fmt.Sprintf(`{"totalItems":%d,"items":[%s]}`, len(titles), strings.Join(items, ","))
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return &Client{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSearchDecodesVolumes(t *testing.T) {
	api := &fakeAPI{bodies: map[string]string{
		"isbn:9780134190440": `{
			"totalItems": 1,
			"items": [{
				"volumeInfo": {
					"title": "The Go Programming Language",
					"authors": ["Alan A. A. Donovan", "Brian W. Kernighan"],
					"publisher": "Addison-Wesley Professional",
					"publishedDate": "2015-10-26",
					"industryIdentifiers": [
						{"type": "ISBN_13", "identifier": "9780134190440"},
						{"type": "ISBN_10", "identifier": "0134190440"}
					],
					"pageCount": 400,
					"imageLinks": {"thumbnail": "http://books.google.com/thumb"},
					"previewLink": "http://books.google.com/preview"
				}
			}]
		}`,
	}}
	c := newTestClient(t, api)

	volumes, err := c.Search(context.Background(), "isbn:9780134190440")
	require.NoError(t, err)
	require.Len(t, volumes, 1)

	v := volumes[0]
	require.Equal(t, "The Go Programming Language", v.Title)
	require.Equal(t, []string{"Alan A. A. Donovan", "Brian W. Kernighan"}, v.Authors)
	require.Equal(t, 400, v.PageCount)
	require.Equal(t, "http://books.google.com/thumb", v.ImageLinks.Thumbnail)
	require.Equal(t, []IndustryIdentifier{
		{Type: ISBN13, Identifier: "9780134190440"},
		{Type: ISBN10, Identifier: "0134190440"},
	}, v.IndustryIdentifiers)
}

func TestSearchMissingItemsIsEmpty(t *testing.T) {
	c := newTestClient(t, &fakeAPI{})

	volumes, err := c.Search(context.Background(), "isbn:0000000000")
	require.NoError(t, err)
	require.Empty(t, volumes)
}

func TestSearchNonOKStatus(t *testing.T) {
	c := newTestClient(t, &fakeAPI{fail: map[string]bool{"isbn:1": true}})

	_, err := c.Search(context.Background(), "isbn:1")
	require.ErrorIs(t, err, faults.ErrNetwork)
	require.Contains(t, err.Error(), "status 500")
}

func TestSearchTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := &Client{BaseURL: url}
	_, err := c.Search(context.Background(), "isbn:1")
	require.ErrorIs(t, err, faults.ErrNetwork)
}

func TestSearchSendsAPIKeyOnlyWhenConfigured(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api)

	_, err := c.Search(context.Background(), "isbn:1")
	require.NoError(t, err)
	c.APIKey = "secret"
	_, err = c.Search(context.Background(), "isbn:2")
	require.NoError(t, err)

	require.Equal(t, []string{"", "secret"}, api.keys)
}

func TestFetchCandidatesOneRequestPerISBN(t *testing.T) {
	api := &fakeAPI{bodies: map[string]string{
		"isbn:1111111111":    volumesJSON("A", "B"),
		"isbn:2222222222222": volumesJSON("C"),
		"isbn:3333333333":    volumesJSON("D", "E", "F"),
	}}
	c := newTestClient(t, api)

	got := c.FetchCandidates(context.Background(), "Ignored", []string{"1111111111", "2222222222222", "3333333333"})

	require.Equal(t, []string{"isbn:1111111111", "isbn:2222222222222", "isbn:3333333333"}, api.seen())
	require.Len(t, got, 6)
	titles := make([]string, len(got))
	for i, v := range got {
		titles[i] = v.Title
	}
	require.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, titles)
}

func TestFetchCandidatesIsolatesFailures(t *testing.T) {
	api := &fakeAPI{
		bodies: map[string]string{"isbn:good": volumesJSON("Good")},
		fail:   map[string]bool{"isbn:bad": true},
	}
	c := newTestClient(t, api)

	got := c.FetchCandidates(context.Background(), "Title", []string{"bad", "good"})

	require.Len(t, got, 1)
	require.Equal(t, "Good", got[0].Title)
	require.Equal(t, []string{"isbn:bad", "isbn:good"}, api.seen())
}

func TestFetchCandidatesFallsBackToTitleWithoutISBNs(t *testing.T) {
	api := &fakeAPI{bodies: map[string]string{"title:Example Book": volumesJSON("Example Book", "Example Book 2")}}
	c := newTestClient(t, api)

	got := c.FetchCandidates(context.Background(), "Example Book", nil)

	require.Equal(t, []string{"title:Example Book"}, api.seen())
	require.Len(t, got, 2)
}

func TestFetchCandidatesTitleFallbackErrorYieldsEmpty(t *testing.T) {
	api := &fakeAPI{fail: map[string]bool{"title:Example Book": true}}
	c := newTestClient(t, api)

	got := c.FetchCandidates(context.Background(), "Example Book", []string{})

	require.Empty(t, got)
	require.Equal(t, []string{"title:Example Book"}, api.seen())
}

// Known gap: when ISBNs were supplied but every search came back empty (or
// failed), the per-ISBN list is non-empty and the title search is skipped.
func TestFetchCandidatesEmptyISBNResultsSkipTitleFallback(t *testing.T) {
	api := &fakeAPI{bodies: map[string]string{"title:Example Book": volumesJSON("Example Book")}}
	c := newTestClient(t, api)

	got := c.FetchCandidates(context.Background(), "Example Book", []string{"9780000000000"})

	require.Empty(t, got)
	require.Equal(t, []string{"isbn:9780000000000"}, api.seen())
}
