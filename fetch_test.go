package eventscrape

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFetchHTML verifies the identifying header is sent and the body comes
// back parsed.
func TestFetchHTML(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<html><body><h1>Hello</h1></body></html>`))
	}))
	defer srv.Close()

	doc, err := NewFetcher(0).FetchHTML(srv.URL)

	require.NoError(t, err)
	assert.Equal(t, UserAgent, gotUA)
	assert.Equal(t, "Hello", doc.Find("h1").Text())
}

// TestFetchHTMLNonOK verifies any non-OK status is an error; callers can't
// tell a 404 from a 500, and that's the contract.
func TestFetchHTMLNonOK(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		_, err := NewFetcher(0).FetchHTML(srv.URL)
		assert.Error(t, err, "status %d should fail", status)

		srv.Close()
	}
}

// TestFetchHTMLTimeout verifies a slow server trips the per-fetch timeout.
func TestFetchHTMLTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewFetcher(20 * time.Millisecond).FetchHTML(srv.URL)

	assert.Error(t, err)
}

// TestFetchHTMLUnreachable verifies connection failures surface as errors.
func TestFetchHTMLUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // closed on purpose

	_, err := NewFetcher(0).FetchHTML(srv.URL)

	assert.Error(t, err)
}
