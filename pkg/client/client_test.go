package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html><head><title>GPQA results</title><style>.x{width:99%}</style></head>
<body>
<nav>Home</nav>
<script>var share = "GPT-5 12%";</script>
<table>
  <tr><td>GPT-5</td><td>85.6%</td></tr>
  <tr><td>Grok&nbsp;4</td><td>88.1%</td></tr>
</table>
<!-- GPT-5 1% -->
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}).Methods(http.MethodGet)
	r.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>" + r.UserAgent() + "</body></html>"))
	})
	r.HandleFunc("/error", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	r.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte("<html><body>late</body></html>"))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestVisibleText_SkipsInvisible(t *testing.T) {
	text, err := VisibleText(samplePage)
	require.NoError(t, err)

	assert.Equal(t, "Home GPT-5 85.6% Grok 4 88.1%", text)
}

func TestVisibleText_NormalisesFullWidth(t *testing.T) {
	text, err := VisibleText("<p>GPT-5 ８５.６％</p>")
	require.NoError(t, err)
	assert.Equal(t, "GPT-5 85.6%", text)
}

func TestFetchText_OK(t *testing.T) {
	srv := newTestServer(t)

	c := NewClient(WithTimeout(5 * time.Second))
	text, err := c.FetchText(context.Background(), srv.URL+"/page")
	require.NoError(t, err)

	got := ExtractScores(text, []string{"GPT-5", "Grok 4"})
	assert.Equal(t, map[string]float64{"GPT-5": 85.6, "Grok 4": 88.1}, got)
}

func TestFetchText_UserAgent(t *testing.T) {
	srv := newTestServer(t)

	text, err := NewClient().FetchText(context.Background(), srv.URL+"/ua")
	require.NoError(t, err)
	assert.Equal(t, defaultUserAgent, text)

	text, err = NewClient(WithUserAgent("tracker-test")).FetchText(context.Background(), srv.URL+"/ua")
	require.NoError(t, err)
	assert.Equal(t, "tracker-test", text)
}

func TestFetchText_MaxBodySize(t *testing.T) {
	srv := newTestServer(t)

	text, err := NewClient(WithMaxBodySize(64)).FetchText(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.NotContains(t, text, "85.6%")

	text, err = NewClient(WithMaxBodySize(0)).FetchText(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Contains(t, text, "85.6%")
}

func TestFetchText_HTTPError(t *testing.T) {
	srv := newTestServer(t)

	_, err := NewClient().FetchText(context.Background(), srv.URL+"/error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client: fetch")
}

func TestFetchText_NotFound(t *testing.T) {
	srv := newTestServer(t)

	_, err := NewClient().FetchText(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestFetchText_Timeout(t *testing.T) {
	srv := newTestServer(t)

	_, err := NewClient(WithTimeout(50*time.Millisecond)).FetchText(context.Background(), srv.URL+"/slow")
	assert.Error(t, err)
}

func TestFetchText_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient().FetchText(ctx, "http://127.0.0.1:1/never")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
