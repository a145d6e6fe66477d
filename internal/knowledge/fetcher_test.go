package knowledge

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServer(t *testing.T, files map[string]string, delays map[string]time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path[1:]
		if d := delays[name]; d > 0 {
			time.Sleep(d)
		}
		body, ok := files[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_JoinsInIndexOrder(t *testing.T) {
	srv := newServer(t, map[string]string{
		"index.json": `["a.txt", "missing.txt", "b.txt"]`,
		"a.txt":      "Alpha",
		"b.txt":      "Bravo",
	}, map[string]time.Duration{"a.txt": 50 * time.Millisecond})

	f := NewFetcher(srv.URL+"/", "", srv.Client(), quietLogger())

	if got, want := f.Fetch(context.Background()), "Alpha\n\nBravo"; got != want {
		t.Errorf("Fetch = %q, want %q", got, want)
	}
}

func TestFetch_Degrades(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"no index", map[string]string{"a.txt": "Alpha"}},
		{"bad index", map[string]string{"index.json": `{"files": []}`}},
		{"empty index", map[string]string{"index.json": `[]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.files, nil)
			f := NewFetcher(srv.URL, "index.json", srv.Client(), quietLogger())
			if got := f.Fetch(context.Background()); got != "" {
				t.Errorf("Fetch = %q, want empty", got)
			}
		})
	}
}

func TestFetch_Disabled(t *testing.T) {
	f := NewFetcher("", "", nil, quietLogger())
	if got := f.Fetch(context.Background()); got != "" {
		t.Errorf("Fetch = %q, want empty", got)
	}
}
