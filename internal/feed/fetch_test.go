package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchOneCachesAndRevalidates(t *testing.T) {
	t.Parallel()

	const payload = `[{"id":"a","title":"A","start":"2024-01-01T09:00:00"}]`
	var requests int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	src := Source{ID: "test", URL: srv.URL}

	first, err := f.FetchOne(context.Background(), src)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if first.FromCache || string(first.Body) != payload {
		t.Fatalf("first fetch unexpected: fromCache=%v body=%q", first.FromCache, first.Body)
	}

	second, err := f.FetchOne(context.Background(), src)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if !second.FromCache || string(second.Body) != payload {
		t.Fatalf("second fetch should reuse cache: fromCache=%v body=%q", second.FromCache, second.Body)
	}
	if requests != 2 {
		t.Fatalf("server saw %d requests, want 2", requests)
	}
}

func TestFetchOneFallsBackToCacheOnServerError(t *testing.T) {
	t.Parallel()

	const payload = `[]`
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	src := Source{ID: "test", URL: srv.URL}

	if _, err := f.FetchOne(context.Background(), src); err != nil {
		t.Fatalf("warm-up fetch: %v", err)
	}

	fail = true
	res, err := f.FetchOne(context.Background(), src)
	if err != nil {
		t.Fatalf("fetch with failing server: %v", err)
	}
	if !res.FromCache || string(res.Body) != payload {
		t.Fatalf("expected cached fallback, got fromCache=%v body=%q", res.FromCache, res.Body)
	}
}

func TestFetchOneEmptyURL(t *testing.T) {
	t.Parallel()

	f := NewFetcher(t.TempDir())
	if _, err := f.FetchOne(context.Background(), Source{ID: "x"}); err == nil {
		t.Fatal("expected error for empty URL")
	}
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	got := redactURL("https://example.com/feeds/private.json?token=abcd")
	if got != "https://example.com/...(redacted)" {
		t.Fatalf("redactURL = %q", got)
	}
	if got := redactURL("::bad::"); got != "feed://...(redacted)" {
		t.Fatalf("redactURL fallback = %q", got)
	}
}
