package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ahmethakanbesel/similarity-api/internal/content"
)

const articleHTML = `<html><head><title>t</title><style>body{}</style></head><body>
<h1>Comparing apples and oranges</h1>
<p>Apples and oranges are both popular fruits that have been cultivated for
thousands of years across many different climates and regions of the world.
Apples tend to grow in temperate zones while oranges prefer subtropical
weather, and both fruits are rich in fiber, vitamins and natural sugars,
making them a staple of healthy diets everywhere people buy fresh produce.</p>
</body></html>`

func TestResolve_LiteralText(t *testing.T) {
	f := New()
	text, err := f.Resolve(context.Background(), "just some plain text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "just some plain text" {
		t.Errorf("literal text must pass through unchanged, got %q", text)
	}
}

func TestResolve_FetchesURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("unexpected user agent: %s", ua)
		}
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer ts.Close()

	f := New(WithClient(ts.Client()))
	text, err := f.Resolve(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(text, "<") {
		t.Errorf("markup not stripped: %q", text)
	}
	if !strings.Contains(text, "apples and oranges") {
		t.Errorf("expected article text, got %q", text)
	}
}

func TestResolve_CachesByURL(t *testing.T) {
	var hits atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer ts.Close()

	f := New(WithClient(ts.Client()))
	for range 3 {
		if _, err := f.Resolve(context.Background(), ts.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 fetch, got %d", hits.Load())
	}
}

func TestResolve_BlockedPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>Just a moment... checking your browser</body></html>"))
	}))
	defer ts.Close()

	f := New(WithClient(ts.Client()))
	_, err := f.Resolve(context.Background(), ts.URL)
	if !errors.Is(err, content.ErrBlocked) {
		t.Errorf("expected ErrBlocked, got %v", err)
	}
}

func TestResolve_TooShort(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>a perfectly fine tiny page</body></html>"))
	}))
	defer ts.Close()

	f := New(WithClient(ts.Client()))
	_, err := f.Resolve(context.Background(), ts.URL)
	if !errors.Is(err, content.ErrContentTooShort) {
		t.Errorf("expected ErrContentTooShort, got %v", err)
	}
}

func TestResolve_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	f := New(WithClient(ts.Client()))
	_, err := f.Resolve(context.Background(), ts.URL)
	if !errors.Is(err, content.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestResolve_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	f := New()
	_, err := f.Resolve(context.Background(), url)
	if !errors.Is(err, content.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestIsURL(t *testing.T) {
	cases := []struct {
		ref  string
		want bool
	}{
		{"https://example.com/a", true},
		{"http://example.com", true},
		{"www.example.com", true},
		{" https://example.com ", true},
		{"plain text about a topic", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsURL(tc.ref); got != tc.want {
			t.Errorf("IsURL(%q) = %v, want %v", tc.ref, got, tc.want)
		}
	}
}
