package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultClient_UserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	var v map[string]any
	_ = DefaultClient().GetJSON(context.Background(), server.URL, &v)

	if gotUA != "jsregistry" {
		t.Errorf("default User-Agent = %q, want %q", gotUA, "jsregistry")
	}
}

func TestClient_WithUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient(WithUserAgent("custom-agent/2.0"))
	if err := c.Head(context.Background(), server.URL); err != nil {
		t.Fatalf("Head failed: %v", err)
	}

	if gotUA != "custom-agent/2.0" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "custom-agent/2.0")
	}
}

func TestClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"lodash","version":"4.17.21"}`))
	}))
	defer server.Close()

	var got struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := DefaultClient().GetJSON(context.Background(), server.URL, &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got.Name != "lodash" || got.Version != "4.17.21" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	var v map[string]any
	err := DefaultClient().GetJSON(context.Background(), server.URL+"/nope", &v)
	if !IsNotFound(err) {
		t.Fatalf("GetJSON = %v, want not found", err)
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || !httpErr.IsNotFound() {
		t.Errorf("expected *HTTPError with 404, got %T", err)
	}
	if got := Describe(err); got != "404 Not Found" {
		t.Errorf("Describe() = %q, want %q", got, "404 Not Found")
	}
}

func TestClient_Head(t *testing.T) {
	var method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		if r.URL.Path != "/lodash" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := DefaultClient()
	if err := c.Head(context.Background(), server.URL+"/lodash"); err != nil {
		t.Errorf("Head(lodash) = %v, want nil", err)
	}
	if method != http.MethodHead {
		t.Errorf("method = %s, want HEAD", method)
	}
	if err := c.Head(context.Background(), server.URL+"/nope"); !IsNotFound(err) {
		t.Errorf("Head(nope) = %v, want not found", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient(WithTimeout(20 * time.Millisecond))
	var v map[string]any
	err := c.GetJSON(context.Background(), server.URL, &v)
	if !IsTimeout(err) {
		t.Fatalf("GetJSON = %v, want timeout", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("timeout should unwrap to context.DeadlineExceeded: %v", err)
	}
}

func TestClient_WithTimeoutSharesTransport(t *testing.T) {
	base := NewClient(WithTimeout(time.Second))
	derived := base.WithTimeout(15 * time.Second)

	if base.Timeout() != time.Second {
		t.Errorf("base timeout changed to %s", base.Timeout())
	}
	if derived.Timeout() != 15*time.Second {
		t.Errorf("derived timeout = %s, want 15s", derived.Timeout())
	}
	if derived.fetcher != base.fetcher {
		t.Error("derived client should share the transport")
	}
}

type countingLimiter struct{ n atomic.Int32 }

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.n.Add(1)
	return nil
}

func TestClient_RateLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	limiter := &countingLimiter{}
	c := NewClient(WithRateLimiter(limiter))
	for range 3 {
		var v map[string]any
		_ = c.GetJSON(context.Background(), server.URL, &v)
	}
	_ = c.Head(context.Background(), server.URL)

	if got := limiter.n.Load(); got != 4 {
		t.Errorf("limiter waited %d times, want 4", got)
	}
}

type pageOnlyURLs struct{}

func (pageOnlyURLs) Registry(name, version string) string      { return "https://example.com/" + name }
func (pageOnlyURLs) Download(name, version string) string      { return "" }
func (pageOnlyURLs) Documentation(name, version string) string { return "" }
func (pageOnlyURLs) PURL(name, version string) string          { return "pkg:npm/" + name }

func TestBuildURLs(t *testing.T) {
	got := BuildURLs(pageOnlyURLs{}, "left-pad", "")
	if got[LinkPage] != "https://example.com/left-pad" {
		t.Errorf("page = %q", got[LinkPage])
	}
	if got[LinkDocs] != "https://example.com/left-pad" {
		t.Errorf("docs should fall back to the page, got %q", got[LinkDocs])
	}
	if _, ok := got[LinkDownload]; ok {
		t.Error("download should be omitted when empty")
	}
	if got[LinkPURL] != "pkg:npm/left-pad" {
		t.Errorf("purl = %q", got[LinkPURL])
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3: %v", len(got), got)
	}
}
