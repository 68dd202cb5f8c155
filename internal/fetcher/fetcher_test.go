package fetcher

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestClient() *Client {
	return New(5*time.Second, "hooknames-test/1.0")
}

func TestFetch_HTTP(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("var x = 1;"))
	}))
	defer server.Close()

	file, err := newTestClient().Fetch(context.Background(), server.URL+"/main.js")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if file.Text != "var x = 1;" {
		t.Errorf("Text = %q, want %q", file.Text, "var x = 1;")
	}
	if file.URL != server.URL+"/main.js" {
		t.Errorf("URL = %q", file.URL)
	}
	if gotUserAgent != "hooknames-test/1.0" {
		t.Errorf("User-Agent = %q, want %q", gotUserAgent, "hooknames-test/1.0")
	}
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"no content is still 2xx", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			// 204 is still 2xx and must succeed; the others must fail.
			_, err := newTestClient().Fetch(context.Background(), server.URL)
			if tt.status >= 200 && tt.status < 300 {
				if err != nil {
					t.Errorf("Fetch() error = %v, want success for %d", err, tt.status)
				}
			} else if err == nil {
				t.Errorf("Fetch() should fail for status %d", tt.status)
			}
		})
	}
}

func TestFetch_DataURL(t *testing.T) {
	payload := `{"version":3}`
	dataURL := "data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(payload))

	file, err := newTestClient().Fetch(context.Background(), dataURL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if file.Text != payload {
		t.Errorf("Text = %q, want %q", file.Text, payload)
	}
}

func TestFetch_DataURLWithoutBase64(t *testing.T) {
	if _, err := newTestClient().Fetch(context.Background(), "data:application/json,{}"); err == nil {
		t.Error("Fetch() should reject non-base64 data URLs")
	}
}

func TestFetch_FileURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.js")
	if err := os.WriteFile(path, []byte("var y = 2;"), 0644); err != nil {
		t.Fatal(err)
	}

	file, err := newTestClient().Fetch(context.Background(), "file://"+path)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if file.Text != "var y = 2;" {
		t.Errorf("Text = %q", file.Text)
	}
}

func TestFetch_UnsupportedScheme(t *testing.T) {
	if _, err := newTestClient().Fetch(context.Background(), "ftp://example.com/main.js"); err == nil {
		t.Error("Fetch() should reject unsupported schemes")
	}
}

func TestFetch_LocalBundleIndex(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "static", "js"), 0755); err != nil {
		t.Fatal(err)
	}
	bundlePath := filepath.Join(dir, "static", "js", "main.js")
	if err := os.WriteFile(bundlePath, []byte("local bundle"), 0644); err != nil {
		t.Fatal(err)
	}

	client, err := newTestClient().WithLocalBundles([]string{dir})
	if err != nil {
		t.Fatalf("WithLocalBundles() error = %v", err)
	}

	// The remote URL never resolves; the basename matches the local index.
	file, err := client.Fetch(context.Background(), "https://unreachable.invalid/static/js/main.js")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if file.Text != "local bundle" {
		t.Errorf("Text = %q, want local file content", file.Text)
	}
}

func TestFetchAll_FailureIsolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad.js" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok:" + r.URL.Path))
	}))
	defer server.Close()

	urls := []string{
		server.URL + "/a.js",
		server.URL + "/bad.js",
		server.URL + "/b.js",
	}

	results := newTestClient().FetchAll(context.Background(), urls, 2)

	if len(results) != 2 {
		t.Fatalf("FetchAll() returned %d results, want 2", len(results))
	}
	if _, ok := results[server.URL+"/bad.js"]; ok {
		t.Error("failed URL should have no entry")
	}
	if got := results[server.URL+"/a.js"]; got == nil || got.Text != "ok:/a.js" {
		t.Errorf("unexpected result for /a.js: %#v", got)
	}
}
