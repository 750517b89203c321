package folio

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testApp(t *testing.T, files map[string]string) *App {
	t.Helper()
	app := New(SiteConfig{Name: "Test Site", URL: "https://example.com"})
	app.Library = NewLibrary(contentFS(files), CatalogOptions{})
	if err := app.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return app
}

func do(app *App, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func TestHandleHome(t *testing.T) {
	app := testApp(t, map[string]string{
		"hello.mdx": post("Hello World", "2023-01-01"),
	})
	rec := do(app, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Hello World") {
		t.Errorf("home page does not list the post: %q", rec.Body.String())
	}
}

func TestHandlePost(t *testing.T) {
	app := testApp(t, map[string]string{
		"hello.mdx": post("Hello World", "2023-01-01"),
	})
	rec := do(app, http.MethodGet, "/blog/hello/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /blog/hello/ = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Hello World") {
		t.Errorf("post page missing title: %q", rec.Body.String())
	}
}

func TestHandlePostNotFound(t *testing.T) {
	app := testApp(t, map[string]string{
		"hello.mdx": post("Hello World", "2023-01-01"),
	})
	rec := do(app, http.MethodGet, "/blog/missing/")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET /blog/missing/ = %d, want 404", rec.Code)
	}
}

func TestHandleBlogRedirect(t *testing.T) {
	app := testApp(t, nil)
	rec := do(app, http.MethodGet, "/blog/")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("GET /blog/ = %d, want 301", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestHandleFeedXML(t *testing.T) {
	app := testApp(t, map[string]string{
		"hello.mdx": post("Hello World", "2023-01-01"),
	})
	rec := do(app, http.MethodGet, "/rss/feed.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /rss/feed.xml = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestHandleFeedJSON(t *testing.T) {
	app := testApp(t, map[string]string{
		"hello.mdx": post("Hello World", "2023-01-01"),
	})
	rec := do(app, http.MethodGet, "/rss/feed.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /rss/feed.json = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/feed+json") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestHandleSitemap(t *testing.T) {
	app := testApp(t, map[string]string{
		"hello.mdx": post("Hello World", "2023-01-01"),
	})
	rec := do(app, http.MethodGet, "/sitemap.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /sitemap.xml = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/blog/hello/") {
		t.Errorf("sitemap missing post entry: %q", rec.Body.String())
	}
}

func TestHandleOGImage(t *testing.T) {
	app := testApp(t, nil)
	rec := do(app, http.MethodGet, "/og/image.png?title=Hello")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /og/image.png = %d, want 200", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=31536000, immutable" {
		t.Errorf("Cache-Control = %q", cc)
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("body is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 1200 || img.Bounds().Dy() != 630 {
		t.Errorf("dimensions = %v", img.Bounds())
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	app := testApp(t, map[string]string{
		"hello.mdx": post("Hello World", "2023-01-01"),
	})
	rec := do(app, http.MethodGet, "/blog/hello")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("GET /blog/hello = %d, want 301", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/blog/hello/" {
		t.Errorf("Location = %q, want /blog/hello/", loc)
	}
}

func TestHomeFiltersByTag(t *testing.T) {
	app := testApp(t, map[string]string{
		"tagged.mdx": post("Tagged Post", "2023-01-02", "tags:", "  - go"),
		"plain.mdx":  post("Plain Post", "2023-01-01"),
	})
	rec := do(app, http.MethodGet, "/?tag=go")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /?tag=go = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Tagged Post") {
		t.Errorf("tagged post missing: %q", body)
	}
	if strings.Contains(body, "Plain Post") {
		t.Errorf("untagged post should be filtered out: %q", body)
	}
}
