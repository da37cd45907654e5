package draft

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dearpower/dearpower-go/internal/domain"
	"github.com/dearpower/dearpower-go/pkg/errors"
	"go.uber.org/zap"
)

const articlePage = `<!doctype html>
<html><head>
<title>Rents hit record high | Example News</title>
<meta property="og:title" content="Rents hit record high">
<script>var tracking = "ignore me";</script>
</head><body>
<nav><p>Home | World | Politics</p></nav>
<article>
  <h1>Rents hit record high</h1>
  <p>Average   rents rose again this year.</p>
  <p></p>
  <p>Tenants groups called for action.</p>
</article>
<footer><p>Copyright Example News</p></footer>
</body></html>`

type memoryCache struct {
	mu   sync.Mutex
	data map[string]domain.Article
	sets int
}

func (m *memoryCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.data[key]
	if ok {
		*dest.(*domain.Article) = a
	}
	return ok, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string]domain.Article{}
	}
	m.data[key] = *value.(*domain.Article)
	m.sets++
	return nil
}

func TestArticleFetcherExtractsContent(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	cache := &memoryCache{}
	fetcher := NewArticleFetcher(srv.Client(), cache, zap.NewNop())

	article, err := fetcher.Fetch(context.Background(), srv.URL+"/news/rents#comments")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if article.Title != "Rents hit record high" {
		t.Fatalf("unexpected title %q", article.Title)
	}
	if article.Text != "Average rents rose again this year.\n\nTenants groups called for action." {
		t.Fatalf("unexpected text %q", article.Text)
	}
	if article.URL != srv.URL+"/news/rents" {
		t.Fatalf("expected fragment to be dropped, got %q", article.URL)
	}

	again, err := fetcher.Fetch(context.Background(), srv.URL+"/news/rents")
	if err != nil || again.Title != article.Title {
		t.Fatalf("expected cached article, got %+v / %v", again, err)
	}
	if atomic.LoadInt32(&hits) != 1 || cache.sets != 1 {
		t.Fatalf("expected one download and one cache write, got %d/%d", hits, cache.sets)
	}
}

func TestArticleFetcherRejectsBadInput(t *testing.T) {
	fetcher := NewArticleFetcher(nil, nil, zap.NewNop())

	for _, raw := range []string{"", "not a url", "ftp://example.org/file", "javascript:alert(1)"} {
		_, err := fetcher.Fetch(context.Background(), raw)
		var validation *errors.ValidationError
		if !stderrors.As(err, &validation) {
			t.Errorf("%q: expected validation error, got %v", raw, err)
		}
	}
}

func TestArticleFetcherUpstreamFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".pdf") {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF"))
			return
		}
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	fetcher := NewArticleFetcher(srv.Client(), nil, zap.NewNop())

	if _, err := fetcher.Fetch(context.Background(), srv.URL+"/missing"); errors.APIStatus(err) != http.StatusGone {
		t.Fatalf("expected 410 API error, got %v", err)
	}

	_, err := fetcher.Fetch(context.Background(), srv.URL+"/report.pdf")
	var validation *errors.ValidationError
	if !stderrors.As(err, &validation) {
		t.Fatalf("expected validation error for non-HTML reference, got %v", err)
	}
}

func TestArticleFetcherRefusesLocalAddresses(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>internal admin</title></head><body><p>secret token abc123</p></body></html>`))
	}))
	defer srv.Close()

	fetcher := NewArticleFetcher(nil, nil, zap.NewNop())

	article, err := fetcher.Fetch(context.Background(), srv.URL+"/admin")
	var validation *errors.ValidationError
	if !stderrors.As(err, &validation) {
		t.Fatalf("expected validation error for loopback reference, got %+v / %v", article, err)
	}
	if validation.Field != "reference" {
		t.Fatalf("expected reference field, got %q", validation.Field)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("expected no request to reach the local server")
	}
}

func TestIsPublicAddr(t *testing.T) {
	cases := map[string]bool{
		"127.0.0.1":        false,
		"10.1.2.3":         false,
		"172.16.0.9":       false,
		"192.168.1.1":      false,
		"169.254.169.254":  false,
		"100.64.0.1":       false,
		"0.0.0.0":          false,
		"224.0.0.1":        false,
		"::1":              false,
		"fe80::1":          false,
		"fd00::1":          false,
		"::ffff:127.0.0.1": false,
		"8.8.8.8":          true,
		"151.101.0.81":     true,
		"2a04:4e42::81":    true,
	}
	for raw, want := range cases {
		if got := isPublicAddr(netip.MustParseAddr(raw)); got != want {
			t.Errorf("%s: expected %v, got %v", raw, want, got)
		}
	}
}
