package cache

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/dearpower/dearpower-go/pkg/errors"
	"go.uber.org/zap"
)

func TestKeyIsStableAndOpaque(t *testing.T) {
	a := Key("article", "https://news.example.org/a?b=c")
	b := Key("article", "https://news.example.org/a?b=c")
	if a != b {
		t.Fatalf("expected stable key, got %q and %q", a, b)
	}
	if !strings.HasPrefix(a, "dearpower:article:") {
		t.Fatalf("unexpected prefix %q", a)
	}
	if strings.Contains(a, "news.example.org") {
		t.Fatalf("raw id leaked into key %q", a)
	}
	if Key("article", "x") == Key("other", "x") {
		t.Fatalf("namespaces must not collide")
	}
}

func TestNewCacheServiceUnreachable(t *testing.T) {
	_, err := NewCacheService(context.Background(), CacheConfig{Host: "127.0.0.1", Port: 1}, 500*time.Millisecond, zap.NewNop())
	var cacheErr *errors.CacheError
	if !stderrors.As(err, &cacheErr) || cacheErr.Operation != "ping" {
		t.Fatalf("expected ping cache error, got %v", err)
	}
}
