package postcode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dearpower/dearpower-go/internal/service/upstream"
	"github.com/dearpower/dearpower-go/pkg/errors"
	"go.uber.org/zap"
)

func newStubClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api := upstream.NewClient("postcodes", srv.URL, srv.Client(), time.Second, zap.NewNop())
	return NewClient(api, zap.NewNop())
}

func TestResolveReturnsConstituency(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/postcodes/SW1A 2AA" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":200,"result":{"postcode":"SW1A 2AA","parliamentary_constituency":"Cities of London and Westminster","region":"London","country":"England","longitude":-0.12}}`))
	})

	info, err := client.Resolve(context.Background(), "SW1A 2AA")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if info.Name != "Cities of London and Westminster" || info.Region != "London" || info.Country != "England" {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestResolveNotFound(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":404,"error":"Postcode not found"}`))
	})

	_, err := client.Resolve(context.Background(), "ZZ1 1ZZ")
	if !errors.IsKind(err, errors.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if errors.StageOf(err) != errors.StagePostcode {
		t.Fatalf("expected postcode stage, got %s", errors.StageOf(err))
	}
}

func TestResolveMissingResultIsNotFound(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200}`))
	})

	_, err := client.Resolve(context.Background(), "SW1A 2AA")
	if !errors.IsKind(err, errors.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestResolveWithoutConstituency(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"result":{"postcode":"GY1 1AA","region":null,"country":"Channel Islands"}}`))
	})

	_, err := client.Resolve(context.Background(), "GY1 1AA")
	if !errors.IsKind(err, errors.KindNoConstituency) {
		t.Fatalf("expected NoConstituency, got %v", err)
	}
}

func TestResolveServerError(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Resolve(context.Background(), "SW1A 2AA")
	if !errors.IsKind(err, errors.KindServiceUnavailable) {
		t.Fatalf("expected ServiceUnavailable, got %v", err)
	}
}

func TestAutocomplete(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/postcodes/SW1A/autocomplete" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":200,"result":["SW1A 0AA","SW1A 1AA"]}`))
	})

	got := client.Autocomplete(context.Background(), " sw1a ")
	if len(got) != 2 || got[0] != "SW1A 0AA" {
		t.Fatalf("unexpected suggestions %v", got)
	}
}

func TestAutocompleteDegradesToEmpty(t *testing.T) {
	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	got := client.Autocomplete(context.Background(), "SW1A")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}

	nullResult := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"result":null}`))
	})
	if got := nullResult.Autocomplete(context.Background(), "ZZ"); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}
