package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/dearpower/dearpower-go/pkg/errors"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test", srv.URL+"/", srv.Client(), timeout, zap.NewNop())
}

func TestGetJSONDecodesBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/things" || r.URL.Query().Get("q") != "a b" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}, time.Second)

	var out struct {
		Name string `json:"name"`
	}
	if err := client.GetJSON(context.Background(), "/things", url.Values{"q": {"a b"}}, &out); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Name != "ok" {
		t.Fatalf("expected decoded name, got %q", out.Name)
	}
}

func TestGetJSONReportsStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}, time.Second)

	err := client.GetJSON(context.Background(), "/x", nil, &struct{}{})
	if got := errors.APIStatus(err); got != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%v)", got, err)
	}
	if IsTransport(err) {
		t.Fatalf("404 must not be classified as transport failure")
	}
}

func TestGetJSONTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	err := client.GetJSON(context.Background(), "/slow", nil, &struct{}{})
	if !IsTransport(err) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	lookup := Classify(errors.StageProfile, err, errors.KindProfileFetchFailed, errors.KindProfileFetchFailed, "x")
	if lookup.Kind != errors.KindTimeout {
		t.Fatalf("expected timeout, got %s", lookup.Kind)
	}
}

func TestGetJSONMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}, time.Second)

	err := client.GetJSON(context.Background(), "/x", nil, &struct{}{})
	if !IsDecode(err) {
		t.Fatalf("expected decode failure, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	notFound := errors.NewAPIError("nf", 404, nil)
	if got := Classify(errors.StagePostcode, notFound, errors.KindNotFound, errors.KindNotFound, "m"); got.Kind != errors.KindNotFound {
		t.Fatalf("expected NotFound, got %s", got.Kind)
	}

	badRequest := errors.NewAPIError("bad", 400, nil)
	if got := Classify(errors.StageConstituency, badRequest, errors.KindConstituencyNotFound, errors.KindServiceUnavailable, "m"); got.Kind != errors.KindServiceUnavailable {
		t.Fatalf("expected ServiceUnavailable, got %s", got.Kind)
	}

	serverErr := errors.NewAPIError("boom", 503, nil)
	if got := Classify(errors.StagePostcode, serverErr, errors.KindNotFound, errors.KindNotFound, "m"); got.Kind != errors.KindServiceUnavailable {
		t.Fatalf("expected ServiceUnavailable, got %s", got.Kind)
	}
	if got := Classify(errors.StagePostcode, serverErr, errors.KindNotFound, errors.KindNotFound, "m"); got.Stage != errors.StagePostcode {
		t.Fatalf("expected stage to be preserved, got %s", got.Stage)
	}
}
