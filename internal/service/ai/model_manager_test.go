package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/dearpower/dearpower-go/internal/util"
	"go.uber.org/zap"
)

type fakeProvider struct {
	name   string
	text   string
	err    error
	calls  int32
	models []string
	ping   bool
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (ProviderResult, error) {
	atomic.AddInt32(&f.calls, 1)
	model := f.name + "-default"
	if opts != nil && opts.Model != "" {
		model = opts.Model
	}
	f.models = append(f.models, model)
	if f.err != nil {
		return ProviderResult{}, f.err
	}
	return ProviderResult{Text: f.text, Model: model}, nil
}

func (f *fakeProvider) Ping(ctx context.Context) bool { return f.ping }

func TestGenerateTextUsesPrimary(t *testing.T) {
	primary := &fakeProvider{name: "OpenAI", text: "Dear Ms Blake"}
	fallback := &fakeProvider{name: "Gemini", text: "unused"}
	mm := NewModelManagerWithProviders(primary, fallback, zap.NewNop())

	text, meta, err := mm.GenerateText(context.Background(), "prompt", PresetDrafting, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text != "Dear Ms Blake" || meta.Provider != "OpenAI" || meta.UsedFallback {
		t.Fatalf("unexpected result %q %+v", text, meta)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback must not be called when primary succeeds")
	}
}

func TestGenerateTextFallsBack(t *testing.T) {
	primary := &fakeProvider{name: "OpenAI", err: fmt.Errorf(`POST "https://api.openai.com/v1/chat/completions": 503 Service Unavailable`)}
	fallback := &fakeProvider{name: "Gemini", text: "Dear Mr Smith"}
	mm := NewModelManagerWithProviders(primary, fallback, zap.NewNop())

	text, meta, err := mm.GenerateText(context.Background(), "prompt", PresetDrafting, &GenerateOptions{Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("expected fallback success, got %v", err)
	}
	if text != "Dear Mr Smith" || meta.Provider != "Gemini" || !meta.UsedFallback {
		t.Fatalf("unexpected result %q %+v", text, meta)
	}
	if fallback.models[0] != "Gemini-default" {
		t.Fatalf("expected model override to be dropped for fallback, got %q", fallback.models[0])
	}
}

func TestGenerateTextWithoutProvider(t *testing.T) {
	mm := NewModelManagerWithProviders(nil, nil, zap.NewNop())
	if mm.Configured() {
		t.Fatalf("expected unconfigured manager")
	}
	if _, _, err := mm.GenerateText(context.Background(), "p", PresetDrafting, nil); !stderrors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
}

func TestCircuitOpensOnRepeatedOutages(t *testing.T) {
	primary := &fakeProvider{name: "OpenAI", err: fmt.Errorf("502 Bad Gateway")}
	mm := NewModelManagerWithProviders(primary, nil, zap.NewNop())

	for i := 0; i < 3; i++ {
		if _, _, err := mm.GenerateText(context.Background(), "p", PresetDrafting, nil); err == nil {
			t.Fatalf("expected failure")
		}
	}
	if mm.GetCircuitStatus().State != util.CircuitStateOpen {
		t.Fatalf("expected open circuit, got %s", mm.GetCircuitStatus().State)
	}

	_, _, err := mm.GenerateText(context.Background(), "p", PresetDrafting, nil)
	if !stderrors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if primary.calls != 3 {
		t.Fatalf("expected no call while open, got %d calls", primary.calls)
	}

	mm.ResetCircuit()
	if mm.GetCircuitStatus().State != util.CircuitStateClosed {
		t.Fatalf("expected closed after reset")
	}
}

func TestClientErrorsDoNotTripCircuit(t *testing.T) {
	primary := &fakeProvider{name: "OpenAI", err: fmt.Errorf("400 Bad Request: invalid prompt")}
	mm := NewModelManagerWithProviders(primary, nil, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, _, _ = mm.GenerateText(context.Background(), "p", PresetDrafting, nil)
	}
	if mm.GetCircuitStatus().State != util.CircuitStateClosed {
		t.Fatalf("expected circuit to stay closed on client errors")
	}
}

func TestFailureClassification(t *testing.T) {
	cases := []struct {
		err       error
		service   bool
		rateLimit bool
	}{
		{fmt.Errorf("429 Too Many Requests"), true, true},
		{fmt.Errorf(`googleapi: {"code": 429, "message": "Resource has been exhausted (e.g. check quota)."}`), true, true},
		{fmt.Errorf(`{"code":500,"message":"internal"}`), true, false},
		{fmt.Errorf("request timeout"), true, false},
		{context.DeadlineExceeded, true, false},
		{fmt.Errorf("401 Unauthorized"), false, false},
		{fmt.Errorf("empty response from Gemini"), false, false},
	}

	for _, tc := range cases {
		if got := isServiceFailure(tc.err); got != tc.service {
			t.Errorf("%v: isServiceFailure=%v, want %v", tc.err, got, tc.service)
		}
		if got := isRateLimitError(tc.err); got != tc.rateLimit {
			t.Errorf("%v: isRateLimitError=%v, want %v", tc.err, got, tc.rateLimit)
		}
	}
}

func TestPresetDefaults(t *testing.T) {
	if GetPresetConfig("unknown") != GetPresetConfig(PresetDrafting) {
		t.Fatalf("expected unknown preset to fall back to drafting")
	}
	if GetOpenAIPresetConfig(PresetPrecise).Temperature >= GetOpenAIPresetConfig(PresetDrafting).Temperature {
		t.Fatalf("expected precise preset to be cooler than drafting")
	}
}
