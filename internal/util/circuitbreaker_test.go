package util

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute, time.Minute, nil, zap.NewNop())

	cb.RecordFailure(0)
	if !cb.CanExecute() {
		t.Fatalf("expected circuit closed after one failure")
	}

	cb.RecordFailure(0)
	if cb.CanExecute() {
		t.Fatalf("expected circuit open after reaching threshold")
	}

	status := cb.GetStatus()
	if status.State != CircuitStateOpen || status.NextRetryTime == nil {
		t.Fatalf("expected open status with retry time, got %+v", status)
	}
}

func TestCircuitBreakerHalfOpensAfterTimeout(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(1, 30*time.Second, time.Minute, nil, zap.NewNop())
	cb.now = func() time.Time { return now }

	cb.RecordFailure(0)
	if cb.GetState() != CircuitStateOpen {
		t.Fatalf("expected open")
	}

	now = now.Add(31 * time.Second)
	if cb.GetState() != CircuitStateHalfOpen {
		t.Fatalf("expected half-open after reset timeout")
	}

	cb.RecordSuccess()
	if cb.GetState() != CircuitStateClosed {
		t.Fatalf("expected closed after success in half-open")
	}
}

func TestCircuitBreakerReopensOnHalfOpenFailure(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(3, time.Second, time.Minute, nil, zap.NewNop())
	cb.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		cb.RecordFailure(0)
	}
	now = now.Add(2 * time.Second)
	if cb.GetState() != CircuitStateHalfOpen {
		t.Fatalf("expected half-open")
	}

	cb.RecordFailure(0)
	if cb.GetState() != CircuitStateOpen {
		t.Fatalf("expected a single half-open failure to reopen the circuit")
	}
}

func TestCircuitBreakerHealthCheckGatesRecovery(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	probed := make(chan struct{}, 1)
	cb := NewCircuitBreaker(1, time.Second, time.Second, func() bool {
		probed <- struct{}{}
		return true
	}, zap.NewNop())
	cb.now = func() time.Time { return now }

	cb.RecordFailure(0)
	now = now.Add(2 * time.Second)
	_ = cb.GetState()

	select {
	case <-probed:
	case <-time.After(time.Second):
		t.Fatalf("expected health check to run")
	}

	deadline := time.Now().Add(time.Second)
	for cb.GetState() != CircuitStateHalfOpen {
		if time.Now().After(deadline) {
			t.Fatalf("expected half-open after passing health check")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCircuitBreakerReset(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Hour, time.Hour, nil, zap.NewNop())
	cb.RecordFailure(0)
	cb.Reset()
	if !cb.CanExecute() {
		t.Fatalf("expected closed after reset")
	}
}
