package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)

	result, err := registry.Execute(context.Background(), "test", func() (any, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if result != 42 {
		t.Errorf("expected result 42, got %v", result)
	}
}

func TestCircuitBreaker_PassesThroughError(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	wantErr := errors.New("upstream failure")

	_, err := registry.Execute(context.Background(), "test", func() (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected upstream error to pass through, got %v", err)
	}
}

func TestCircuitBreaker_TripsAfterRepeatedFailures(t *testing.T) {
	registry := NewCircuitBreakerRegistry(CircuitBreakerConfig{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
	})
	failure := errors.New("provider down")

	// Breaker trips at >=5 requests with >=50% failures.
	for i := 0; i < 5; i++ {
		registry.Execute(context.Background(), "flaky", func() (any, error) {
			return nil, failure
		})
	}

	_, err := registry.Execute(context.Background(), "flaky", func() (any, error) {
		t.Error("function executed while breaker should be open")
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected gobreaker.ErrOpenState, got %v", err)
	}
}

func TestCircuitBreaker_RespectsContext(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := registry.Execute(ctx, "test", func() (any, error) {
		t.Error("function executed with cancelled context")
		return nil, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCircuitBreaker_SeparateBreakersPerName(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)

	a := registry.GetBreaker("yahoo")
	b := registry.GetBreaker("alpaca")
	if a == b {
		t.Error("expected distinct breakers per provider name")
	}
	if again := registry.GetBreaker("yahoo"); again != a {
		t.Error("expected the same breaker on repeated lookup")
	}
}

func TestWithCircuitBreaker_TypedResult(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	got, err := WithCircuitBreaker(context.Background(), "typed", func() ([]string, error) {
		return []string{"a", "b"}, nil
	})
	if err != nil {
		t.Fatalf("WithCircuitBreaker() failed: %v", err)
	}
	if len(got) != 2 || got[0] != "a" {
		t.Errorf("expected [a b], got %v", got)
	}

	_, err = WithCircuitBreaker(context.Background(), "typed", func() ([]string, error) {
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatal("WithCircuitBreaker() expected error, got nil")
	}
}
