package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithBackoff_Success(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return nil
	}

	ctx := context.Background()
	err := WithBackoff(ctx, operation)

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got: %d", attempts)
	}
}

func TestWithBackoff_SuccessAfterRetries(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	ctx := context.Background()
	err := WithBackoff(ctx, operation, WithInitialDelay(10*time.Millisecond))

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got: %d", attempts)
	}
}

func TestWithBackoff_Exhausted(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("persistent error")
	}

	ctx := context.Background()
	err := WithBackoff(ctx, operation,
		WithMaxRetries(2),
		WithInitialDelay(time.Millisecond))

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !IsExhausted(err) {
		t.Errorf("Expected exhausted error, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got: %d", attempts)
	}
}

func TestWithBackoff_FatalNotRetried(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return Fatal(errors.New("bad input"))
	}

	ctx := context.Background()
	err := WithBackoff(ctx, operation, WithInitialDelay(time.Millisecond))

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if IsExhausted(err) {
		t.Errorf("Fatal error must not count as exhausted: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got: %d", attempts)
	}
}

func TestWithBackoff_ContextCancelled(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("still failing")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithBackoff(ctx, operation, WithInitialDelay(time.Second))

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt before cancellation, got: %d", attempts)
	}
}

func TestWithFixedInterval(t *testing.T) {
	cfg := &Config{}
	WithFixedInterval(5 * time.Second)(cfg)

	if cfg.InitialDelay != 5*time.Second || cfg.MaxDelay != 5*time.Second {
		t.Errorf("Expected flat 5s delay, got initial=%v max=%v", cfg.InitialDelay, cfg.MaxDelay)
	}
	if cfg.Multiplier != 1.0 {
		t.Errorf("Expected multiplier 1.0, got: %f", cfg.Multiplier)
	}
}

func TestFatal_NilError(t *testing.T) {
	if Fatal(nil) != nil {
		t.Error("Fatal(nil) should return nil")
	}
}
