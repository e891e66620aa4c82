package async

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

func TestRunParallel_Success(t *testing.T) {
	var count atomic.Int32

	tasks := []Task{
		{Name: "one", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
		{Name: "two", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
	}

	if err := RunParallel(context.Background(), tasks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count.Load() != 2 {
		t.Errorf("expected 2 tasks to run, got %d", count.Load())
	}
}

func TestRunParallel_FirstErrorReported(t *testing.T) {
	tasks := []Task{
		{Name: "good", Func: func(_ context.Context) error { return nil }},
		{Name: "bad", Func: func(_ context.Context) error { return errors.New("boom") }},
	}

	err := RunParallel(context.Background(), tasks)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Errorf("expected task name in error, got: %v", err)
	}
}

func TestRunParallel_Empty(t *testing.T) {
	if err := RunParallel(context.Background(), nil); err != nil {
		t.Errorf("expected nil for empty task list, got: %v", err)
	}
}
