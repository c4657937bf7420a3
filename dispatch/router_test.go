package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"
)

type addTodo struct {
	Title string
}

func (addTodo) Type() string { return "[Todo] Add" }

func TestRouterRunsHandlersInOrder(t *testing.T) {
	router := NewRouter()
	var calls []string
	_ = router.Handle("[todo] add", func(_ context.Context, action Action) error {
		calls = append(calls, "first:"+action.(addTodo).Title)
		return nil
	})
	_ = router.Handle("[Todo] Add", func(_ context.Context, action Action) error {
		calls = append(calls, "second:"+action.(addTodo).Title)
		return nil
	})

	completion := router.Dispatch(context.Background(), addTodo{Title: "a"}, addTodo{Title: "b"}, Named("unknown"))
	if err := completion.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	want := []string{"first:a", "second:a", "first:b", "second:b"}
	if len(calls) != len(want) {
		t.Fatalf("unexpected calls: %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("unexpected calls: %v", calls)
		}
	}
}

func TestRouterJoinsHandlerErrors(t *testing.T) {
	router := NewRouter()
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	_ = router.Handle("a", func(context.Context, Action) error { return boom1 })
	_ = router.Handle("b", func(context.Context, Action) error { return boom2 })

	err := router.Dispatch(context.Background(), Named("a"), Named("b")).Err()
	if !errors.Is(err, boom1) || !errors.Is(err, boom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
}

func TestRouterHandleValidation(t *testing.T) {
	router := NewRouter()
	if err := router.Handle("", func(context.Context, Action) error { return nil }); err == nil {
		t.Fatalf("expected empty type to be rejected")
	}
	if err := router.Handle("x", nil); err == nil {
		t.Fatalf("expected nil handler to be rejected")
	}
}

func TestRouterStopsOnCancelledContext(t *testing.T) {
	router := NewRouter()
	called := false
	_ = router.Handle("a", func(context.Context, Action) error { called = true; return nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := router.Dispatch(ctx, Named("a")).Err()
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Fatalf("expected handler to be skipped")
	}
}

func TestCompletionResolvesOnce(t *testing.T) {
	c := NewCompletion()
	if c.Err() != nil {
		t.Fatalf("expected pending completion to report nil")
	}
	first := errors.New("first")
	c.Resolve(first)
	c.Resolve(errors.New("second"))
	if !errors.Is(c.Err(), first) {
		t.Fatalf("expected first resolution to stick, got %v", c.Err())
	}
	select {
	case <-c.Done():
	default:
		t.Fatalf("expected Done to be closed")
	}
}

func TestCompletionWaitHonoursContext(t *testing.T) {
	c := NewCompletion()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := c.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestDispatcherFuncNil(t *testing.T) {
	var fn DispatcherFunc
	if err := fn.Dispatch(context.Background(), Named("a")).Err(); err != nil {
		t.Fatalf("expected nil dispatcher func to resolve cleanly, got %v", err)
	}
}

func TestRouterTypes(t *testing.T) {
	router := NewRouter()
	_ = router.Handle("B", func(context.Context, Action) error { return nil })
	_ = router.Handle("a", func(context.Context, Action) error { return nil })

	types := router.Types()
	if len(types) != 2 || types[0] != "a" || types[1] != "b" {
		t.Fatalf("unexpected types: %v", types)
	}
}
